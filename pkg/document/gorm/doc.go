// Package gorm provides the PostgreSQL implementation of document.Store.
//
// Documents of every collection share the documents table (see pkg/model).
// Filters are translated to jsonb containment, so a filter value must match
// the stored top-level value exactly for scalars.
//
//	store := gorm.NewStore(db, content.Schema())
//	role, err := store.FindFirst(ctx, content.RoleUID, document.Filter{"type": "public"})
package gorm
