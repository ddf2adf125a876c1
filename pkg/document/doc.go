// Package document defines the document store contract the provisioner
// and the public API are written against.
//
// A document store keeps JSON documents in named collections identified by
// UID (for example "api::puppy.puppy"). Every document carries a raw
// numeric ID, a stable string DocumentID and a publication Status.
//
// # Store Interface
//
//	FindFirst(ctx, uid, filter)  // zero or one document
//	FindMany(ctx, uid, filter)   // ordered by ID
//	Create(ctx, uid, CreateParams{Data, Status})
//	Update(ctx, uid, UpdateParams{DocumentID | ID, Data, Status})
//
// Two implementations are provided: memory.Store for tests and local runs,
// and gorm.Store for PostgreSQL.
//
// # Relations
//
// Relation fields are declared per content type in a Schema. On write they
// accept {"set": [...]} or a plain list, where each item is {"id": n},
// {"documentId": "..."}, a bare number or a bare string:
//
//	store.Update(ctx, "api::about-page.about-page", document.UpdateParams{
//	    DocumentID: page.DocumentID,
//	    Data: document.Fields{
//	        "featuredPuppies": document.Relation{Set: []document.Ref{{ID: 3}}},
//	    },
//	})
//
// Stores resolve each reference against the target collection and persist
// it with both halves filled, so readers always get []Ref.
package document
