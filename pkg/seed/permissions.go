package seed

import (
	"context"
	"fmt"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// Permission is the stored shape of a role permission
type Permission struct {
	Action string `json:"action"`
	Role   int64  `json:"role"`
}

// FindRole returns the role with the given type, or nil if there is none
func FindRole(ctx context.Context, store document.Store, roleType string) (*document.Document, error) {
	role, err := store.FindFirst(ctx, content.RoleUID, document.Filter{"type": roleType})
	if err != nil {
		return nil, fmt.Errorf("find role %q: %w", roleType, err)
	}
	return role, nil
}

// EnsurePermissions grants every action in actions to role that it
// doesn't already hold. Existing permissions are never touched and
// duplicate actions are granted once. Returns the newly granted actions
// in input order.
func EnsurePermissions(ctx context.Context, store document.Store, role *document.Document, actions []string) ([]string, error) {
	existing, err := store.FindMany(ctx, content.PermissionUID, document.Filter{"role": role.ID})
	if err != nil {
		return nil, fmt.Errorf("list permissions of role %d: %w", role.ID, err)
	}

	held := make(map[string]struct{}, len(existing))
	for _, doc := range existing {
		var perm Permission
		if err := doc.Decode(&perm); err != nil {
			return nil, err
		}
		held[perm.Action] = struct{}{}
	}

	var granted []string
	for _, action := range actions {
		if _, ok := held[action]; ok {
			continue
		}
		data, err := document.FieldsOf(Permission{Action: action, Role: role.ID})
		if err != nil {
			return granted, err
		}
		if _, err := store.Create(ctx, content.PermissionUID, document.CreateParams{Data: data}); err != nil {
			return granted, fmt.Errorf("grant %s: %w", action, err)
		}
		held[action] = struct{}{}
		granted = append(granted, action)
	}
	return granted, nil
}
