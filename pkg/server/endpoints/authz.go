package endpoints

import (
	"context"
	"fmt"

	"github.com/smokinadorabulls/kennel-cms/pkg/content"
	"github.com/smokinadorabulls/kennel-cms/pkg/document"
)

// isPublicAllowedTo reports whether the role of type roleType holds a
// permission for action. A missing role holds nothing.
func isPublicAllowedTo(ctx context.Context, store document.Store, roleType, action string) (bool, error) {
	role, err := store.FindFirst(ctx, content.RoleUID, document.Filter{"type": roleType})
	if err != nil {
		return false, fmt.Errorf("find role %q: %w", roleType, err)
	}
	if role == nil {
		return false, nil
	}

	perm, err := store.FindFirst(ctx, content.PermissionUID, document.Filter{
		"role":   role.ID,
		"action": action,
	})
	if err != nil {
		return false, fmt.Errorf("find permission %s: %w", action, err)
	}
	return perm != nil, nil
}
