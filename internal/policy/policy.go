// Package policy holds the authorization rules for owned resources.
package policy

import (
	"github.com/alphabot-ai/remarks/internal/apperr"
	"github.com/alphabot-ai/remarks/internal/model"
)

// IsOwner reports whether principalID owns a resource owned by ownerID.
// Roles are never consulted.
func IsOwner(principalID, ownerID int64) bool {
	return principalID != 0 && principalID == ownerID
}

func IsAdmin(p *model.Principal) bool {
	return p != nil && p.IsAdmin
}

func OwnerOnly(p *model.Principal, ownerID int64) error {
	if p == nil || !IsOwner(p.UserID, ownerID) {
		return apperr.NotOwner("you do not own this comment")
	}
	return nil
}

// OwnerOrAdmin lets admins through regardless of ownership.
func OwnerOrAdmin(p *model.Principal, ownerID int64) error {
	if IsAdmin(p) {
		return nil
	}
	return OwnerOnly(p, ownerID)
}

func AdminOnly(p *model.Principal) error {
	if !IsAdmin(p) {
		return apperr.NotAdmin("admin privileges required")
	}
	return nil
}
