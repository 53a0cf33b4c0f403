package models

import "github.com/google/uuid"

// Principal is the immutable authenticated identity extracted from a
// verified token. The guard builds one per request and it is passed
// explicitly to every operation that needs an authorization decision.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanModify is the central ownership rule: the resource owner or any admin
// may mutate a post or comment.
func (p Principal) CanModify(ownerID uuid.UUID) bool {
	return p.ID == ownerID || p.IsAdmin()
}
