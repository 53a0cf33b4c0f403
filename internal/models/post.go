package models

import (
	"time"

	"github.com/google/uuid"
)

// DeletedAuthorName is shown in place of the username when a post or comment
// outlives its author's account.
const DeletedAuthorName = "[deleted]"

// DefaultCategory is assigned to posts created without an explicit category.
const DefaultCategory = "uncategorized"

type Post struct {
	ID             uuid.UUID   `json:"id"`
	AuthorID       uuid.UUID   `json:"userId"`
	AuthorUsername string      `json:"authorUsername,omitempty"`
	AuthorEmail    string      `json:"authorEmail,omitempty"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	Image          string      `json:"image,omitempty"`
	Category       string      `json:"category"`
	Slug           string      `json:"slug"`
	Flags          []uuid.UUID `json:"flags"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// FlaggedBy reports whether userID is already in the post's flag set.
func (p *Post) FlaggedBy(userID uuid.UUID) bool {
	for _, id := range p.Flags {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveFlag removes userID from the flag set. Removing an absent entry is
// a no-op, not an error.
func (p *Post) RemoveFlag(userID uuid.UUID) {
	kept := p.Flags[:0]
	for _, id := range p.Flags {
		if id != userID {
			kept = append(kept, id)
		}
	}
	p.Flags = kept
}
