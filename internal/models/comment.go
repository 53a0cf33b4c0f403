package models

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID             uuid.UUID   `json:"id"`
	PostID         uuid.UUID   `json:"postId"`
	AuthorID       uuid.UUID   `json:"userId"`
	AuthorUsername string      `json:"authorUsername,omitempty"`
	Content        string      `json:"content"`
	Likes          []uuid.UUID `json:"likes"`
	NumberOfLikes  int         `json:"numberOfLikes"`
	Flags          []uuid.UUID `json:"flags"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// LikedBy reports whether userID is in the comment's like set.
func (c *Comment) LikedBy(userID uuid.UUID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike adds or removes userID from the like set and recomputes
// NumberOfLikes from the set size. The count is never adjusted on its own;
// it always equals len(Likes). Returns true if the user now likes the
// comment.
func (c *Comment) ToggleLike(userID uuid.UUID) bool {
	liked := false
	if c.LikedBy(userID) {
		kept := c.Likes[:0]
		for _, id := range c.Likes {
			if id != userID {
				kept = append(kept, id)
			}
		}
		c.Likes = kept
	} else {
		c.Likes = append(c.Likes, userID)
		liked = true
	}
	c.NumberOfLikes = len(c.Likes)
	return liked
}

// FlaggedBy reports whether userID is already in the comment's flag set.
func (c *Comment) FlaggedBy(userID uuid.UUID) bool {
	for _, id := range c.Flags {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveFlag removes userID from the flag set; absent entries are a no-op.
func (c *Comment) RemoveFlag(userID uuid.UUID) {
	kept := c.Flags[:0]
	for _, id := range c.Flags {
		if id != userID {
			kept = append(kept, id)
		}
	}
	c.Flags = kept
}
