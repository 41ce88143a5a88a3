package authoring

import (
	"fmt"
	"time"
)

// Reaction is a persisted feedback value.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ParseReaction accepts "like" or "dislike".
func ParseReaction(s string) (Reaction, error) {
	switch Reaction(s) {
	case ReactionLike, ReactionDislike:
		return Reaction(s), nil
	}
	return "", fmt.Errorf("reaction must be 'like' or 'dislike', got %q", s)
}

// FeedbackState is the per-section feedback state machine.
type FeedbackState int

const (
	FeedbackNone FeedbackState = iota
	FeedbackLike
	FeedbackDislike
)

// StateOf maps a stored reaction (nil when no row exists) to its state.
func StateOf(r *Reaction) FeedbackState {
	if r == nil {
		return FeedbackNone
	}
	if *r == ReactionLike {
		return FeedbackLike
	}
	return FeedbackDislike
}

// Next applies a click. Clicking the active reaction clears it, clicking the
// other one switches, clicking from NONE sets it. A nil click always clears.
func (s FeedbackState) Next(click *Reaction) FeedbackState {
	if click == nil {
		return FeedbackNone
	}
	target := StateOf(click)
	if s == target {
		return FeedbackNone
	}
	return target
}

// Valid reports whether s is one of the three states.
func (s FeedbackState) Valid() bool {
	return s >= FeedbackNone && s <= FeedbackDislike
}

// Reaction returns the stored form of the state, nil for NONE.
func (s FeedbackState) Reaction() *Reaction {
	var r Reaction
	switch s {
	case FeedbackLike:
		r = ReactionLike
	case FeedbackDislike:
		r = ReactionDislike
	default:
		return nil
	}
	return &r
}

func (s FeedbackState) String() string {
	switch s {
	case FeedbackLike:
		return "LIKE"
	case FeedbackDislike:
		return "DISLIKE"
	default:
		return "NONE"
	}
}

// FeedbackRecord is the single stored reaction of a section.
type FeedbackRecord struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	SectionID  string    `json:"section_id" db:"section_id"`
	Reaction   Reaction  `json:"reaction" db:"reaction"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
