package entity

import (
	"time"

	"github.com/google/uuid"
)

// Batch holds the suggestions of one run, in input order.
type Batch struct {
	ID          uuid.UUID    `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	Suggestions []Suggestion `json:"suggestions"`
}

// NewBatch starts an empty batch with a fresh ID.
func NewBatch() *Batch {
	return &Batch{ID: uuid.New(), CreatedAt: time.Now().UTC()}
}

// Counts tallies suggestions by status.
type Counts struct {
	Total     int
	Errors    int
	NoChange  int
	Renamable int
}

func (b *Batch) Counts() Counts {
	c := Counts{Total: len(b.Suggestions)}
	for _, s := range b.Suggestions {
		switch {
		case s.Failure != nil:
			c.Errors++
		case s.Renamable():
			c.Renamable++
		default:
			c.NoChange++
		}
	}
	return c
}
