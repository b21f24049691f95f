package list

import "time"

// List is a board column stored in a process's lists namespace.
type List struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeleteResult reports a list deletion and the cards it removed.
type DeleteResult struct {
	List         *List `json:"list"`
	CardsRemoved int64 `json:"cards_removed"`
}
