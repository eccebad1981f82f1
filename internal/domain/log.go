package domain

import "time"

// ReadingLog records one reading session attributed to a calendar date.
//
// Logs are immutable after creation; the only mutation is deletion. Pages
// and minutes are stored only when positive - a log with neither is still
// valid (it marks the day as a reading day).
type ReadingLog struct {
	ID     string `json:"id"`
	Date   string `json:"date"` // calendar date in DateLayout
	BookID string `json:"book_id"`

	Pages   int    `json:"pages,omitempty"`
	Minutes int    `json:"minutes,omitempty"`
	Note    string `json:"note,omitempty"`

	// CreatedAt is the tie-breaker for stable ordering of same-day logs.
	CreatedAt time.Time `json:"created_at"`
}
