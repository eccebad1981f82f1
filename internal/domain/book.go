// Package domain contains the core business entities and domain logic for the Quiet Shelf reading tracker.
package domain

import "time"

// DateLayout is the calendar-date format used for reading dates and
// status milestones throughout the system.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// BookStatus represents where a book sits in the reading lifecycle.
type BookStatus string

const (
	// StatusTBR marks a book that has not been started ("to be read").
	StatusTBR BookStatus = "tbr"
	// StatusReading marks a book currently being read.
	StatusReading BookStatus = "reading"
	// StatusFinished marks a completed book.
	StatusFinished BookStatus = "finished"
	// StatusDNF marks a book abandoned before the end ("did not finish").
	StatusDNF BookStatus = "dnf"
)

// AllStatuses lists every status in cycle order.
var AllStatuses = []BookStatus{StatusTBR, StatusReading, StatusFinished, StatusDNF}

// Valid reports whether s is one of the four known statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusTBR, StatusReading, StatusFinished, StatusDNF:
		return true
	}
	return false
}

// Next returns the status that follows s in the fixed cycle
// tbr -> reading -> finished -> dnf -> tbr.
func (s BookStatus) Next() BookStatus {
	switch s {
	case StatusTBR:
		return StatusReading
	case StatusReading:
		return StatusFinished
	case StatusFinished:
		return StatusDNF
	default:
		return StatusTBR
	}
}

// Book represents one tracked title in the library.
//
// Descriptive metadata (title, authors, page count, genres, cover) is copied
// from the external lookup at creation time and never refreshed. Genres are
// normalized once at the lookup boundary and immutable afterwards.
type Book struct {
	Timestamps

	// SourceVolumeID is the external catalog identifier, kept for
	// provenance only. It is not a join key within this system.
	SourceVolumeID string `json:"source_volume_id,omitempty"`

	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PageCount     int      `json:"page_count,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	Description   string   `json:"description,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`

	Status BookStatus `json:"status"`

	// Milestone dates record the first time the book entered each status.
	// Once set they are never cleared or overwritten by further cycling.
	StartedOn  string `json:"started_on,omitempty"`
	FinishedOn string `json:"finished_on,omitempty"`
	DnfOn      string `json:"dnf_on,omitempty"`

	Tags   []string `json:"tags,omitempty"`
	Notes  string   `json:"notes,omitempty"`
	Rating int      `json:"rating,omitempty"` // 1-5, 0 means unrated
}

// EnterStatus moves the book into next and stamps the matching milestone
// date with today, but only if that milestone has never been set. Milestone
// dates accumulate monotonically: cycling back through a status a second
// time leaves the original date intact.
func (b *Book) EnterStatus(next BookStatus, today string) {
	b.Status = next
	switch next {
	case StatusReading:
		if b.StartedOn == "" {
			b.StartedOn = today
		}
	case StatusFinished:
		if b.FinishedOn == "" {
			b.FinishedOn = today
		}
	case StatusDNF:
		if b.DnfOn == "" {
			b.DnfOn = today
		}
	}
	b.Touch()
}

// HasTag reports whether the book carries the given tag exactly.
func (b *Book) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasGenre reports whether the book carries the given genre exactly.
func (b *Book) HasGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return true
		}
	}
	return false
}
