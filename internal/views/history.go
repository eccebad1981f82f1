package views

import (
	"sort"
	"time"

	"github.com/quietshelf/quietshelf-server/internal/domain"
)

// Intensity buckets a day's activity for heatmap rendering.
type Intensity string

const (
	IntensityNone     Intensity = "none"
	IntensityLow      Intensity = "low"
	IntensityMedium   Intensity = "medium"
	IntensityHigh     Intensity = "high"
	IntensityVeryHigh Intensity = "very-high"
)

// trailingDays is the size of the heatmap window, today inclusive.
const trailingDays = 365

// DaySummary is one day of aggregated reading activity.
type DaySummary struct {
	Date      string    `json:"date"`
	Total     int       `json:"total"`
	Count     int       `json:"count"`
	Intensity Intensity `json:"intensity"`
}

// DayTotal scores a single log entry. Pages count whole, minutes count
// half, rounded to the nearest point.
func DayTotal(log *domain.ReadingLog) int {
	return log.Pages + (log.Minutes+1)/2
}

// AggregateByDay sums log scores and entry counts per date.
func AggregateByDay(logs []*domain.ReadingLog) map[string]DaySummary {
	byDay := make(map[string]DaySummary)
	for _, log := range logs {
		summary := byDay[log.Date]
		summary.Date = log.Date
		summary.Total += DayTotal(log)
		summary.Count++
		byDay[log.Date] = summary
	}
	for date, summary := range byDay {
		summary.Intensity = IntensityFor(summary.Total)
		byDay[date] = summary
	}
	return byDay
}

// TrailingYear returns exactly 365 day summaries covering the window
// ending at today, oldest first. Days without logs are zero-filled.
func TrailingYear(logs []*domain.ReadingLog, today time.Time) []DaySummary {
	byDay := AggregateByDay(logs)

	days := make([]DaySummary, 0, trailingDays)
	start := today.AddDate(0, 0, -(trailingDays - 1))
	for d := range trailingDays {
		date := start.AddDate(0, 0, d).Format(domain.DateLayout)
		summary, ok := byDay[date]
		if !ok {
			summary = DaySummary{Date: date, Intensity: IntensityNone}
		}
		days = append(days, summary)
	}
	return days
}

// IntensityFor maps a day total onto a heatmap bucket.
func IntensityFor(total int) Intensity {
	switch {
	case total <= 0:
		return IntensityNone
	case total < 10:
		return IntensityLow
	case total < 30:
		return IntensityMedium
	case total < 60:
		return IntensityHigh
	default:
		return IntensityVeryHigh
	}
}

// MonthCells lays out a calendar month as a flat cell list: leading empty
// strings pad to the weekday of the 1st (Sunday first), followed by one
// ISO date per day of the month. month0 is zero-based, January = 0.
func MonthCells(year, month0 int) []string {
	first := time.Date(year, time.Month(month0+1), 1, 0, 0, 0, 0, time.UTC)
	padding := int(first.Weekday())
	daysInMonth := first.AddDate(0, 1, -1).Day()

	cells := make([]string, 0, padding+daysInMonth)
	for range padding {
		cells = append(cells, "")
	}
	for day := range daysInMonth {
		cells = append(cells, first.AddDate(0, 0, day).Format(domain.DateLayout))
	}
	return cells
}

// BooksByDate maps each date to the distinct book IDs logged that day,
// ordered by first log appearance.
func BooksByDate(logs []*domain.ReadingLog) map[string][]string {
	ordered := make([]*domain.ReadingLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	byDate := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, log := range ordered {
		if seen[log.Date] == nil {
			seen[log.Date] = make(map[string]bool)
		}
		if seen[log.Date][log.BookID] {
			continue
		}
		seen[log.Date][log.BookID] = true
		byDate[log.Date] = append(byDate[log.Date], log.BookID)
	}
	return byDate
}

// BooksForDate resolves the books logged on the given date. Book IDs with
// no matching book are skipped rather than producing holes; the cascade
// delete makes dangling references transient at worst.
func BooksForDate(date string, logs []*domain.ReadingLog, books []*domain.Book) []*domain.Book {
	byID := make(map[string]*domain.Book, len(books))
	for _, book := range books {
		byID[book.ID] = book
	}

	var resolved []*domain.Book
	for _, bookID := range BooksByDate(logs)[date] {
		if book, ok := byID[bookID]; ok {
			resolved = append(resolved, book)
		}
	}
	return resolved
}

// LogsForDate returns the logs recorded on the given date, oldest first.
func LogsForDate(logs []*domain.ReadingLog, date string) []*domain.ReadingLog {
	var matched []*domain.ReadingLog
	for _, log := range logs {
		if log.Date == date {
			matched = append(matched, log)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched
}
