package store

import (
	"fmt"
	"strings"
	"time"
)

// Key layout. Records live under a type prefix; secondary indexes live under
// "idx:" keys whose value is the record ID. Index keys embed the record ID so
// multiple records may share an indexed value.
//
//	book:<id>                              -> Book JSON
//	idx:books:status:<status>:<id>         -> id
//	idx:books:title:<lower-title>:<id>     -> id
//	idx:books:updated:<sortable-ts>:<id>   -> id
//	log:<id>                               -> ReadingLog JSON
//	idx:logs:date:<date>:<id>              -> id
//	idx:logs:book:<bookID>:<id>            -> id
//	idx:logs:date_book:<date>:<bookID>:<id> -> id
//	settings:user                          -> Settings JSON
const (
	bookPrefix          = "book:"
	bookByStatusPrefix  = "idx:books:status:"
	bookByTitlePrefix   = "idx:books:title:"
	bookByUpdatedPrefix = "idx:books:updated:"

	logPrefix           = "log:"
	logByDatePrefix     = "idx:logs:date:"
	logByBookPrefix     = "idx:logs:book:"
	logByDateBookPrefix = "idx:logs:date_book:"

	settingsKey = "settings:user"
)

// sortableTimestamp formats a timestamp with fixed-width nanoseconds so that
// lexicographic key ordering matches chronological ordering.
func sortableTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", t.Nanosecond()) + "Z"
}

// normalizeTitle lower-cases a title for the title index so ordering is
// case-insensitive.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

func bookKey(id string) []byte {
	return []byte(bookPrefix + id)
}

func bookStatusIndexKey(status, id string) []byte {
	return []byte(bookByStatusPrefix + status + ":" + id)
}

func bookTitleIndexKey(title, id string) []byte {
	return []byte(bookByTitlePrefix + normalizeTitle(title) + ":" + id)
}

func bookUpdatedIndexKey(t time.Time, id string) []byte {
	return []byte(bookByUpdatedPrefix + sortableTimestamp(t) + ":" + id)
}

func logKey(id string) []byte {
	return []byte(logPrefix + id)
}

func logDateIndexKey(date, id string) []byte {
	return []byte(logByDatePrefix + date + ":" + id)
}

func logBookIndexKey(bookID, id string) []byte {
	return []byte(logByBookPrefix + bookID + ":" + id)
}

func logDateBookIndexKey(date, bookID, id string) []byte {
	return []byte(logByDateBookPrefix + date + ":" + bookID + ":" + id)
}
