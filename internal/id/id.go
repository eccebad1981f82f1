// Package id generates prefixed unique identifiers for stored entities.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Well-known prefixes. The prefix makes an ID self-describing in logs and
// store keys (e.g. "book-V1StGXR8_Z5jdHi6B-myT").
const (
	PrefixBook   = "book"
	PrefixLog    = "log"
	PrefixClient = "client"
)

// New creates a prefixed unique ID using NanoID (21 characters, URL-safe
// alphabet). Returns an error if the system has insufficient entropy for
// secure random generation.
func New(prefix string) (string, error) {
	nid, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + nid, nil
}

// MustNew is like New but panics if generation fails. Use only where
// failure should crash the program, e.g. during initialization.
func MustNew(prefix string) string {
	nid, err := New(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return nid
}
