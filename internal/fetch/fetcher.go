// Package fetch retrieves product pages and classifies fetch failures.
package fetch

import (
	"context"
	"fmt"
)

// Page is a successfully fetched product page.
type Page struct {
	Markup      string
	FinalDomain string
	StatusCode  int
}

// Fetcher retrieves a page for analysis.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// ErrorKind classifies a fatal fetch failure.
type ErrorKind string

const (
	KindBlocked ErrorKind = "blocked"
	KindNetwork ErrorKind = "network"
	KindTimeout ErrorKind = "timeout"
)

// Error is a typed fetch failure. Both blocked and network/timeout kinds
// are fatal to an analysis: no partial report is produced.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the user-facing explanation for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindBlocked:
		return "Site is protected and denies automated access. Please try a different URL."
	case KindTimeout:
		return "The page took too long to respond."
	default:
		return "Failed to fetch the page."
	}
}
