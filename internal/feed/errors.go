package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedUnreachable is returned when the feed cannot be fetched:
	// transport failure or a non-2xx answer.
	ErrFeedUnreachable = errors.New("feed unreachable")

	// ErrFeedMalformed is returned when the body is not XML, has no
	// channel element, or the channel has no title.
	ErrFeedMalformed = errors.New("feed malformed")
)

// Error describes a failed feed operation.
//
// It matches its Kind (ErrFeedUnreachable or ErrFeedMalformed) and the
// underlying cause with errors.Is / errors.As.
type Error struct {
	Op   string // operation, e.g. "fetch title"
	URL  string // feed URL
	Kind error  // ErrFeedUnreachable or ErrFeedMalformed
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Kind)
}

// Unwrap returns the kind and the cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
