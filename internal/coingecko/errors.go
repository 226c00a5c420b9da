package coingecko

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed search.
type ErrorKind int

const (
	// KindNetwork covers URL construction, transport and HTTP status failures.
	KindNetwork ErrorKind = iota + 1
	// KindParsing covers any failure to decode the response body.
	KindParsing
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParsing:
		return "parsing"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error values.
var (
	ErrNetwork = errors.New("network error")
	ErrParsing = errors.New("parsing error")
)

// Error is returned by Client.Search and the decoder.
type Error struct {
	Kind        ErrorKind
	Description string
	Err         error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Kind, e.Description)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrParsing:
		return e.Kind == KindParsing
	}
	return false
}

// KindOf returns the kind of a search error, or zero when err is not an *Error.
func KindOf(err error) ErrorKind {
	var cgErr *Error
	if errors.As(err, &cgErr) {
		return cgErr.Kind
	}
	return 0
}

func networkError(context string, err error) *Error {
	desc := context
	if err != nil {
		desc = context + ": " + err.Error()
	}
	return &Error{Kind: KindNetwork, Description: desc, Err: err}
}

func parsingError(context string, err error) *Error {
	desc := context
	if err != nil {
		desc = context + ": " + err.Error()
	}
	return &Error{Kind: KindParsing, Description: desc, Err: err}
}
