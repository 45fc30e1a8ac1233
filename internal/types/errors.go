package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidQuery   = errors.New("invalid search query")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrNoContentRoot  = errors.New("content root not found")
	ErrEmptyContent   = errors.New("no paragraph text extracted")
	ErrBlankTopic     = errors.New("topic must not be blank")
	ErrNoChannels     = errors.New("no channels selected")
	ErrArticleCount   = errors.New("article count out of range")
	ErrNoArticles     = errors.New("no articles were successfully analyzed")
	ErrDuplicate      = errors.New("duplicate registration")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// QueryError names the search query field that failed validation.
type QueryError struct {
	Field string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Field)
}

func (e *QueryError) Unwrap() error { return e.Err }

// DiscoveryError wraps a failure at one stage of link discovery.
type DiscoveryError struct {
	Channel string
	Stage   string
	Err     error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovery error for %s at %s: %v", e.Channel, e.Stage, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur during export.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the analysis pipeline.
type PipelineError struct {
	Stage string
	URL   string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q for %s: %v", e.Stage, e.URL, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
