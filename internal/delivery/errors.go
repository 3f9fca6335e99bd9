package delivery

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrFetchFailed is matched by every FetchError through errors.Is.
	ErrFetchFailed = errors.New("cms: could not fetch content")
	// ErrBackendUnavailable reports a service built without a content backend.
	ErrBackendUnavailable = errors.New("cms: content backend unavailable")
	// ErrPageIDRequired reports a fetch with a blank page identifier.
	ErrPageIDRequired = errors.New("cms: page id required")
	// ErrMarkdownUnavailable reports a markdown render without a configured parser.
	ErrMarkdownUnavailable = errors.New("cms: markdown parser unavailable")
)

// FetchError is the single error kind returned for failed page fetches. It
// names the page and unwraps to the backend failure.
type FetchError struct {
	PageID    string
	RequestID string
	Err       error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ErrFetchFailed.Error()
	}
	msg := "Could not fetch content for " + e.PageID
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is(err, ErrFetchFailed) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// Category reports the go-errors category of the underlying failure,
// defaulting to goerrors.CategoryExternal for uncategorized causes.
func (e *FetchError) Category() goerrors.Category {
	if e == nil || e.Err == nil {
		return goerrors.CategoryExternal
	}
	var categorized *goerrors.Error
	if goerrors.As(e.Err, &categorized) && categorized != nil && strings.TrimSpace(string(categorized.Category)) != "" {
		return categorized.Category
	}
	return goerrors.CategoryExternal
}

func newFetchError(pageID, requestID string, err error) *FetchError {
	return &FetchError{
		PageID:    pageID,
		RequestID: requestID,
		Err:       err,
	}
}
