package extractor

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidRequestError reports a request rejected by validation before any
// external call is made. Maps to a 400 response.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// ExtractionError reports a URL the engine rejected or could not process
// (unsupported, unreachable, private). Maps to a 400 response.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// TimeoutError reports an engine call that exceeded its deadline.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Sentinel errors mapped from yt-dlp output
var (
	ErrVideoNotFound  = errors.New("video not found")
	ErrVideoPrivate   = errors.New("video is private")
	ErrUnsupportedURL = errors.New("unsupported URL")
	ErrGeoRestricted  = errors.New("video is geo-restricted")
	ErrEngineNotFound = errors.New("yt-dlp binary not found")
	ErrEngineFailed   = errors.New("yt-dlp execution failed")
)

// mapEngineError maps yt-dlp's combined output to a sentinel error
func mapEngineError(output string) error {
	lower := strings.ToLower(output)

	switch {
	case strings.Contains(lower, "unsupported url"):
		return ErrUnsupportedURL
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "unable to find video"),
		strings.Contains(lower, "404"):
		return ErrVideoNotFound
	case strings.Contains(lower, "private video"),
		strings.Contains(lower, "this post may not be comfortable"):
		return ErrVideoPrivate
	case strings.Contains(lower, "not available in your country"):
		return ErrGeoRestricted
	case strings.Contains(lower, "no such file"),
		strings.Contains(lower, "executable file not found"):
		return ErrEngineNotFound
	default:
		return ErrEngineFailed
	}
}

// isClientFault reports whether an engine error is the caller's fault
// (bad or inaccessible URL) rather than an internal failure.
func isClientFault(err error) bool {
	return errors.Is(err, ErrVideoNotFound) ||
		errors.Is(err, ErrVideoPrivate) ||
		errors.Is(err, ErrUnsupportedURL) ||
		errors.Is(err, ErrGeoRestricted) ||
		errors.Is(err, ErrEngineFailed)
}
