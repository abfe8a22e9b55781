package scraper

import (
	"fmt"
)

// TransportError reports that the page could not be fetched: a network
// failure, a timeout, or a non-2xx response.  StatusCode is 0 when no
// response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MissingDataError reports that the embedded data script is absent or does
// not hold valid JSON.  The page no longer has the structure we scrape.
type MissingDataError struct {
	Reason string
	Err    error
}

func (e *MissingDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedded data: %s: %v", e.Reason, e.Err)
	}
	return "embedded data: " + e.Reason
}

func (e *MissingDataError) Unwrap() error { return e.Err }

// SchemaError reports that the embedded JSON is present but its shape does
// not match the expected room catalog layout.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch at %s: %s", e.Path, e.Reason)
}
