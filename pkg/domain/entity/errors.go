package entity

import "fmt"

// InvalidListingURLError reports a URL that does not match the Zillow
// listing pattern. It aborts the call that raised it: malformed input is
// never skipped silently.
type InvalidListingURLError struct {
	URL string
}

func (e *InvalidListingURLError) Error() string {
	return fmt.Sprintf("invalid Zillow listing URL: %s", e.URL)
}

// MissingEntryDocumentError reports a fetch that left no entry document at
// its expected location, whatever the underlying cause. It is recoverable:
// the batch records the failure and continues with the next listing.
type MissingEntryDocumentError struct {
	Listing      ListingIdentifier
	ExpectedPath string
}

func (e *MissingEntryDocumentError) Error() string {
	return fmt.Sprintf("entry document for %s missing at %s", e.Listing.Address, e.ExpectedPath)
}

// DestinationExistsError reports a commit into an address directory that
// already exists. The unseen filter excludes downloaded addresses before a
// batch starts, so a conflict means an invariant broke upstream. It is
// fatal to the batch.
type DestinationExistsError struct {
	Address string
	Path    string
	Err     error
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("destination directory for %s already exists: %s", e.Address, e.Path)
}

func (e *DestinationExistsError) Unwrap() error {
	return e.Err
}
