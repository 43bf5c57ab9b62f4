package entity

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// EntryDocumentName is the file name of the root HTML document of a
// downloaded listing. Opening it in a browser shows the listing offline.
const EntryDocumentName = "index.html"

// listingPathPattern matches the path of a Zillow listing URL:
// .../homedetails/{address}/{zpid}_zpid[/...]. The address group is greedy,
// so it extends up to the last /{digits}_zpid segment.
var listingPathPattern = regexp.MustCompile(`homedetails/(.*)/(\d+)_zpid`)

// ListingIdentifier identifies one Zillow listing. It is a comparable value
// type and safe to use as a map or set key.
type ListingIdentifier struct {
	// URL is the normalized source URL of the listing.
	URL string
	// Address is the hyphen-joined street address from the URL path.
	Address string
	// ZPID is the numeric Zillow listing code that precedes "_zpid".
	ZPID int
}

// ParseListingURL parses a raw URL of the form
// https://www.zillow.com/homedetails/{address}/{zpid}_zpid/ into a
// ListingIdentifier. Anything that does not match the pattern fails with
// *InvalidListingURLError.
func ParseListingURL(raw string) (ListingIdentifier, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ListingIdentifier{}, &InvalidListingURLError{URL: raw}
	}

	m := listingPathPattern.FindStringSubmatch(u.Path)
	if m == nil {
		return ListingIdentifier{}, &InvalidListingURLError{URL: raw}
	}

	zpid, err := strconv.Atoi(m[2])
	if err != nil {
		return ListingIdentifier{}, &InvalidListingURLError{URL: raw}
	}

	return ListingIdentifier{
		URL:     u.String(),
		Address: m[1],
		ZPID:    zpid,
	}, nil
}

// StagedEntryPath returns the path at which the page archiver leaves the
// entry document of this listing when told to fetch into stagingDir. The
// layout is fixed by the archiver: scheme-prefixed host folder, host folder,
// then the listing's URL path segments.
func (l ListingIdentifier) StagedEntryPath(stagingDir string) string {
	u, err := url.Parse(l.URL)
	if err != nil {
		// The URL was validated at construction time.
		panic(fmt.Sprintf("listing holds unparsable URL %q: %v", l.URL, err))
	}

	return filepath.Join(
		stagingDir,
		strings.Join([]string{u.Scheme, u.Host}, "_"),
		u.Host,
		"homedetails",
		l.Address,
		fmt.Sprintf("%d_zpid", l.ZPID),
		EntryDocumentName,
	)
}

// String returns the source URL of the listing.
func (l ListingIdentifier) String() string {
	return l.URL
}

// Failure records one listing whose download did not produce an entry
// document. Failures are collected during a batch and reported at the end.
type Failure struct {
	Listing      ListingIdentifier
	ExpectedPath string
}
