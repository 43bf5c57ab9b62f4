package entity

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestParseListingURL(t *testing.T) {
	testCases := []struct {
		raw         string
		wantAddress string
		wantZPID    int
	}{
		{
			raw:         "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/",
			wantAddress: "123-Fake-St-Emerald-City-MO-01234",
			wantZPID:    12345678,
		},
		{
			raw:         "https://www.zillow.com/homedetails/LOT-Fake-St-Paradise-City-MA-01234/87654321_zpid",
			wantAddress: "LOT-Fake-St-Paradise-City-MA-01234",
			wantZPID:    87654321,
		},
		{
			// The address group is greedy: it extends to the last
			// /{digits}_zpid segment.
			raw:         "https://www.zillow.com/homedetails/42/99_zpid/11111111_zpid/",
			wantAddress: "42/99_zpid",
			wantZPID:    11111111,
		},
	}

	for _, tc := range testCases {
		listing, err := ParseListingURL(tc.raw)
		if err != nil {
			t.Errorf("ParseListingURL(%q) returned error: %v", tc.raw, err)
			continue
		}

		if listing.Address != tc.wantAddress {
			t.Errorf("ParseListingURL(%q).Address = %q, want %q", tc.raw, listing.Address, tc.wantAddress)
		}

		if listing.ZPID != tc.wantZPID {
			t.Errorf("ParseListingURL(%q).ZPID = %d, want %d", tc.raw, listing.ZPID, tc.wantZPID)
		}
	}
}

func TestParseListingURL_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"not a url",
		"https://www.zillow.com/",
		"https://www.zillow.com/homedetails/123-Fake-St/",
		"https://www.zillow.com/homedetails/123-Fake-St/abc_zpid/",
		"https://www.zillow.com/homes/123-Fake-St/12345678_zpid/",
		"/homedetails/123-Fake-St/12345678_zpid/",
	}

	for _, raw := range testCases {
		_, err := ParseListingURL(raw)
		if err == nil {
			t.Errorf("ParseListingURL(%q) should fail", raw)
			continue
		}

		var invalid *InvalidListingURLError
		if !errors.As(err, &invalid) {
			t.Errorf("ParseListingURL(%q) error = %T, want *InvalidListingURLError", raw, err)
		}
	}
}

func TestListingIdentifier_Equality(t *testing.T) {
	raw := "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/"

	a, err := ParseListingURL(raw)
	if err != nil {
		t.Fatalf("ParseListingURL(%q) returned error: %v", raw, err)
	}

	b, err := ParseListingURL(raw)
	if err != nil {
		t.Fatalf("ParseListingURL(%q) returned error: %v", raw, err)
	}

	if a != b {
		t.Errorf("identifiers parsed from the same URL should be equal: %v != %v", a, b)
	}

	other, err := ParseListingURL("https://www.zillow.com/homedetails/123-Fake-St-Paradise-City-MA-01234/87654321_zpid/")
	if err != nil {
		t.Fatalf("ParseListingURL returned error: %v", err)
	}

	if a == other {
		t.Error("identifiers parsed from different URLs should not be equal")
	}

	// Comparable identity makes listings usable as map keys.
	seen := map[ListingIdentifier]int{a: 1}
	seen[b]++
	if seen[a] != 2 {
		t.Errorf("map[%v] = %d, want 2", a, seen[a])
	}
}

func TestListingIdentifier_StagedEntryPath(t *testing.T) {
	listing, err := ParseListingURL("https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/")
	if err != nil {
		t.Fatalf("ParseListingURL returned error: %v", err)
	}

	got := listing.StagedEntryPath("/tmp/staging")
	want := filepath.Join(
		"/tmp/staging",
		"https_www.zillow.com",
		"www.zillow.com",
		"homedetails",
		"123-Fake-St-Emerald-City-MO-12345",
		"87654321_zpid",
		"index.html",
	)

	if got != want {
		t.Errorf("StagedEntryPath = %q, want %q", got, want)
	}
}
