package application

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/service"
)

// fakeArchiver implements service.PageArchiver for tests. It writes the
// entry document a real archiver would produce, except for addresses listed
// in failAddresses.
type fakeArchiver struct {
	failAddresses map[string]bool
	err           error
	fetched       []string
}

func (f *fakeArchiver) Fetch(rawURL string, targetDir string, opts service.ArchiveOptions) error {
	f.fetched = append(f.fetched, rawURL)

	listing, err := entity.ParseListingURL(rawURL)
	if err != nil {
		return err
	}
	if f.failAddresses[listing.Address] {
		return f.err
	}

	path := listing.StagedEntryPath(targetDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte("<html><body>listing</body></html>"), 0o644); err != nil {
		return err
	}
	return f.err
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func mustParse(t *testing.T, raw string) entity.ListingIdentifier {
	t.Helper()
	listing, err := entity.ParseListingURL(raw)
	if err != nil {
		t.Fatalf("ParseListingURL(%q) returned error: %v", raw, err)
	}
	return listing
}

func TestStager_Success(t *testing.T) {
	archiver := &fakeArchiver{}
	stager := NewStager(archiver, newTestLogger())

	listing := mustParse(t, "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/")
	stagingDir := filepath.Join(t.TempDir(), "staging")

	got, err := stager.StageDownload(listing, stagingDir)
	if err != nil {
		t.Fatalf("StageDownload returned error: %v", err)
	}

	want := listing.StagedEntryPath(stagingDir)
	if got != want {
		t.Errorf("StageDownload = %q, want %q", got, want)
	}

	if _, err := os.Stat(got); err != nil {
		t.Errorf("entry document should exist at %s: %v", got, err)
	}

	if len(archiver.fetched) != 1 || archiver.fetched[0] != listing.URL {
		t.Errorf("archiver fetched %v, want [%s]", archiver.fetched, listing.URL)
	}
}

func TestStager_MissingEntryDocument(t *testing.T) {
	listing := mustParse(t, "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/")

	archiver := &fakeArchiver{
		failAddresses: map[string]bool{listing.Address: true},
		err:           fmt.Errorf("connection reset"),
	}
	stager := NewStager(archiver, newTestLogger())

	stagingDir := filepath.Join(t.TempDir(), "staging")

	_, err := stager.StageDownload(listing, stagingDir)
	if err == nil {
		t.Fatal("StageDownload should fail when no entry document was produced")
	}

	var missing *entity.MissingEntryDocumentError
	if !errors.As(err, &missing) {
		t.Fatalf("StageDownload error = %T, want *entity.MissingEntryDocumentError", err)
	}

	if missing.Listing != listing {
		t.Errorf("error carries listing %v, want %v", missing.Listing, listing)
	}

	if want := listing.StagedEntryPath(stagingDir); missing.ExpectedPath != want {
		t.Errorf("error carries expected path %q, want %q", missing.ExpectedPath, want)
	}
}

func TestStager_CreatesStagingDirIfMissing(t *testing.T) {
	archiver := &fakeArchiver{}
	stager := NewStager(archiver, newTestLogger())

	listing := mustParse(t, "https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-12345/87654321_zpid/")
	stagingDir := filepath.Join(t.TempDir(), "nested", "staging")

	if _, err := stager.StageDownload(listing, stagingDir); err != nil {
		t.Fatalf("StageDownload returned error: %v", err)
	}

	info, err := os.Stat(stagingDir)
	if err != nil || !info.IsDir() {
		t.Errorf("staging directory should have been created at %s", stagingDir)
	}
}
