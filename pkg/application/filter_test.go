package application

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/infrastructure/storage"
)

func TestUnseenFilter_EmptyInput(t *testing.T) {
	filter := NewUnseenFilter(storage.NewFilesystemStore(t.TempDir()))

	unseen, err := filter.FilterUnseen(nil)
	if err != nil {
		t.Fatalf("FilterUnseen(nil) returned error: %v", err)
	}

	if unseen.Cardinality() != 0 {
		t.Errorf("FilterUnseen(nil) returned %d listings, want 0", unseen.Cardinality())
	}
}

func TestUnseenFilter_ExcludesDownloadedAddresses(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	if err := os.MkdirAll(filepath.Join(root, "123-Fake-St-Emerald-City-MO-01234"), 0o755); err != nil {
		t.Fatalf("creating downloaded address directory: %v", err)
	}

	filter := NewUnseenFilter(storage.NewFilesystemStore(root))

	unseen, err := filter.FilterUnseen([]string{
		"https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/",
		"https://www.zillow.com/homedetails/123-Fake-St-Paradise-City-MA-01234/87654321_zpid/",
	})
	if err != nil {
		t.Fatalf("FilterUnseen returned error: %v", err)
	}

	if unseen.Cardinality() != 1 {
		t.Fatalf("FilterUnseen returned %d listings, want 1", unseen.Cardinality())
	}

	want, err := entity.ParseListingURL("https://www.zillow.com/homedetails/123-Fake-St-Paradise-City-MA-01234/87654321_zpid/")
	if err != nil {
		t.Fatalf("ParseListingURL returned error: %v", err)
	}

	if !unseen.Contains(want) {
		t.Errorf("FilterUnseen should contain %v, got %v", want, unseen.ToSlice())
	}
}

func TestUnseenFilter_MissingRootMeansNothingDownloaded(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist-yet")
	filter := NewUnseenFilter(storage.NewFilesystemStore(root))

	unseen, err := filter.FilterUnseen([]string{
		"https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/",
	})
	if err != nil {
		t.Fatalf("FilterUnseen returned error: %v", err)
	}

	if unseen.Cardinality() != 1 {
		t.Errorf("FilterUnseen returned %d listings, want 1", unseen.Cardinality())
	}
}

func TestUnseenFilter_InvalidURLFailsWholeCall(t *testing.T) {
	filter := NewUnseenFilter(storage.NewFilesystemStore(t.TempDir()))

	_, err := filter.FilterUnseen([]string{
		"https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/",
		"https://www.zillow.com/not-a-listing/",
	})
	if err == nil {
		t.Fatal("FilterUnseen should fail on a malformed URL")
	}

	var invalid *entity.InvalidListingURLError
	if !errors.As(err, &invalid) {
		t.Errorf("FilterUnseen error = %T, want *entity.InvalidListingURLError", err)
	}
}

func TestUnseenFilter_DeduplicatesByAddress(t *testing.T) {
	filter := NewUnseenFilter(storage.NewFilesystemStore(t.TempDir()))

	unseen, err := filter.FilterUnseen([]string{
		"https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid/",
		"https://www.zillow.com/homedetails/123-Fake-St-Emerald-City-MO-01234/12345678_zpid",
	})
	if err != nil {
		t.Fatalf("FilterUnseen returned error: %v", err)
	}

	if unseen.Cardinality() != 1 {
		t.Errorf("FilterUnseen returned %d listings, want 1 (duplicates collapse by address)", unseen.Cardinality())
	}
}
