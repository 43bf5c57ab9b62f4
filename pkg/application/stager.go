package application

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/service"
)

// Downloader stages a single listing download. Implemented by Stager.
type Downloader interface {
	StageDownload(listing entity.ListingIdentifier, stagingDir string) (string, error)
}

// Stager downloads one listing into a staging directory through the page
// archiver and locates the entry document the archiver left behind.
type Stager struct {
	archiver service.PageArchiver
	opts     service.ArchiveOptions
	log      logrus.FieldLogger
}

// NewStager creates a stager with the fixed batch policy: robots checks
// bypassed, no browser opened after the fetch.
func NewStager(archiver service.PageArchiver, log logrus.FieldLogger) *Stager {
	return &Stager{
		archiver: archiver,
		opts: service.ArchiveOptions{
			BypassRobots:  true,
			ProjectName:   "download-zillow-listings",
			OpenInBrowser: false,
		},
		log: log,
	}
}

// StageDownload fetches listing into stagingDir, creating it if missing, and
// returns the path of the entry document. Why the archiver produced no
// entry document is not distinguishable here: a fetch error and a fetch
// that silently wrote nothing both surface as
// *entity.MissingEntryDocumentError.
func (s *Stager) StageDownload(listing entity.ListingIdentifier, stagingDir string) (string, error) {
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("creating staging directory %s: %w", stagingDir, err)
	}

	if err := s.archiver.Fetch(listing.URL, stagingDir, s.opts); err != nil {
		s.log.WithError(err).WithField("url", listing.URL).Warn("page archiver reported an error")
	}

	expected := listing.StagedEntryPath(stagingDir)
	if _, err := os.Stat(expected); err != nil {
		return "", &entity.MissingEntryDocumentError{Listing: listing, ExpectedPath: expected}
	}

	return expected, nil
}
