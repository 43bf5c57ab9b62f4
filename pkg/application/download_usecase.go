package application

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/entity"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/repository"
	"github.com/MisterVladimir/download-zillow-listings/pkg/domain/service"
)

// DownloadUseCase orchestrates a batch of listing downloads: filter out
// already-downloaded addresses, stage each remaining listing in a throwaway
// directory, commit successes to the listing store, collect per-listing
// failures, and pace between downloads. Processing is strictly sequential.
type DownloadUseCase struct {
	config Config

	downloader Downloader
	filter     *UnseenFilter
	store      repository.ListingStore
	staging    repository.StagingArea
	pacer      service.Pacer
	log        logrus.FieldLogger

	metrics          entity.Metrics
	metricsLock      sync.RWMutex
	metricsObservers []MetricsObserver
}

// Config holds the use case configuration.
type Config struct {
	// RawURLs are the listing URLs requested for this run, in input order.
	RawURLs []string
}

// MetricsObserver observes batch progress.
type MetricsObserver interface {
	OnMetricsUpdate(metrics *entity.Metrics)
}

// NewDownloadUseCase creates a new download use case.
func NewDownloadUseCase(
	config Config,
	downloader Downloader,
	filter *UnseenFilter,
	store repository.ListingStore,
	staging repository.StagingArea,
	pacer service.Pacer,
	log logrus.FieldLogger,
) *DownloadUseCase {
	return &DownloadUseCase{
		config:     config,
		downloader: downloader,
		filter:     filter,
		store:      store,
		staging:    staging,
		pacer:      pacer,
		log:        log,
	}
}

// RegisterMetricsObserver registers a metrics observer.
func (uc *DownloadUseCase) RegisterMetricsObserver(observer MetricsObserver) {
	uc.metricsObservers = append(uc.metricsObservers, observer)
}

// Execute runs the full batch: filter unseen listings, then download them
// all. It returns an error only for faults that abort the batch (malformed
// input URLs, destination conflicts); individual fetch failures are
// collected and reported through the logger.
func (uc *DownloadUseCase) Execute() error {
	uc.metricsLock.Lock()
	uc.metrics.StartTime = time.Now()
	uc.metrics.Requested = len(uc.config.RawURLs)
	uc.metricsLock.Unlock()

	unseen, err := uc.filter.FilterUnseen(uc.config.RawURLs)
	if err != nil {
		return err
	}
	listings := unseen.ToSlice()

	uc.metricsLock.Lock()
	uc.metrics.Queued = len(listings)
	uc.metrics.Skipped = len(uc.config.RawURLs) - len(listings)
	uc.metricsLock.Unlock()
	uc.notifyMetricsObservers()

	uc.log.WithFields(logrus.Fields{
		"requested": len(uc.config.RawURLs),
		"queued":    len(listings),
	}).Info("starting batch download")

	return uc.DownloadAll(listings)
}

// DownloadAll downloads every listing in order. A listing whose fetch
// produces no entry document is recorded and the batch moves on; any other
// error aborts the batch. If failures were recorded, a single aggregated
// error line naming the failed addresses is emitted at the end.
func (uc *DownloadUseCase) DownloadAll(listings []entity.ListingIdentifier) error {
	var failures []entity.Failure

	for i, listing := range listings {
		uc.setCurrentAddress(listing.Address)

		committed, err := uc.downloadOne(listing)
		if err != nil {
			var missing *entity.MissingEntryDocumentError
			if !errors.As(err, &missing) {
				return err
			}
			failures = append(failures, entity.Failure{
				Listing:      missing.Listing,
				ExpectedPath: missing.ExpectedPath,
			})
			uc.recordDone(false)
			continue
		}

		uc.recordDone(true)
		uc.log.WithFields(logrus.Fields{
			"url":  listing.URL,
			"path": uc.relativeToRoot(committed),
		}).Info("downloaded listing")

		if i < len(listings)-1 {
			uc.pacer.Pause()
		}
	}

	if len(failures) > 0 {
		addresses := make([]string, len(failures))
		for i, failure := range failures {
			addresses[i] = failure.Listing.Address
		}
		uc.log.WithField("addresses", strings.Join(addresses, ", ")).
			Error("some listings could not be downloaded")
	}

	return nil
}

// downloadOne stages a single listing in a fresh staging directory and
// commits the entry document to the store. The staging directory is removed
// on every exit path; removal itself is best-effort.
func (uc *DownloadUseCase) downloadOne(listing entity.ListingIdentifier) (string, error) {
	stagingDir, cleanup, err := uc.staging.Acquire()
	if err != nil {
		return "", err
	}
	defer cleanup()

	staged, err := uc.downloader.StageDownload(listing, stagingDir)
	if err != nil {
		return "", err
	}

	return uc.store.Commit(staged, listing.Address)
}

// GetMetrics returns a snapshot of the current metrics.
func (uc *DownloadUseCase) GetMetrics() *entity.Metrics {
	uc.metricsLock.RLock()
	defer uc.metricsLock.RUnlock()

	metrics := uc.metrics
	return &metrics
}

// relativeToRoot renders a committed path relative to the parent of the
// destination root, matching the layout the user sees on disk.
func (uc *DownloadUseCase) relativeToRoot(path string) string {
	rel, err := filepath.Rel(filepath.Dir(uc.store.Root()), path)
	if err != nil {
		return path
	}
	return rel
}

func (uc *DownloadUseCase) setCurrentAddress(address string) {
	uc.metricsLock.Lock()
	uc.metrics.CurrentAddress = address
	uc.metrics.LastUpdateTime = time.Now()
	uc.metricsLock.Unlock()
	uc.notifyMetricsObservers()
}

func (uc *DownloadUseCase) recordDone(success bool) {
	uc.metricsLock.Lock()
	uc.metrics.Processed++
	if success {
		uc.metrics.Succeeded++
	} else {
		uc.metrics.Failed++
	}
	uc.metrics.LastUpdateTime = time.Now()
	uc.metricsLock.Unlock()
	uc.notifyMetricsObservers()
}

func (uc *DownloadUseCase) notifyMetricsObservers() {
	metrics := uc.GetMetrics()
	for _, observer := range uc.metricsObservers {
		observer.OnMetricsUpdate(metrics)
	}
}
