package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MisterVladimir/download-zillow-listings/pkg/application"
	"github.com/MisterVladimir/download-zillow-listings/pkg/infrastructure/archiver"
	"github.com/MisterVladimir/download-zillow-listings/pkg/infrastructure/pacing"
	"github.com/MisterVladimir/download-zillow-listings/pkg/infrastructure/storage"
)

// Assembler assembles all components for the application
type Assembler struct {
	config *Config
}

// NewAssembler creates a new assembler
func NewAssembler(config *Config) *Assembler {
	return &Assembler{config: config}
}

// AssembleUseCase assembles the download use case with all dependencies
func (a *Assembler) AssembleUseCase() (*application.DownloadUseCase, error) {
	rawURLs, err := a.loadListingURLs()
	if err != nil {
		return nil, fmt.Errorf("failed to load listing URLs: %w", err)
	}

	if len(rawURLs) == 0 {
		return nil, fmt.Errorf("no listing URLs provided")
	}

	log, err := a.newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	webArchiver := archiver.NewWebArchiver(archiver.Config{
		Timeout:         a.config.HTTPTimeoutDuration,
		MaxResponseSize: a.config.MaxResponseSize,
		UserAgent:       a.config.UserAgent,
	}, log)

	store := storage.NewFilesystemStore(a.config.DestinationRoot)
	stagingArea := storage.NewTempStagingArea(log)
	stager := application.NewStager(webArchiver, log)
	filter := application.NewUnseenFilter(store)
	pacer := pacing.NewSleepPacer(a.config.PacingDuration)

	useCase := application.NewDownloadUseCase(
		application.Config{RawURLs: rawURLs},
		stager,
		filter,
		store,
		stagingArea,
		pacer,
		log,
	)

	return useCase, nil
}

// loadListingURLs loads listing URLs from the run file, or failing that the
// input file ("-" for stdin). Blank lines and #-comments are skipped.
func (a *Assembler) loadListingURLs() ([]string, error) {
	if a.config.RunFile != "" {
		runFile, err := LoadRunFile(a.config.RunFile)
		if err != nil {
			return nil, err
		}
		return runFile.URLs, nil
	}

	var scanner *bufio.Scanner

	if a.config.InputFile == "-" {
		scanner = bufio.NewScanner(os.Stdin)
	} else {
		file, err := os.Open(a.config.InputFile)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		scanner = bufio.NewScanner(file)
	}

	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// newLogger builds the run logger: a timestamped log file under the
// destination root's logs directory, plus stderr unless the TUI dashboard
// owns the terminal.
func (a *Assembler) newLogger() (*logrus.Logger, error) {
	now := time.Now()
	logPath := filepath.Join(
		a.config.DestinationRoot,
		"logs",
		now.Format("2006"),
		now.Format("01"),
		now.Format("02"),
		now.Format("150405"),
		"log.log",
	)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, err
	}

	file, err := os.Create(logPath)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if a.config.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if a.config.ShowDashboard {
		log.SetOutput(file)
	} else {
		log.SetOutput(io.MultiWriter(os.Stderr, file))
	}

	log.WithField("file", logPath).Info("logging configured")
	return log, nil
}
