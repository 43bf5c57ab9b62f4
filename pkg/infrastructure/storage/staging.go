package storage

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// TempStagingArea implements repository.StagingArea with uniquely named
// directories under the system temp dir.
type TempStagingArea struct {
	log logrus.FieldLogger
}

// NewTempStagingArea creates a new staging area.
func NewTempStagingArea(log logrus.FieldLogger) *TempStagingArea {
	return &TempStagingArea{log: log}
}

// Acquire creates a fresh staging directory. The returned cleanup removes
// it recursively; removal failures are logged and tolerated so they never
// escalate to batch failures.
func (a *TempStagingArea) Acquire() (string, func(), error) {
	dir, err := os.MkdirTemp("", "zillow-staging-*")
	if err != nil {
		return "", nil, fmt.Errorf("creating staging directory: %w", err)
	}

	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			a.log.WithError(err).WithField("dir", dir).Warn("failed to remove staging directory")
		}
	}
	return dir, cleanup, nil
}
