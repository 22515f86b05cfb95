package service

import (
	"context"
	"testing"

	"bookapp-ai-be/pkg/bookai/tagger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoordinator struct {
	fakeRecorder
	busy   bool
	report tagger.BatchReport
}

func (c *fakeCoordinator) DrainAndRetry(context.Context) (tagger.BatchReport, error) {
	if c.busy {
		return tagger.BatchReport{}, tagger.ErrRetryInProgress
	}
	return c.report, nil
}

func (c *fakeCoordinator) Pending() int     { return len(c.isbns) }
func (c *fakeCoordinator) InProgress() bool { return c.busy }

func TestTaggingService(t *testing.T) {
	coord := &fakeCoordinator{report: tagger.BatchReport{Attempted: 2, Succeeded: 1, Failed: 1}}
	coord.RecordFailure("a")
	svc := NewTaggingService(coord)

	status := svc.Status(context.Background())
	assert.Equal(t, 1, status.Pending)
	assert.False(t, status.InProgress)

	report, err := svc.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Attempted)

	coord.busy = true
	_, err = svc.Retry(context.Background())
	assert.ErrorIs(t, err, tagger.ErrRetryInProgress)
}
