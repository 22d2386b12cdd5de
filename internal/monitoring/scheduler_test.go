package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/isdelr/board-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(context.Context) error { return p.err }

type fakeEvents struct {
	pruned []time.Duration
}

func (e *fakeEvents) Record(context.Context, string, string, string, *int64, *int64) {}

func (e *fakeEvents) Recent(context.Context, int) ([]models.Event, error) { return nil, nil }

func (e *fakeEvents) Prune(_ context.Context, olderThan time.Duration) (int64, error) {
	e.pruned = append(e.pruned, olderThan)
	return 3, nil
}

var testOptions = Options{
	HealthCheckSchedule: "@every 1m",
	EventPruneSchedule:  "0 3 * * *",
	EventRetention:      72 * time.Hour,
}

func TestNewScheduler_RejectsBadSchedules(t *testing.T) {
	opts := testOptions
	opts.HealthCheckSchedule = "every minute"
	_, err := NewScheduler(&fakePinger{}, &fakeEvents{}, opts)
	assert.ErrorContains(t, err, "health check schedule")

	opts = testOptions
	opts.EventPruneSchedule = "61 * * * *"
	_, err = NewScheduler(&fakePinger{}, &fakeEvents{}, opts)
	assert.ErrorContains(t, err, "event prune schedule")
}

func TestScheduler_Probe(t *testing.T) {
	pinger := &fakePinger{}
	s, err := NewScheduler(pinger, &fakeEvents{}, testOptions)
	require.NoError(t, err)

	_, ok := s.LastProbe()
	assert.False(t, ok)

	assert.True(t, s.Probe(context.Background()).Up())
	last, ok := s.LastProbe()
	require.True(t, ok)
	assert.Equal(t, "up", last.Status)

	pinger.err = errors.New("connection refused")
	result := s.Probe(context.Background())
	assert.False(t, result.Up())
	assert.Equal(t, "connection refused", result.Error)
	last, _ = s.LastProbe()
	assert.Equal(t, "down", last.Status)
}

func TestScheduler_PruneUsesRetention(t *testing.T) {
	events := &fakeEvents{}
	s, err := NewScheduler(&fakePinger{}, events, testOptions)
	require.NoError(t, err)

	s.PruneEvents(context.Background())
	assert.Equal(t, []time.Duration{72 * time.Hour}, events.pruned)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(&fakePinger{}, &fakeEvents{}, testOptions)
	require.NoError(t, err)

	s.Start(context.Background())
	_, ok := s.LastProbe()
	assert.True(t, ok, "start probes immediately")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
