package daemon

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/glanced/internal/domain"
	"github.com/mozilla-ai/glanced/internal/errors"
)

func TestNewHealthTracker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		serverIDs []string
		wantLen   int
	}{
		{
			name:      "empty server list",
			serverIDs: []string{},
			wantLen:   0,
		},
		{
			name:      "nil server list",
			serverIDs: nil,
			wantLen:   0,
		},
		{
			name:      "single server",
			serverIDs: []string{"web-01"},
			wantLen:   1,
		},
		{
			name:      "multiple servers",
			serverIDs: []string{"web-01", "db-01", "cache-01"},
			wantLen:   3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tracker := NewHealthTracker(tc.serverIDs)
			require.NotNil(t, tracker)
			require.Len(t, tracker.List(), tc.wantLen)

			for _, id := range tc.serverIDs {
				health, err := tracker.Status(id)
				require.NoError(t, err)
				require.Equal(t, id, health.ID)
				require.Equal(t, domain.HealthStatusUnknown, health.Status)
				require.Nil(t, health.Latency)
				require.Nil(t, health.LastChecked)
				require.Nil(t, health.LastSuccessful)
			}
		})
	}
}

func TestHealthTracker_StatusUntracked(t *testing.T) {
	t.Parallel()

	tracker := NewHealthTracker([]string{"web-01"})

	_, err := tracker.Status("db-01")
	require.ErrorIs(t, err, errors.ErrHealthNotTracked)
}

func TestHealthTracker_Update(t *testing.T) {
	t.Parallel()

	tracker := NewHealthTracker([]string{"web-01"})

	latency := 25 * time.Millisecond
	require.NoError(t, tracker.Update("web-01", domain.HealthStatusOK, &latency))

	health, err := tracker.Status("web-01")
	require.NoError(t, err)
	require.Equal(t, domain.HealthStatusOK, health.Status)
	require.NotNil(t, health.Latency)
	require.Equal(t, latency, time.Duration(*health.Latency))
	require.NotNil(t, health.LastChecked)
	require.NotNil(t, health.LastSuccessful)
}

func TestHealthTracker_UpdateUntracked(t *testing.T) {
	t.Parallel()

	tracker := NewHealthTracker([]string{"web-01"})

	err := tracker.Update("db-01", domain.HealthStatusOK, nil)
	require.ErrorIs(t, err, errors.ErrHealthNotTracked)
}

func TestHealthTracker_LastSuccessfulPreservedOnFailure(t *testing.T) {
	t.Parallel()

	tracker := NewHealthTracker([]string{"web-01"})

	latency := 10 * time.Millisecond
	require.NoError(t, tracker.Update("web-01", domain.HealthStatusOK, &latency))

	healthy, err := tracker.Status("web-01")
	require.NoError(t, err)
	require.NotNil(t, healthy.LastSuccessful)

	require.NoError(t, tracker.Update("web-01", domain.HealthStatusUnreachable, nil))

	unhealthy, err := tracker.Status("web-01")
	require.NoError(t, err)
	require.Equal(t, domain.HealthStatusUnreachable, unhealthy.Status)
	require.Nil(t, unhealthy.Latency)
	require.Equal(t, healthy.LastSuccessful, unhealthy.LastSuccessful)
}

func TestHealthTracker_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	ids := make([]string, 10)
	for i := range ids {
		ids[i] = fmt.Sprintf("server-%d", i)
	}
	tracker := NewHealthTracker(ids)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			latency := time.Millisecond
			for range 100 {
				_ = tracker.Update(id, domain.HealthStatusOK, &latency)
				_, _ = tracker.Status(id)
				_ = tracker.List()
			}
		}(id)
	}
	wg.Wait()

	require.Len(t, tracker.List(), len(ids))
}
