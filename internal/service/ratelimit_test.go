package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alec0xFFFFFF/nine-nine-nine-challenge/internal/service"
)

func TestAttemptLimiterAllowsUpToMax(t *testing.T) {
	t.Parallel()

	limiter := service.NewAttemptLimiter(3, 15*time.Minute)

	require.True(t, limiter.CanAttempt("ip|+12125551234"))
	require.True(t, limiter.CanAttempt("ip|+12125551234"))
	require.True(t, limiter.CanAttempt("ip|+12125551234"))
	require.False(t, limiter.CanAttempt("ip|+12125551234"))
	require.False(t, limiter.CanAttempt("ip|+12125551234"))

	require.Greater(t, limiter.RemainingMinutes("ip|+12125551234"), 0)
}

func TestAttemptLimiterKeysAreIsolated(t *testing.T) {
	t.Parallel()

	limiter := service.NewAttemptLimiter(1, 15*time.Minute)

	require.True(t, limiter.CanAttempt("a"))
	require.False(t, limiter.CanAttempt("a"))
	require.True(t, limiter.CanAttempt("b"))
}

func TestAttemptLimiterWindowResets(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limiter := service.NewAttemptLimiter(3, 15*time.Minute)
	limiter.SetNowFunc(func() time.Time { return now })

	key := "ip|+12125551234"

	for range 3 {
		require.True(t, limiter.CanAttempt(key))
	}

	require.False(t, limiter.CanAttempt(key))

	// Refused attempts never extend the lockout.
	now = now.Add(14 * time.Minute)
	require.False(t, limiter.CanAttempt(key))
	require.Equal(t, 1, limiter.RemainingMinutes(key))

	now = now.Add(2 * time.Minute)
	require.True(t, limiter.CanAttempt(key))
}

func TestAttemptLimiterRemainingMinutesRoundsUp(t *testing.T) {
	t.Parallel()

	now := time.Now()
	limiter := service.NewAttemptLimiter(1, 15*time.Minute)
	limiter.SetNowFunc(func() time.Time { return now })

	require.True(t, limiter.CanAttempt("key"))

	now = now.Add(14*time.Minute + 30*time.Second)
	require.Equal(t, 1, limiter.RemainingMinutes("key"))

	now = now.Add(time.Minute)
	require.Zero(t, limiter.RemainingMinutes("key"))
}
