//go:build integration

package leader_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dokumentporten/internal/platform/leader"
	"dokumentporten/pkg/testutil/containers"
)

func TestRedisElector(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	t.Cleanup(func() {
		_ = rc.Client.Close()
		_ = rc.Container.Terminate(context.Background())
	})
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	t.Run("single replica acquires and keeps the lease", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		elector := leader.NewRedisElector(rc.Client, "dokumentporten-leader", time.Minute, log)

		assert.True(t, elector.IsLeader(ctx))
		assert.True(t, elector.IsLeader(ctx), "holder refreshes its own lease")
	})

	t.Run("second replica does not take over a held lease", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		first := leader.NewRedisElector(rc.Client, "dokumentporten-leader", time.Minute, log)
		second := leader.NewRedisElector(rc.Client, "dokumentporten-leader", time.Minute, log)

		require.True(t, first.IsLeader(ctx))
		assert.False(t, second.IsLeader(ctx))
		assert.True(t, first.IsLeader(ctx))
	})

	t.Run("lease expiry hands leadership over", func(t *testing.T) {
		require.NoError(t, rc.FlushAll(ctx))
		first := leader.NewRedisElector(rc.Client, "dokumentporten-leader", 500*time.Millisecond, log)
		second := leader.NewRedisElector(rc.Client, "dokumentporten-leader", time.Minute, log)

		require.True(t, first.IsLeader(ctx))
		time.Sleep(time.Second)
		assert.True(t, second.IsLeader(ctx))
		assert.False(t, first.IsLeader(ctx))
	})
}
