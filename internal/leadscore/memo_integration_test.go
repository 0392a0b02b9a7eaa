//go:build integration

package leadscore

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"leadscout/internal/model"
)

func TestRedisMemoSharesCompetitors(t *testing.T) {
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	// two engines stand in for two processes
	NewEngine(nil, NewRedisMemo(rdb), nil).Score(ctx, model.Signal{ID: 9, Content: "tinygrad on amd and nvidia"})
	a, err := NewEngine(nil, NewRedisMemo(rdb), nil).Analytics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, a.TotalLeads)
	assert.Equal(t, []CompetitorCount{{Name: "amd", Mentions: 1}, {Name: "nvidia", Mentions: 1}}, a.TopCompetitors)
}
