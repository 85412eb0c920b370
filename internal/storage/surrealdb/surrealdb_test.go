package surrealdb

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ashir876/catch-collect/internal/common"
)

var (
	surrealOnce      sync.Once
	surrealContainer *surrealDBContainer
	surrealError     error
)

// surrealDBContainer wraps a testcontainers SurrealDB instance shared by the
// integration tests in this package.
type surrealDBContainer struct {
	container testcontainers.Container
	host      string
	port      string
}

func startSurrealDB(t *testing.T) *surrealDBContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping SurrealDB integration test in short mode")
	}

	surrealOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.ContainerRequest{
			Image:        "surrealdb/surrealdb:v3.0.0",
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		}

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			surrealError = fmt.Errorf("start SurrealDB container: %w", err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			container.Terminate(ctx)
			surrealError = fmt.Errorf("get SurrealDB host: %w", err)
			return
		}

		mappedPort, err := container.MappedPort(ctx, "8000/tcp")
		if err != nil {
			container.Terminate(ctx)
			surrealError = fmt.Errorf("get SurrealDB port: %w", err)
			return
		}

		surrealContainer = &surrealDBContainer{
			container: container,
			host:      host,
			port:      mappedPort.Port(),
		}
	})

	if surrealError != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealError)
	}

	return surrealContainer
}

func (c *surrealDBContainer) address() string {
	return fmt.Sprintf("ws://%s:%s/rpc", c.host, c.port)
}

var databaseSeq int

// newTestManager connects a Manager to the shared container with an isolated
// database per call.
func newTestManager(t *testing.T) *Manager {
	t.Helper()

	c := startSurrealDB(t)

	databaseSeq++
	config := common.NewDefaultConfig()
	config.Storage.Address = c.address()
	config.Storage.Namespace = "catchcollect_test"
	config.Storage.Database = fmt.Sprintf("db_%d_%d", time.Now().UnixNano(), databaseSeq)

	manager, err := NewManager(common.NewSilentLogger(), config)
	if err != nil {
		t.Fatalf("failed to create storage manager: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	return manager
}
