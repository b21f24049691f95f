// Package testserver runs the full HTTP stack over in-memory SQLite stores.
package testserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/mcp"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/storage"
	"github.com/rpggio/procboard/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server      *httptest.Server
	MetadataDB  *storage.DB
	NamespaceDB *storage.DB
	Namespaces  *storage.NamespaceStore
	Registry    *prometheus.Registry
}

func New(t *testing.T) *TestServer {
	t.Helper()

	metaDB := openDB(t)
	nsDB := openDB(t)

	registry := prometheus.NewRegistry()
	processes := process.NewService(storage.NewProcessRepository(metaDB), nil)
	store := storage.NewNamespaceStore(nsDB)
	coordinator := namespace.NewCoordinator(store, processes, namespace.NewMetrics(registry), nil)

	listRepo := storage.NewListRepository(nsDB)
	cardRepo := storage.NewCardRepository(nsDB)
	lists := list.NewService(coordinator, listRepo, cardRepo, nil)
	cards := card.NewService(coordinator, cardRepo, listRepo, nil)
	charts := chart.NewService(coordinator, storage.NewChartRepository(nsDB), nil)

	mcpServer := mcp.NewServer(mcp.Config{Services: mcp.Services{
		Processes:   processes,
		Coordinator: coordinator,
		Lists:       lists,
		Cards:       cards,
		Charts:      charts,
	}})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	router := transport.NewServer(transport.Services{
		Processes:   processes,
		Coordinator: coordinator,
		Lists:       lists,
		Cards:       cards,
		Charts:      charts,
	}, transport.Options{
		MCP:     mcpHandler,
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestServer{
		Server:      server,
		MetadataDB:  metaDB,
		NamespaceDB: nsDB,
		Namespaces:  store,
		Registry:    registry,
	}
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

func openDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(t.Context()))
	t.Cleanup(func() { _ = db.Close() })
	return db
}
