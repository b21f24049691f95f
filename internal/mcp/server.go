package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
)

// ProcessService defines registry operations needed by MCP.
type ProcessService interface {
	Create(ctx context.Context, req process.CreateRequest) (*process.Process, error)
	Get(ctx context.Context, name string) (*process.Process, error)
	List(ctx context.Context) ([]process.Summary, error)
}

// Coordinator defines the namespace lifecycle operations needed by MCP.
type Coordinator interface {
	UpdateProcess(ctx context.Context, name string, patch process.Patch) (*process.Process, *namespace.RenameReport, error)
	RetryRename(ctx context.Context, oldName, newName string) (*namespace.RenameReport, error)
	DeleteProcess(ctx context.Context, name string) (*namespace.DeleteReport, error)
}

// ListService defines list operations needed by MCP.
type ListService interface {
	List(ctx context.Context, process string) ([]list.List, error)
	Create(ctx context.Context, process, title string) (*list.List, error)
	Update(ctx context.Context, process, id, title string) (*list.List, error)
	Delete(ctx context.Context, process, id string) (*list.DeleteResult, error)
}

// CardService defines card operations needed by MCP.
type CardService interface {
	List(ctx context.Context, process string, opts card.ListOptions) ([]card.Card, error)
	Get(ctx context.Context, process, id string) (*card.Card, error)
	Create(ctx context.Context, process string, req card.CreateRequest) (*card.Card, error)
	Update(ctx context.Context, process, id string, patch card.Patch) (*card.Card, error)
	Delete(ctx context.Context, process, id string) (*card.Card, error)
}

// ChartService defines chart operations needed by MCP.
type ChartService interface {
	List(ctx context.Context, process string) ([]chart.Chart, error)
	Create(ctx context.Context, process string, f chart.Fields) (*chart.Chart, error)
	Update(ctx context.Context, process, id string, patch chart.Patch) (*chart.Chart, error)
	Delete(ctx context.Context, process, id string) (*chart.Chart, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Processes   ProcessService
	Coordinator Coordinator
	Lists       ListService
	Cards       CardService
	Charts      ChartService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "procboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services), cfg.Logger)

	return server
}
