package mcp

import (
	"context"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/report"
	"github.com/rpggio/planboard/internal/domain/task"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, actor string) ([]project.ProjectSummary, error)
}

// BoardService defines board operations needed by MCP.
type BoardService interface {
	Board(ctx context.Context, actor, projectID string) (*board.Board, error)
}

// TaskService defines task operations needed by MCP.
type TaskService interface {
	Create(ctx context.Context, actor, columnID string, req task.CreateRequest) (*task.Task, error)
	Delete(ctx context.Context, actor, id string) error
	Reorder(ctx context.Context, actor, columnID string, orderedIDs []string) error
	Move(ctx context.Context, actor, id, targetColumnID string, index int) (*task.Task, error)
	ListColumn(ctx context.Context, actor, columnID string) ([]task.Task, error)
	Search(ctx context.Context, actor, projectID, query string, opts task.SearchOptions) ([]task.SearchResult, error)
}

// ReportService defines dashboard operations needed by MCP.
type ReportService interface {
	Generate(ctx context.Context, actor, projectID string) (*report.Report, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
	Board    BoardService
	Tasks    TaskService
	Reports  ReportService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      ActorResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// DefaultActor is used when authentication is off, and always in stdio mode.
	DefaultActor string
	Version      string
	Logger       *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "planboard",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio is local only and always runs as the default actor.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(cfg.DefaultActor))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services, logger)

	return server
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
		return server
	}, nil)
}
