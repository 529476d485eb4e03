package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/report"
	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/domain/team"
	"github.com/rpggio/planboard/internal/domain/user"
)

// UserService defines account operations needed by the API.
type UserService interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.User, error)
	Get(ctx context.Context, id string) (*user.User, error)
}

// SessionService defines login operations needed by the API.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*session.Login, error)
	Logout(ctx context.Context, token string) error
}

// ProjectService defines project operations needed by the API.
type ProjectService interface {
	Create(ctx context.Context, actor string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, actor, id string) (*project.Project, error)
	List(ctx context.Context, actor string) ([]project.ProjectSummary, error)
	Update(ctx context.Context, actor, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, actor, id string) error
	AddMember(ctx context.Context, actor, projectID, userID string, role access.Role) (*project.Member, error)
	RemoveMember(ctx context.Context, actor, projectID, userID string) error
	Members(ctx context.Context, actor, projectID string) ([]project.Member, error)
}

// TeamService defines team operations needed by the API.
type TeamService interface {
	Create(ctx context.Context, actor string, req team.CreateRequest) (*team.Team, error)
	Get(ctx context.Context, actor, id string) (*team.Team, error)
	List(ctx context.Context, actor string) ([]team.Team, error)
	Delete(ctx context.Context, actor, id string) error
	AddMember(ctx context.Context, actor, teamID, userID string, role access.Role) (*team.Member, error)
	RemoveMember(ctx context.Context, actor, teamID, userID string) error
	Members(ctx context.Context, actor, teamID string) ([]team.Member, error)
}

// BoardService defines column operations needed by the API.
type BoardService interface {
	Board(ctx context.Context, actor, projectID string) (*board.Board, error)
	CreateColumn(ctx context.Context, actor, projectID string, req board.CreateColumnRequest) (*board.Column, error)
	GetColumn(ctx context.Context, actor, id string) (*board.Column, error)
	UpdateColumn(ctx context.Context, actor, id string, req board.UpdateColumnRequest) (*board.Column, error)
	DeleteColumn(ctx context.Context, actor, id string) error
	ReorderColumns(ctx context.Context, actor, projectID string, orderedIDs []string) error
	MoveColumn(ctx context.Context, actor, id string, index int) (*board.Column, error)
}

// TaskService defines task operations needed by the API.
type TaskService interface {
	Create(ctx context.Context, actor, columnID string, req task.CreateRequest) (*task.Task, error)
	Get(ctx context.Context, actor, id string) (*task.Task, error)
	Update(ctx context.Context, actor, id string, req task.UpdateRequest) (*task.Task, error)
	Delete(ctx context.Context, actor, id string) error
	Reorder(ctx context.Context, actor, columnID string, orderedIDs []string) error
	Move(ctx context.Context, actor, id, targetColumnID string, index int) (*task.Task, error)
	ListColumn(ctx context.Context, actor, columnID string) ([]task.Task, error)
	Search(ctx context.Context, actor, projectID, query string, opts task.SearchOptions) ([]task.SearchResult, error)
}

// ActivityService defines activity operations needed by the API.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// ReportService builds project dashboards.
type ReportService interface {
	Generate(ctx context.Context, actor, projectID string) (*report.Report, error)
}

// EventStream serves a project's live activity over a websocket.
type EventStream interface {
	Serve(w http.ResponseWriter, r *http.Request, projectID string)
}

// Services contains all domain services needed by the API.
type Services struct {
	Users    UserService
	Sessions SessionService
	Projects ProjectService
	Teams    TeamService
	Board    BoardService
	Tasks    TaskService
	Activity ActivityService
	Reports  ReportService
	Events   EventStream
}

// Config contains router configuration.
type Config struct {
	Services Services
	// Auth authenticates every route except health, register and login.
	Auth func(http.Handler) http.Handler
	// MCP, when set, is mounted at /mcp. It authenticates on its own.
	MCP    http.Handler
	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{svc: cfg.Services, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", srv.handleHealth)
	r.Post("/auth/register", srv.handleRegister)
	r.Post("/auth/login", srv.handleLogin)

	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		r.Post("/auth/logout", srv.handleLogout)
		r.Get("/me", srv.handleMe)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.handleListProjects)
			r.Post("/", srv.handleCreateProject)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", srv.handleGetProject)
				r.Patch("/", srv.handleUpdateProject)
				r.Delete("/", srv.handleDeleteProject)
				r.Get("/members", srv.handleListProjectMembers)
				r.Post("/members", srv.handleAddProjectMember)
				r.Delete("/members/{userID}", srv.handleRemoveProjectMember)
				r.Get("/board", srv.handleBoard)
				r.Post("/columns", srv.handleCreateColumn)
				r.Put("/columns/order", srv.handleReorderColumns)
				r.Get("/search", srv.handleSearch)
				r.Get("/report", srv.handleReport)
				r.Get("/activity", srv.handleActivity)
				r.Get("/events", srv.handleEvents)
			})
		})

		r.Route("/columns/{columnID}", func(r chi.Router) {
			r.Get("/", srv.handleGetColumn)
			r.Patch("/", srv.handleUpdateColumn)
			r.Delete("/", srv.handleDeleteColumn)
			r.Post("/move", srv.handleMoveColumn)
			r.Get("/tasks", srv.handleListColumnTasks)
			r.Post("/tasks", srv.handleCreateTask)
			r.Put("/tasks/order", srv.handleReorderTasks)
		})

		r.Route("/tasks/{taskID}", func(r chi.Router) {
			r.Get("/", srv.handleGetTask)
			r.Patch("/", srv.handleUpdateTask)
			r.Delete("/", srv.handleDeleteTask)
			r.Post("/move", srv.handleMoveTask)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", srv.handleListTeams)
			r.Post("/", srv.handleCreateTeam)
			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", srv.handleGetTeam)
				r.Delete("/", srv.handleDeleteTeam)
				r.Get("/members", srv.handleListTeamMembers)
				r.Post("/members", srv.handleAddTeamMember)
				r.Delete("/members/{userID}", srv.handleRemoveTeamMember)
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, s.logger, err)
}

// orderRequest is the body of the reorder endpoints.
type orderRequest struct {
	IDs []string `json:"ids"`
}

// memberRequest is the body of the add member endpoints.
type memberRequest struct {
	UserID string      `json:"user_id"`
	Role   access.Role `json:"role"`
}
