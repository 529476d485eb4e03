package app

import (
	"log/slog"
	"time"

	"github.com/rpggio/planboard/internal/domain/access"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/report"
	"github.com/rpggio/planboard/internal/domain/session"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/domain/team"
	"github.com/rpggio/planboard/internal/domain/user"
	"github.com/rpggio/planboard/internal/mcp"
	"github.com/rpggio/planboard/internal/ordering"
	"github.com/rpggio/planboard/internal/realtime"
	"github.com/rpggio/planboard/internal/sqlite"
	"github.com/rpggio/planboard/internal/transport"
)

// Options tune how the services are wired.
type Options struct {
	// Sessions overrides the SQLite session store, e.g. with redisstore.
	Sessions   session.Store
	SessionTTL time.Duration
	TxTimeout  time.Duration
	// HashCost overrides the bcrypt cost for passwords.
	HashCost int
	Logger   *slog.Logger
}

// App holds every service of a running board server.
type App struct {
	DB      *sqlite.DB
	APIKeys *sqlite.APIKeyRepository
	Guard   *access.Guard
	Hub     *realtime.Hub

	Users    *user.Service
	Sessions *session.Service
	Teams    *team.Service
	Projects *project.Service
	Board    *board.Service
	Tasks    *task.Service
	Activity *activity.Service
	Reports  *report.Service
}

// New wires the services over db.
func New(db *sqlite.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = ordering.DefaultTimeout
	}

	userRepo := sqlite.NewUserRepository(db)
	teamRepo := sqlite.NewTeamRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	memberRepo := sqlite.NewMemberRepository(db)
	columnRepo := sqlite.NewColumnRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	sessions := opts.Sessions
	if sessions == nil {
		sessions = sqlite.NewSessionStore(db)
	}

	guard := access.NewGuard(memberRepo, logger)
	hub := realtime.NewHub(logger)

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	activitySvc.Notify(hub)

	taskOrder := ordering.NewManager(
		sqlite.NewPositionStore(db, sqlite.TaskPositions),
		guard.ForGroups(columnRepo),
		logger,
		ordering.WithName("tasks"),
		ordering.WithTimeout(opts.TxTimeout),
	)
	columnOrder := ordering.NewManager(
		sqlite.NewPositionStore(db, sqlite.ColumnPositions),
		guard.ForGroups(projectRepo),
		logger,
		ordering.WithName("columns"),
		ordering.WithTimeout(opts.TxTimeout),
	)

	userSvc := user.NewService(userRepo, logger)
	if opts.HashCost > 0 {
		userSvc = userSvc.WithHashCost(opts.HashCost)
	}
	boardSvc := board.NewService(columnRepo, taskRepo, columnOrder, guard, db, activitySvc, logger)

	return &App{
		DB:       db,
		APIKeys:  apiKeys,
		Guard:    guard,
		Hub:      hub,
		Users:    userSvc,
		Sessions: session.NewService(sessions, apiKeys, userSvc, opts.SessionTTL, logger),
		Teams:    team.NewService(teamRepo, db, logger),
		Projects: project.NewService(project.Dependencies{
			Projects: projectRepo,
			Members:  memberRepo,
			Teams:    teamRepo,
			Guard:    guard,
			Board:    boardSvc,
			Tx:       db,
			Activity: activitySvc,
		}, logger),
		Board:    boardSvc,
		Tasks:    task.NewService(taskRepo, sqlite.NewSearchRepository(db), columnRepo, taskOrder, guard, activitySvc, logger),
		Activity: activitySvc,
		Reports:  report.NewService(sqlite.NewReportRepository(db), guard, db, logger),
	}
}

// HTTPServices returns the services the REST API needs.
func (a *App) HTTPServices() transport.Services {
	return transport.Services{
		Users:    a.Users,
		Sessions: a.Sessions,
		Projects: a.Projects,
		Teams:    a.Teams,
		Board:    a.Board,
		Tasks:    a.Tasks,
		Activity: a.Activity,
		Reports:  a.Reports,
		Events:   a.Hub,
	}
}

// MCPServices returns the services the MCP tools need.
func (a *App) MCPServices() mcp.Services {
	return mcp.Services{
		Projects: a.Projects,
		Board:    a.Board,
		Tasks:    a.Tasks,
		Reports:  a.Reports,
	}
}
