package mocks

import (
	"context"
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
	"github.com/rpggio/planboard/internal/ordering"
	"github.com/stretchr/testify/mock"
)

// Transactor runs fn directly, without a transaction.
type Transactor struct{}

func (Transactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MemberRepository is a mock for access.MemberRepository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) ProjectRoles(ctx context.Context, projectID, userID string) ([]access.Role, error) {
	args := m.Called(ctx, projectID, userID)
	if roles, ok := args.Get(0).([]access.Role); ok {
		return roles, args.Error(1)
	}
	return nil, args.Error(1)
}

// Authorizer is a mock for the domain Authorizer interfaces.
type Authorizer struct {
	mock.Mock
}

func (m *Authorizer) Authorize(ctx context.Context, actor, projectID string, action access.Action) error {
	args := m.Called(ctx, actor, projectID, action)
	return args.Error(0)
}

func (m *Authorizer) Allowed(ctx context.Context, actor, projectID string, action access.Action) (bool, error) {
	args := m.Called(ctx, actor, projectID, action)
	return args.Bool(0), args.Error(1)
}

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// Authenticator is a mock for session.Authenticator.
type Authenticator struct {
	mock.Mock
}

func (m *Authenticator) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionStore is a mock for session.Store.
type SessionStore struct {
	mock.Mock
}

func (m *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionStore) Lookup(ctx context.Context, tokenHash string) (*session.Session, error) {
	args := m.Called(ctx, tokenHash)
	if sess, ok := args.Get(0).(*session.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionStore) Revoke(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

// KeyStore is a mock for session.KeyStore.
type KeyStore struct {
	mock.Mock
}

func (m *KeyStore) LookupAPIKey(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if entries, ok := args.Get(0).([]activity.Entry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRecorder is a mock for the domain ActivityRecorder interfaces.
type ActivityRecorder struct {
	mock.Mock
}

func (m *ActivityRecorder) Record(ctx context.Context, entry *activity.Entry) {
	m.Called(ctx, entry)
}

// TeamRepository is a mock for team.Repository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TeamRepository) Get(ctx context.Context, id string) (*team.Team, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TeamRepository) ListForUser(ctx context.Context, userID string) ([]team.Team, error) {
	args := m.Called(ctx, userID)
	if teams, ok := args.Get(0).([]team.Team); ok {
		return teams, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) AddMember(ctx context.Context, member *team.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *TeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	args := m.Called(ctx, teamID)
	if members, ok := args.Get(0).([]team.Member); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) TeamRole(ctx context.Context, teamID, userID string) (access.Role, error) {
	args := m.Called(ctx, teamID, userID)
	return args.Get(0).(access.Role), args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ProjectMemberRepository is a mock for project.MemberRepository.
type ProjectMemberRepository struct {
	mock.Mock
}

func (m *ProjectMemberRepository) AddMember(ctx context.Context, member *project.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *ProjectMemberRepository) RemoveMember(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *ProjectMemberRepository) ListMembers(ctx context.Context, projectID string) ([]project.Member, error) {
	args := m.Called(ctx, projectID)
	if members, ok := args.Get(0).([]project.Member); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

// BoardSeeder is a mock for project.BoardSeeder.
type BoardSeeder struct {
	mock.Mock
}

func (m *BoardSeeder) SeedColumns(ctx context.Context, actor, projectID string, names []string) error {
	args := m.Called(ctx, actor, projectID, names)
	return args.Error(0)
}

// Orderer is a mock for the task and board Orderer interfaces.
type Orderer struct {
	mock.Mock
}

func (m *Orderer) Append(ctx context.Context, actor, parentKey string, insert func(ctx context.Context, position int) error) (int, error) {
	args := m.Called(ctx, actor, parentKey, insert)
	return args.Int(0), args.Error(1)
}

func (m *Orderer) Reorder(ctx context.Context, actor, parentKey string, orderedIDs []string) error {
	args := m.Called(ctx, actor, parentKey, orderedIDs)
	return args.Error(0)
}

func (m *Orderer) Move(ctx context.Context, actor, id, targetParentKey string, targetIndex int) (ordering.Placement, error) {
	args := m.Called(ctx, actor, id, targetParentKey, targetIndex)
	return args.Get(0).(ordering.Placement), args.Error(1)
}

func (m *Orderer) Remove(ctx context.Context, actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) ListByColumn(ctx context.Context, columnID string) ([]task.Task, error) {
	args := m.Called(ctx, columnID)
	if tasks, ok := args.Get(0).([]task.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	args := m.Called(ctx, projectID)
	if tasks, ok := args.Get(0).([]task.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchRepository is a mock for task.SearchRepository.
type SearchRepository struct {
	mock.Mock
}

func (m *SearchRepository) Search(ctx context.Context, projectID, query string, opts task.SearchOptions) ([]task.SearchResult, error) {
	args := m.Called(ctx, projectID, query, opts)
	if results, ok := args.Get(0).([]task.SearchResult); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// ColumnLookup is a mock for task.ColumnLookup.
type ColumnLookup struct {
	mock.Mock
}

func (m *ColumnLookup) ProjectOf(ctx context.Context, columnID string) (string, error) {
	args := m.Called(ctx, columnID)
	return args.String(0), args.Error(1)
}

// ColumnRepository is a mock for board.Repository.
type ColumnRepository struct {
	mock.Mock
}

func (m *ColumnRepository) Create(ctx context.Context, c *board.Column) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ColumnRepository) Get(ctx context.Context, id string) (*board.Column, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*board.Column); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ColumnRepository) Update(ctx context.Context, c *board.Column) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ColumnRepository) ListByProject(ctx context.Context, projectID string) ([]board.Column, error) {
	args := m.Called(ctx, projectID)
	if cols, ok := args.Get(0).([]board.Column); ok {
		return cols, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ColumnRepository) CountTasks(ctx context.Context, columnID string) (int, error) {
	args := m.Called(ctx, columnID)
	return args.Int(0), args.Error(1)
}

// ReportRepository is a mock for report.Repository.
type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) ColumnCounts(ctx context.Context, projectID string) ([]report.ColumnCount, error) {
	args := m.Called(ctx, projectID)
	if counts, ok := args.Get(0).([]report.ColumnCount); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) PriorityCounts(ctx context.Context, projectID string) (map[task.Priority]int, error) {
	args := m.Called(ctx, projectID)
	if counts, ok := args.Get(0).(map[task.Priority]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) AssigneeCounts(ctx context.Context, projectID string) ([]report.AssigneeCount, error) {
	args := m.Called(ctx, projectID)
	if counts, ok := args.Get(0).([]report.AssigneeCount); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReportRepository) UnassignedCount(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

func (m *ReportRepository) OverdueTasks(ctx context.Context, projectID string, now time.Time) ([]task.Task, error) {
	args := m.Called(ctx, projectID, now)
	if tasks, ok := args.Get(0).([]task.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}
