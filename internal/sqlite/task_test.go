package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/planboard/internal/domain/board"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTask(id, columnID string, position int, title string) *task.Task {
	now := time.Now().UTC()
	return &task.Task{
		ID:          id,
		ProjectID:   "p1",
		ColumnID:    columnID,
		Title:       title,
		Description: "",
		Priority:    task.PriorityMedium,
		Position:    position,
		CreatedBy:   "u1",
		CreatedAt:   now,
		ModifiedAt:  now,
	}
}

func TestTaskRepository_CreateGetUpdate(t *testing.T) {
	db := NewTestDB(t)
	seedBoard(t, db)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	due := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	assignee := "u1"
	tk := newTask("t1", "c1", 0, "Write launch post")
	tk.DueDate = &due
	tk.AssigneeID = &assignee
	require.NoError(t, repo.Create(ctx, tk))

	loaded, err := repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Write launch post", loaded.Title)
	require.Equal(t, task.PriorityMedium, loaded.Priority)
	require.NotNil(t, loaded.AssigneeID)
	require.Equal(t, "u1", *loaded.AssigneeID)
	require.NotNil(t, loaded.DueDate)
	require.True(t, due.Equal(*loaded.DueDate))

	loaded.Title = "Publish launch post"
	loaded.Priority = task.PriorityUrgent
	loaded.AssigneeID = nil
	loaded.DueDate = nil
	require.NoError(t, repo.Update(ctx, loaded))

	loaded, err = repo.Get(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, "Publish launch post", loaded.Title)
	require.Equal(t, task.PriorityUrgent, loaded.Priority)
	require.Nil(t, loaded.AssigneeID)
	require.Nil(t, loaded.DueDate)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, newTask("missing", "c1", 0, "x")), repository.ErrNotFound)
}

func TestTaskRepository_CreateAtTakenPosition(t *testing.T) {
	db := NewTestDB(t)
	seedBoard(t, db)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	require.NoError(t, repo.Create(ctx, newTask("t1", "c1", 0, "a")))
	err := repo.Create(ctx, newTask("t2", "c1", 0, "b"))
	require.ErrorIs(t, err, repository.ErrConstraintViolation)
}

func TestTaskRepository_Lists(t *testing.T) {
	db := NewTestDB(t)
	seedBoard(t, db)
	ctx := context.Background()
	repo := NewTaskRepository(db)

	require.NoError(t, repo.Create(ctx, newTask("t3", "c2", 0, "c")))
	require.NoError(t, repo.Create(ctx, newTask("t2", "c1", 1, "b")))
	require.NoError(t, repo.Create(ctx, newTask("t1", "c1", 0, "a")))

	col, err := repo.ListByColumn(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, col, 2)
	require.Equal(t, "t1", col[0].ID)
	require.Equal(t, "t2", col[1].ID)

	all, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	ids := []string{}
	for _, tk := range all {
		ids = append(ids, tk.ID)
	}
	require.Equal(t, []string{"t1", "t2", "t3"}, ids)
}

func TestColumnRepository(t *testing.T) {
	db := NewTestDB(t)
	insertUser(t, db, "u1")
	insertProject(t, db, "p1", "u1")
	ctx := context.Background()
	repo := NewColumnRepository(db)

	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &board.Column{ID: "c2", ProjectID: "p1", Name: "Done", Position: 1, CreatedAt: now}))
	require.NoError(t, repo.Create(ctx, &board.Column{ID: "c1", ProjectID: "p1", Name: "To Do", WIPLimit: 3, Position: 0, CreatedAt: now}))

	cols, err := repo.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	require.Equal(t, "c1", cols[0].ID)
	require.Equal(t, 3, cols[0].WIPLimit)

	c, err := repo.Get(ctx, "c2")
	require.NoError(t, err)
	c.Name = "Shipped"
	c.WIPLimit = 5
	require.NoError(t, repo.Update(ctx, c))
	c, err = repo.Get(ctx, "c2")
	require.NoError(t, err)
	require.Equal(t, "Shipped", c.Name)
	require.Equal(t, 5, c.WIPLimit)
	require.Equal(t, 1, c.Position)

	insertTask(t, db, "t1", "p1", "c1", 0)
	n, err := repo.CountTasks(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	projectID, err := repo.ProjectOf(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "p1", projectID)
	_, err = repo.ProjectOf(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.Get(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSearchRepository_Search(t *testing.T) {
	db := NewTestDB(t)
	seedBoard(t, db)
	insertProject(t, db, "p2", "u1")
	insertColumn(t, db, "other", "p2", 0)
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	require.NoError(t, tasks.Create(ctx, newTask("t1", "c1", 0, "Migrate billing database")))
	require.NoError(t, tasks.Create(ctx, newTask("t2", "c1", 1, "Update onboarding docs")))
	foreign := newTask("t3", "other", 0, "Migrate billing service")
	foreign.ProjectID = "p2"
	require.NoError(t, tasks.Create(ctx, foreign))

	repo := NewSearchRepository(db)
	results, err := repo.Search(ctx, "p1", "billing", task.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "t1", results[0].Task.ID)
	require.Contains(t, results[0].Snippet, "[billing]")

	results, err = repo.Search(ctx, "p1", "onboard", task.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "t2", results[0].Task.ID)

	results, err = repo.Search(ctx, "p1", `billing"`, task.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = repo.Search(ctx, "p1", "   ", task.SearchOptions{})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestMatchExpression(t *testing.T) {
	require.Equal(t, `"foo"* "bar"*`, matchExpression(" foo  bar "))
	require.Equal(t, `"""hi"""*`, matchExpression(`"hi"`))
	require.Empty(t, matchExpression(""))
}

func TestReportRepository(t *testing.T) {
	db := NewTestDB(t)
	seedBoard(t, db)
	insertUser(t, db, "u2")
	ctx := context.Background()
	tasks := NewTaskRepository(db)

	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	earlier := now.Add(-72 * time.Hour)
	future := now.Add(48 * time.Hour)
	u1, u2 := "u1", "u2"

	t1 := newTask("t1", "c1", 0, "a")
	t1.AssigneeID = &u1
	t1.DueDate = &past
	t1.Priority = task.PriorityHigh
	t2 := newTask("t2", "c1", 1, "b")
	t2.AssigneeID = &u1
	t2.DueDate = &future
	t3 := newTask("t3", "c1", 2, "c")
	t3.AssigneeID = &u2
	t3.DueDate = &earlier
	t4 := newTask("t4", "c1", 3, "d")
	for _, tk := range []*task.Task{t1, t2, t3, t4} {
		require.NoError(t, tasks.Create(ctx, tk))
	}

	repo := NewReportRepository(db)

	cols, err := repo.ColumnCounts(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	require.Equal(t, "c1", cols[0].ColumnID)
	require.Equal(t, 4, cols[0].Count)
	require.Equal(t, "c2", cols[1].ColumnID)
	require.Zero(t, cols[1].Count)

	prio, err := repo.PriorityCounts(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, map[task.Priority]int{task.PriorityHigh: 1, task.PriorityMedium: 3}, prio)

	assignees, err := repo.AssigneeCounts(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, assignees, 2)
	require.Equal(t, "u1", assignees[0].UserID)
	require.Equal(t, 2, assignees[0].Count)
	require.Equal(t, "User u1", assignees[0].DisplayName)

	unassigned, err := repo.UnassignedCount(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1, unassigned)

	overdue, err := repo.OverdueTasks(ctx, "p1", now)
	require.NoError(t, err)
	require.Len(t, overdue, 2)
	require.Equal(t, "t3", overdue[0].ID)
	require.Equal(t, "t1", overdue[1].ID)
}
