package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/transport"
)

type listProjectsInput struct{}

type getBoardInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type createTaskInput struct {
	ColumnID    string `json:"column_id" jsonschema:"Column to append the task to"`
	Title       string `json:"title" jsonschema:"Task title"`
	Description string `json:"description,omitempty" jsonschema:"Task description"`
	Priority    string `json:"priority,omitempty" jsonschema:"low, medium, high or urgent (default medium)"`
	AssigneeID  string `json:"assignee_id,omitempty" jsonschema:"User ID of a project member"`
}

type moveTaskInput struct {
	TaskID   string `json:"task_id" jsonschema:"Task to move"`
	ColumnID string `json:"column_id" jsonschema:"Target column, in the same project"`
	Index    int    `json:"index" jsonschema:"0-based target position; clamped into range"`
}

type reorderColumnInput struct {
	ColumnID string   `json:"column_id" jsonschema:"Column to reorder"`
	TaskIDs  []string `json:"task_ids" jsonschema:"Every task ID in the column, exactly once, in the desired order"`
}

type deleteTaskInput struct {
	TaskID string `json:"task_id" jsonschema:"Task to delete"`
}

type searchTasksInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project to search"`
	Query     string `json:"query" jsonschema:"Words to match in titles and descriptions"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
	Offset    int    `json:"offset,omitempty" jsonschema:"Offset for pagination"`
}

type projectReportInput struct {
	ProjectID string `json:"project_id" jsonschema:"Project ID"`
}

type toolSet struct {
	svc    Services
	logger *slog.Logger
}

// registerTools adds the board tools to server.
func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	ts := &toolSet{svc: svc, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the projects you can access, with your role and task count",
	}, ts.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get a project's columns in order, each with its tasks in order",
	}, ts.getBoard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a task at the end of a column",
	}, ts.createTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_task",
		Description: "Move a task to a position in its column or another column of the same project",
	}, ts.moveTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reorder_column",
		Description: "Set the complete order of a column's tasks; returns the column",
	}, ts.reorderColumn)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task; later tasks in its column move up",
	}, ts.deleteTask)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_tasks",
		Description: "Full-text search over a project's task titles and descriptions",
	}, ts.searchTasks)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "project_report",
		Description: "Task counts per column, priority and assignee, plus overdue tasks",
	}, ts.projectReport)
}

// actor returns the caller's user ID, or a failed result when there is none.
func (ts *toolSet) actor(ctx context.Context, tool string) (string, *sdkmcp.CallToolResult) {
	actor := getActor(ctx)
	if actor == "" {
		return "", toolError(ts.logger, tool, transport.ErrUnauthorized)
	}
	return actor, nil
}

func (ts *toolSet) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ listProjectsInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "list_projects")
	if failed != nil {
		return failed, nil, nil
	}
	projects, err := ts.svc.Projects.List(ctx, actor)
	if err != nil {
		return toolError(ts.logger, "list_projects", err), nil, nil
	}
	return jsonResult(map[string]any{"projects": projects})
}

func (ts *toolSet) getBoard(ctx context.Context, _ *sdkmcp.CallToolRequest, in getBoardInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "get_board")
	if failed != nil {
		return failed, nil, nil
	}
	b, err := ts.svc.Board.Board(ctx, actor, in.ProjectID)
	if err != nil {
		return toolError(ts.logger, "get_board", err), nil, nil
	}
	return jsonResult(b)
}

func (ts *toolSet) createTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in createTaskInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "create_task")
	if failed != nil {
		return failed, nil, nil
	}
	req := task.CreateRequest{
		Title:       in.Title,
		Description: in.Description,
		Priority:    task.Priority(in.Priority),
	}
	if in.AssigneeID != "" {
		req.AssigneeID = &in.AssigneeID
	}
	t, err := ts.svc.Tasks.Create(ctx, actor, in.ColumnID, req)
	if err != nil {
		return toolError(ts.logger, "create_task", err), nil, nil
	}
	return jsonResult(t)
}

func (ts *toolSet) moveTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in moveTaskInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "move_task")
	if failed != nil {
		return failed, nil, nil
	}
	t, err := ts.svc.Tasks.Move(ctx, actor, in.TaskID, in.ColumnID, in.Index)
	if err != nil {
		return toolError(ts.logger, "move_task", err), nil, nil
	}
	return jsonResult(t)
}

func (ts *toolSet) reorderColumn(ctx context.Context, _ *sdkmcp.CallToolRequest, in reorderColumnInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "reorder_column")
	if failed != nil {
		return failed, nil, nil
	}
	if err := ts.svc.Tasks.Reorder(ctx, actor, in.ColumnID, in.TaskIDs); err != nil {
		return toolError(ts.logger, "reorder_column", err), nil, nil
	}
	tasks, err := ts.svc.Tasks.ListColumn(ctx, actor, in.ColumnID)
	if err != nil {
		return toolError(ts.logger, "reorder_column", err), nil, nil
	}
	return jsonResult(map[string]any{"column_id": in.ColumnID, "tasks": tasks})
}

func (ts *toolSet) deleteTask(ctx context.Context, _ *sdkmcp.CallToolRequest, in deleteTaskInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "delete_task")
	if failed != nil {
		return failed, nil, nil
	}
	if err := ts.svc.Tasks.Delete(ctx, actor, in.TaskID); err != nil {
		return toolError(ts.logger, "delete_task", err), nil, nil
	}
	return jsonResult(map[string]any{"deleted": in.TaskID})
}

func (ts *toolSet) searchTasks(ctx context.Context, _ *sdkmcp.CallToolRequest, in searchTasksInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "search_tasks")
	if failed != nil {
		return failed, nil, nil
	}
	results, err := ts.svc.Tasks.Search(ctx, actor, in.ProjectID, in.Query, task.SearchOptions{Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return toolError(ts.logger, "search_tasks", err), nil, nil
	}
	return jsonResult(map[string]any{"results": results})
}

func (ts *toolSet) projectReport(ctx context.Context, _ *sdkmcp.CallToolRequest, in projectReportInput) (*sdkmcp.CallToolResult, any, error) {
	actor, failed := ts.actor(ctx, "project_report")
	if failed != nil {
		return failed, nil, nil
	}
	rep, err := ts.svc.Reports.Generate(ctx, actor, in.ProjectID)
	if err != nil {
		return toolError(ts.logger, "project_report", err), nil, nil
	}
	return jsonResult(rep)
}
