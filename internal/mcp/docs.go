package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `planboard manages Kanban boards: Projects → Columns → Tasks.

Core concepts:
- Project: a board plus its members. Roles are viewer, editor, admin; editing needs editor.
- Column: an ordered lane in a project, optionally with a WIP limit (advisory).
- Task: an ordered card in a column. Positions run 0..n-1 with no gaps.

Rules of engagement:
1) Orient: list_projects, then get_board for the project you work on.
2) Find work: search_tasks (full text, prefix matching) or read the board.
3) Change order: move_task to place one task; reorder_column only with the
   complete list of a column's task ids, exactly once each.
   - INVALID_ORDER_SET means the column changed: call get_board and retry.
   - CONFLICT and TIMEOUT are transient: retry the same call.
4) Summarize: project_report for counts per column, priority, assignee, and overdue tasks.

Docs:
- planboard://docs/index
- planboard://docs/ordering
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "planboard://docs/index",
		Name:        "docs_index",
		Title:       "planboard docs index",
		Description: "Entry point for agent-facing docs.",
		Content: `# planboard: Agent Docs Index

## Tools

- list_projects: projects you can see, with your role and task counts.
- get_board: columns in order, each with its tasks in order.
- create_task: append a task to the end of a column.
- move_task: move a task within its column or to another column of the same project.
- reorder_column: set the full order of a column's tasks.
- delete_task: delete a task; the rest of the column closes the gap.
- search_tasks: full-text search over titles and descriptions.
- project_report: dashboard numbers for one project.

## Read next

- planboard://docs/ordering before reordering anything.
`,
	},
	{
		URI:         "planboard://docs/ordering",
		Name:        "docs_ordering",
		Title:       "How task order works",
		Description: "Position rules, error codes, and retry guidance for ordering tools.",
		Content: `# Ordering

Every column holds its tasks at positions 0..n-1. Every change keeps that true:
there are never gaps or duplicates, even with several clients editing at once.

## move_task

- index is clamped into range: a negative index means the top, a large index the bottom.
- Moving to another column closes the gap in the source column and opens one
  in the target.
- Tasks cannot move to a column of a different project.

## reorder_column

- task_ids must be exactly the column's current tasks, each once. Missing, unknown,
  or repeated ids fail with INVALID_ORDER_SET and change nothing.
- An empty list is accepted only for an empty column.

## Errors

| code | meaning | what to do |
|---|---|---|
| FORBIDDEN | you lack editor access | ask a project admin |
| TASK_NOT_FOUND / COLUMN_NOT_FOUND | wrong id | re-read the board |
| INVALID_ORDER_SET | ids do not match the column | get_board, rebuild the list, retry |
| CONFLICT | concurrent change | retry |
| TIMEOUT | storage busy | retry |
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
