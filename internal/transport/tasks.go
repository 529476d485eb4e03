package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/planboard/internal/domain/task"
)

type moveTaskRequest struct {
	ColumnID string `json:"column_id"`
	Index    int    `json:"index"`
}

func (s *Server) handleListColumnTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Tasks.ListColumn(r.Context(), actorOf(r), chi.URLParam(r, "columnID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req task.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.svc.Tasks.Create(r.Context(), actorOf(r), chi.URLParam(r, "columnID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

// handleReorderTasks answers with the column's tasks in their new order.
func (s *Server) handleReorderTasks(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	columnID := chi.URLParam(r, "columnID")
	if err := s.svc.Tasks.Reorder(r.Context(), actorOf(r), columnID, req.IDs); err != nil {
		s.fail(w, r, err)
		return
	}
	tasks, err := s.svc.Tasks.ListColumn(r.Context(), actorOf(r), columnID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Tasks.Get(r.Context(), actorOf(r), chi.URLParam(r, "taskID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var req task.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.svc.Tasks.Update(r.Context(), actorOf(r), chi.URLParam(r, "taskID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Tasks.Delete(r.Context(), actorOf(r), chi.URLParam(r, "taskID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var req moveTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := s.svc.Tasks.Move(r.Context(), actorOf(r), chi.URLParam(r, "taskID"), req.ColumnID, req.Index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
