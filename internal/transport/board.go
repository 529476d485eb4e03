package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/planboard/internal/domain/board"
)

type moveColumnRequest struct {
	Index int `json:"index"`
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Board.Board(r.Context(), actorOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateColumn(w http.ResponseWriter, r *http.Request) {
	var req board.CreateColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	col, err := s.svc.Board.CreateColumn(r.Context(), actorOf(r), chi.URLParam(r, "projectID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

func (s *Server) handleReorderColumns(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	projectID := chi.URLParam(r, "projectID")
	if err := s.svc.Board.ReorderColumns(r.Context(), actorOf(r), projectID, req.IDs); err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := s.svc.Board.Board(r.Context(), actorOf(r), projectID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleGetColumn(w http.ResponseWriter, r *http.Request) {
	col, err := s.svc.Board.GetColumn(r.Context(), actorOf(r), chi.URLParam(r, "columnID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	var req board.UpdateColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	col, err := s.svc.Board.UpdateColumn(r.Context(), actorOf(r), chi.URLParam(r, "columnID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Board.DeleteColumn(r.Context(), actorOf(r), chi.URLParam(r, "columnID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	var req moveColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	col, err := s.svc.Board.MoveColumn(r.Context(), actorOf(r), chi.URLParam(r, "columnID"), req.Index)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}
