package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/planboard/internal/domain/activity"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Projects.List(r.Context(), actorOf(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Create(r.Context(), actorOf(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.svc.Projects.Get(r.Context(), actorOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req project.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	proj, err := s.svc.Projects.Update(r.Context(), actorOf(r), chi.URLParam(r, "projectID"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Projects.Delete(r.Context(), actorOf(r), chi.URLParam(r, "projectID")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListProjectMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.Projects.Members(r.Context(), actorOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleAddProjectMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	member, err := s.svc.Projects.AddMember(r.Context(), actorOf(r), chi.URLParam(r, "projectID"), req.UserID, req.Role)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (s *Server) handleRemoveProjectMember(w http.ResponseWriter, r *http.Request) {
	err := s.svc.Projects.RemoveMember(r.Context(), actorOf(r), chi.URLParam(r, "projectID"), chi.URLParam(r, "userID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := task.SearchOptions{}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, err)
		return
	}

	results, err := s.svc.Tasks.Search(r.Context(), actorOf(r), chi.URLParam(r, "projectID"), q.Get("q"), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.svc.Reports.Generate(r.Context(), actorOf(r), chi.URLParam(r, "projectID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Projects.Get(r.Context(), actorOf(r), projectID); err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := activity.ListOptions{ProjectID: projectID}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.fail(w, r, err)
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, err)
		return
	}
	if taskID := q.Get("task_id"); taskID != "" {
		opts.TaskID = &taskID
	}
	if typ := q.Get("type"); typ != "" {
		t := activity.Type(typ)
		opts.Type = &t
	}

	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, err := s.svc.Projects.Get(r.Context(), actorOf(r), projectID); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.svc.Events == nil {
		http.NotFound(w, r)
		return
	}
	s.svc.Events.Serve(w, r, projectID)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadRequest
	}
	return n, nil
}
