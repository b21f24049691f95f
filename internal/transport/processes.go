package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
)

type createProcessBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
}

type updateProcessBody struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Status      *string `json:"status"`
}

type retryRenameBody struct {
	OldName string `json:"old_name"`
}

// UpdateProcessResponse is returned by PUT /procesos/{process}.
type UpdateProcessResponse struct {
	Process *process.Process        `json:"process"`
	Rename  *namespace.RenameReport `json:"rename,omitempty"`
}

// urlParam returns a path parameter with percent-escapes resolved. chi
// routes on RawPath only when the path carries escapes that Path cannot
// represent; otherwise the parameter is already decoded.
func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func (s *Server) createProcess(w http.ResponseWriter, r *http.Request) {
	var body createProcessBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.svc.Processes.Create(r.Context(), process.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Start:       body.Start,
		End:         body.End,
		Status:      process.Status(body.Status),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listProcesses(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.svc.Processes.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) getProcess(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Processes.Get(r.Context(), urlParam(r, "process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProcess(w http.ResponseWriter, r *http.Request) {
	var body updateProcessBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := process.Patch{
		Name:        body.Name,
		Description: body.Description,
		Start:       body.Start,
		End:         body.End,
	}
	if body.Status != nil {
		st := process.Status(*body.Status)
		patch.Status = &st
	}

	updated, report, err := s.svc.Coordinator.UpdateProcess(r.Context(), urlParam(r, "process"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if report != nil && report.HasFailures() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, UpdateProcessResponse{Process: updated, Rename: report})
}

// retryRename re-runs the namespace renames from old_name to the path name.
func (s *Server) retryRename(w http.ResponseWriter, r *http.Request) {
	var body retryRenameBody
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(body.OldName) == "" {
		s.writeError(w, r, fmt.Errorf("%w: old_name is required", errBadRequest))
		return
	}
	report, err := s.svc.Coordinator.RetryRename(r.Context(), body.OldName, urlParam(r, "process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if report.HasFailures() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report)
}

func (s *Server) deleteProcess(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Coordinator.DeleteProcess(r.Context(), urlParam(r, "process"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if report.HasFailures() {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, report)
}
