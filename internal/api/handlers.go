package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/spigell/nawasena/internal/filtering"
	"github.com/spigell/nawasena/internal/matching"
	"github.com/spigell/nawasena/internal/observability"
	"github.com/spigell/nawasena/internal/roster"
	"github.com/spigell/nawasena/internal/scoring"
)

const maxBodyBytes = 1 << 20

type employeeDetails struct {
	*roster.Employee
	Profile []roster.Axis `json:"profile"`
}

type statsResponse struct {
	AIEnabled bool                        `json:"ai_enabled"`
	Employees int                         `json:"employees"`
	Jobs      int                         `json:"jobs"`
	Stats     observability.StatsSnapshot `json:"stats"`
	Filters   []filtering.Status          `json:"filters"`
}

type biasCheckRequest struct {
	Candidates []matching.BiasCandidate `json:"candidates"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	r := s.matcher.Roster()
	respondJSON(w, http.StatusOK, statsResponse{
		AIEnabled: s.matcher.AIEnabled(),
		Employees: len(r.Employees()),
		Jobs:      len(r.Jobs()),
		Stats:     s.stats.Snapshot(),
		Filters:   s.matcher.FilterStatus(),
	})
}

func (s *Server) handleListEmployees(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"items": s.matcher.Roster().Employees()})
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	e := s.matcher.Roster().EmployeeByID(chi.URLParam(r, "id"))
	if e == nil {
		respondError(w, http.StatusNotFound, "pegawai tidak ditemukan")
		return
	}
	respondJSON(w, http.StatusOK, employeeDetails{Employee: e, Profile: e.ProfileAxes()})
}

func (s *Server) handleListJobs(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"items": s.matcher.Roster().Jobs()})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j := s.matcher.Roster().JobByID(chi.URLParam(r, "id"))
	if j == nil {
		respondError(w, http.StatusNotFound, "jabatan tidak ditemukan")
		return
	}
	respondJSON(w, http.StatusOK, j)
}

func (s *Server) handleProspects(w http.ResponseWriter, r *http.Request) {
	prospects, err := s.matcher.FindJobProspects(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": prospects})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	var method scoring.Method
	if raw := r.URL.Query().Get("method"); raw != "" {
		parsed, err := scoring.ParseMethod(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		method = parsed
	}

	candidates, err := s.matcher.FindCompatibleCandidates(r.Context(), chi.URLParam(r, "id"), method)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": candidates})
}

func (s *Server) handleBiasCheck(w http.ResponseWriter, r *http.Request) {
	var req biasCheckRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.matcher.CheckBias(r.Context(), chi.URLParam(r, "id"), req.Candidates)
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleExplanation(w http.ResponseWriter, r *http.Request) {
	explanation, err := s.matcher.ExplainCompatibility(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "jid"))
	if err != nil {
		s.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, explanation)
}
