package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lan-dot-party/gurtdns/internal/storage"
	"github.com/lan-dot-party/gurtdns/pkg/version"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// Response helpers

type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

type successResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type healthResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Build    version.Info `json:"build"`
}

type domainsResponse struct {
	Domains []storage.Domain `json:"domains"`
	Meta    struct {
		Count  int `json:"count"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"meta"`
}

type statsResponse struct {
	Total       int                `json:"total"`
	ByStatus    map[string]int     `json:"by_status"`
	Maintenance *MaintenanceStatus `json:"maintenance,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Code:    status,
		Message: message,
	})
}

// Handlers

// handleHealth reports service and database health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Build: version.Get()}
	status := http.StatusOK

	if err := s.storage.Ping(ctx); err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, resp)
}

// handleListDomains returns registered domains with optional filtering.
func (s *Server) handleListDomains(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.DomainFilter{
		TLD:   q.Get("tld"),
		Limit: defaultListLimit,
	}

	if status := q.Get("status"); status != "" {
		if !storage.IsValidStatus(status) {
			s.writeError(w, http.StatusBadRequest, "Invalid status: "+status)
			return
		}
		filter.Status = status
	}

	if since := q.Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = t
		} else if d, err := time.ParseDuration(since); err == nil {
			filter.Since = time.Now().Add(-d)
		} else {
			s.writeError(w, http.StatusBadRequest, "Invalid since: use RFC3339 or a duration like 24h")
			return
		}
	}

	if limit := q.Get("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l <= 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = min(l, maxListLimit)
	}

	if offset := q.Get("offset"); offset != "" {
		o, err := strconv.Atoi(offset)
		if err != nil || o < 0 {
			s.writeError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		filter.Offset = o
	}

	domains, err := s.storage.ListDomains(r.Context(), filter)
	if err != nil {
		s.logger.Error("Failed to list domains", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve domains")
		return
	}
	if domains == nil {
		domains = []storage.Domain{}
	}

	response := domainsResponse{Domains: domains}
	response.Meta.Count = len(domains)
	response.Meta.Limit = filter.Limit
	response.Meta.Offset = filter.Offset

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetDomain returns a single domain by ID.
func (s *Server) handleGetDomain(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid domain ID")
		return
	}

	domain, err := s.storage.GetDomain(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Domain not found")
		return
	}
	if err != nil {
		s.logger.Error("Failed to get domain", zap.Int64("id", id), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve domain")
		return
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   domain,
	})
}

// handleStats returns domain counts per registration state.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.storage.CountByStatus(r.Context())
	if err != nil {
		s.logger.Error("Failed to count domains", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to retrieve statistics")
		return
	}

	resp := statsResponse{ByStatus: counts}
	for _, n := range counts {
		resp.Total += n
	}
	if s.maintenance != nil {
		st := s.maintenance.Status()
		resp.Maintenance = &st
	}

	s.writeJSON(w, http.StatusOK, successResponse{
		Status: "ok",
		Data:   resp,
	})
}
