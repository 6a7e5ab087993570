package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"BillScanner/internal/domain"
	"BillScanner/internal/ports"
)

// Server exposes the read-only bill query API.
type Server struct {
	repository ports.BillRepository
	logger     *slog.Logger
}

// New wires the repository behind the HTTP handlers.
func New(repo ports.BillRepository, log *slog.Logger) *Server {
	return &Server{repository: repo, logger: log}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/api/bills", s.handleListBills)
	r.Get("/api/bills/{id}", s.handleGetBill)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type listResponse struct {
	Data  []domain.Bill `json:"data"`
	Total int           `json:"total"`
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.BillFilter{
		Search:   q.Get("search"),
		Agency:   q.Get("agency"),
		Status:   q.Get("status"),
		Session:  q.Get("session"),
		Page:     intParam(q.Get("page"), 1),
		PageSize: intParam(q.Get("pageSize"), 20),
	}

	bills, total, err := s.repository.ListBills(r.Context(), filter)
	if err != nil {
		s.error("list bills failed", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if bills == nil {
		bills = []domain.Bill{}
	}

	writeJSON(w, http.StatusOK, listResponse{Data: bills, Total: total})
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid bill id"}`, http.StatusBadRequest)
		return
	}

	bill, err := s.repository.GetBill(r.Context(), id)
	if err != nil {
		s.error("get bill failed", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if bill == nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, bill)
}

func intParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) error(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, "error", err)
	}
}
