package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/movierec/internal/engine"
	apperrors "github.com/knowledge-engine/movierec/internal/errors"
	"github.com/knowledge-engine/movierec/internal/search"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/recommend", s.handleRecommend)
	s.Router.HandleFunc("/api/v1/similar", s.handleSimilar)
	s.Router.HandleFunc("/api/v1/records", s.handleRecord)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Requests

type RecommendRequest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	TopK        int    `json:"top_k"`
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type RecommendResponse struct {
	Query    string       `json:"query"`
	Results  []ResultView `json:"results"`
	RecordID string       `json:"record_id,omitempty"`
}

type ResultView struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

type StatusResponse struct {
	Documents      int    `json:"documents"`
	Vocabulary     int    `json:"vocabulary"`
	Queries        int64  `json:"queries"`
	QueryWeighting string `json:"query_weighting"`
	Uptime         string `json:"uptime"`
}

// Handlers

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "description is required"})
		return
	}
	if req.TopK < 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "top_k must not be negative"})
		return
	}

	// Titles and descriptions are matched lowercase, like the corpus
	queryID := strings.TrimSpace(strings.ToLower(req.ID))
	hits := s.Engine.Recommend(queryID, strings.ToLower(req.Description), req.TopK)

	s.respondWithResults(w, queryID, hits)
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimSpace(strings.ToLower(r.URL.Query().Get("id")))
	if id == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'id' is required"})
		return
	}

	topK := 0
	if k := r.URL.Query().Get("k"); k != "" {
		n, err := strconv.Atoi(k)
		if err != nil || n < 0 {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'k' must be a non-negative integer"})
			return
		}
		topK = n
	}

	hits, err := s.Engine.RecommendFor(id, topK)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondWithResults(w, id, hits)
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'id' is required"})
		return
	}

	record, err := s.Engine.GetRecord(id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.Engine.Stats()

	jsonResponse(w, http.StatusOK, StatusResponse{
		Documents:      stats.Documents,
		Vocabulary:     stats.Vocabulary,
		Queries:        stats.Queries,
		QueryWeighting: s.Engine.Config.Ranking.QueryWeighting,
		Uptime:         time.Since(stats.StartTime).Round(time.Second).String(),
	})
}

func (s *Server) respondWithResults(w http.ResponseWriter, queryID string, hits []search.SearchResult) {
	response := RecommendResponse{
		Query:   queryID,
		Results: make([]ResultView, len(hits)),
	}
	for i, hit := range hits {
		response.Results[i] = ResultView{
			ID:    hit.Document.ID,
			Score: hit.Score,
		}
	}

	record, err := s.Engine.Record(queryID, hits)
	if err != nil {
		// Record failures do not fail the request
		s.Logger.WithError(err).Error("Failed to store recommendation record")
	} else if record != nil {
		response.RecordID = record.ID
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidInput):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.WithError(err).Error("Request failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
