package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/knowledge-engine/factfinder/internal/engine"
	"github.com/knowledge-engine/factfinder/internal/tone"
)

type Server struct {
	Engine      *engine.Engine
	Logger      *logrus.Entry
	Router      *http.ServeMux
	CORSOrigin  string
	SearchLimit int

	startTime time.Time
}

func NewServer(eng *engine.Engine, logger *logrus.Entry, corsOrigin string, searchLimit int) *Server {
	if searchLimit <= 0 {
		searchLimit = 5
	}
	s := &Server{
		Engine:      eng,
		Logger:      logger,
		Router:      http.NewServeMux(),
		CORSOrigin:  corsOrigin,
		SearchLimit: searchLimit,
		startTime:   time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/query", s.handleQuery)
	s.Router.HandleFunc("/api/v1/search", s.handleSearch)
	s.Router.HandleFunc("/api/v1/status", s.handleStatus)
	s.Router.HandleFunc("/chat", s.handleChat)
	s.Router.HandleFunc("/profile", s.handleProfile)
	s.Router.HandleFunc("/{$}", s.handleRoot)
}

// Handler wraps the router with request logging and CORS
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withCORS(s.Router))
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Responses
type ErrorResponse struct {
	Error string `json:"error"`
}

type QueryResponse struct {
	Query string    `json:"query"`
	Match string    `json:"match"`
	Found bool      `json:"found"`
	Score float64   `json:"score"`
	Mood  tone.Mood `json:"mood"`
	Line  string    `json:"line"`
}

type SearchResponse struct {
	Query   string             `json:"query"`
	Results []SearchResultView `json:"results"`
}

type SearchResultView struct {
	Line  string  `json:"line"`
	Score float64 `json:"score"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Reply string    `json:"reply"`
	Mood  tone.Mood `json:"mood"`
}

type ProfileResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
	Tech string `json:"tech"`
}

type StatusResponse struct {
	Status   string `json:"status"`
	Corpus   string `json:"corpus"`
	Provider string `json:"provider"`
	Uptime   string `json:"uptime"`
}

// Handlers

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	res := s.Engine.Answer(r.Context(), query)

	jsonResponse(w, http.StatusOK, QueryResponse{
		Query: query,
		Match: res.Match.Text(),
		Found: res.Match.Found,
		Score: res.Match.Score,
		Mood:  res.Mood,
		Line:  res.String(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query 'q' is required"})
		return
	}

	k := s.SearchLimit
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "'k' must be a positive integer"})
			return
		}
		k = n
	}

	hits := s.Engine.Search(r.Context(), query, k)

	response := SearchResponse{
		Query:   query,
		Results: make([]SearchResultView, len(hits)),
	}
	for i, hit := range hits {
		response.Results[i] = SearchResultView{Line: hit.Line, Score: hit.Score}
	}

	jsonResponse(w, http.StatusOK, response)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: engine.ErrEmptyQuery.Error()})
		return
	}

	reply, res, err := s.Engine.Chat(r.Context(), req.Message)
	if err != nil {
		s.logger(r).WithError(err).Error("Chat failed")
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrNoProvider) {
			status = http.StatusServiceUnavailable
		}
		jsonResponse(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply, Mood: res.Mood})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	p := s.Engine.Profile
	jsonResponse(w, http.StatusOK, ProfileResponse{Name: p.Name, Role: p.Role, Tech: p.Tech})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Status: "online",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	}
	if s.Engine.Corpus != nil {
		resp.Corpus = s.Engine.Corpus.Name()
	}
	if s.Engine.LLM != nil {
		resp.Provider = s.Engine.LLM.Name()
	}

	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "online"})
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
