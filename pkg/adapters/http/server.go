// Package http exposes registered flows over a JSON API. Invocations
// may be ephemeral or session-backed; session-backed calls persist the
// final state so the next request continues the conversation.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seedworks/arbor"
	presentation "github.com/seedworks/arbor/internal/presentation/graph"
	"github.com/seedworks/arbor/pkg/domain"
	"github.com/seedworks/arbor/pkg/graph"
	"github.com/seedworks/arbor/pkg/session"
)

// Engine defines what the handlers need from the Arbor core.
type Engine interface {
	Invoke(ctx context.Context, flow string, state *domain.State) (*domain.State, error)
	InvokeSession(ctx context.Context, flow, sessionID string, values map[string]any) (*domain.State, error)
	Flows() []string
	Graph(flow string) (*graph.Compiled, error)
	Sessions() *session.Manager
}

// Server holds the handler dependencies.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// InvokeRequest is the POST /invoke payload. A non-empty SessionID makes
// the invocation session-backed.
type InvokeRequest struct {
	Flow      string         `json:"flow"`
	SessionID string         `json:"session_id,omitempty"`
	Values    map[string]any `json:"values,omitempty"`
}

// InvokeResponse carries the final state of an invocation.
type InvokeResponse struct {
	Flow      string              `json:"flow"`
	SessionID string              `json:"session_id,omitempty"`
	Values    map[string]any      `json:"values"`
	Trace     []domain.TraceEntry `json:"trace,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// GraphResponse describes a registered flow's shape.
type GraphResponse struct {
	Flow    string      `json:"flow"`
	Entry   string      `json:"entry"`
	Nodes   []GraphNode `json:"nodes"`
	Mermaid string      `json:"mermaid"`
}

// GraphNode is the wire form of one node and its outgoing edge.
type GraphNode struct {
	Name   string            `json:"name"`
	Target string            `json:"target,omitempty"`
	Labels map[string]string `json:"labels,omitempty"`
}

// NewHandler builds the HTTP handler for the engine.
func NewHandler(engine Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	server := &Server{
		engine: engine,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Get("/health", server.GetHealth)
	r.Get("/flows", server.ListFlows)
	r.Get("/graphs/{flow}", server.GetGraph)
	r.Post("/invoke", server.Invoke)
	r.Get("/sessions", server.ListSessions)
	r.Delete("/sessions/{id}", server.DeleteSession)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// Invoke handles POST /invoke.
func (s *Server) Invoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invoke: invalid request body", "err", err)
		return
	}
	if req.Flow == "" {
		http.Error(w, "Missing flow name", http.StatusBadRequest)
		return
	}

	var (
		final *domain.State
		err   error
	)
	if req.SessionID != "" {
		final, err = s.engine.InvokeSession(r.Context(), req.Flow, req.SessionID, req.Values)
	} else {
		final, err = s.engine.Invoke(r.Context(), req.Flow, domain.NewStateWith(req.Values))
	}
	if err != nil {
		status := http.StatusInternalServerError
		var routingErr *graph.RoutingError
		switch {
		case errors.As(err, &routingErr), errors.Is(err, graph.ErrStepLimit):
			// The flow itself is broken, not the request, but the caller
			// still gets the specific reason.
		case errors.Is(err, arbor.ErrUnknownFlow):
			status = http.StatusNotFound
		}
		http.Error(w, fmt.Sprintf("Invoke error: %v", err), status)
		s.logger.Error("invoke failed", "flow", req.Flow, "err", err)
		return
	}

	s.writeJSON(w, http.StatusOK, InvokeResponse{
		Flow:      req.Flow,
		SessionID: req.SessionID,
		Values:    final.Values,
		Trace:     final.Trace,
		Error:     final.Err(),
	})
}

// ListFlows handles GET /flows.
func (s *Server) ListFlows(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"flows": s.engine.Flows()})
}

// GetGraph handles GET /graphs/{flow}.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	flow := chi.URLParam(r, "flow")

	compiled, err := s.engine.Graph(flow)
	if err != nil {
		http.Error(w, fmt.Sprintf("Unknown flow: %v", err), http.StatusNotFound)
		return
	}

	nodes := make([]GraphNode, 0)
	for _, node := range compiled.Nodes() {
		nodes = append(nodes, GraphNode{
			Name:   node.Name,
			Target: node.Target,
			Labels: node.Labels,
		})
	}

	s.writeJSON(w, http.StatusOK, GraphResponse{
		Flow:    compiled.Name(),
		Entry:   compiled.Entry(),
		Nodes:   nodes,
		Mermaid: presentation.GenerateMermaid(compiled, nil),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.engine.Sessions().List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session list failed", "err", err)
		return
	}
	if sessions == nil {
		sessions = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": sessions})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.engine.Sessions().Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("session delete failed", "session_id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
