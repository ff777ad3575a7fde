// Package api serves host listings, packet tables and size edits for one
// open trace file over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/NeedsSoySauce/Packet-Browser/internal/app"
	apperrors "github.com/NeedsSoySauce/Packet-Browser/internal/errors"
	"github.com/NeedsSoySauce/Packet-Browser/internal/logging"
	"github.com/NeedsSoySauce/Packet-Browser/internal/report"
	"github.com/NeedsSoySauce/Packet-Browser/internal/simulator"
)

// Server wraps a Session. Requests are handled one at a time because the
// session and its packets are not safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	session *app.Session
	logger  *logging.Logger
	router  *mux.Router
}

// EditRequest is the body of a size edit.
type EditRequest struct {
	Value string `json:"value"`
}

// EditResponse reports the outcome of a size edit.
type EditResponse struct {
	Line   int    `json:"line"`
	Result string `json:"result"`
	Size   *int   `json:"size"`
}

const apiPrefix = "/api/v1"

// NewServer builds the router for s.
func NewServer(s *app.Session, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	srv := &Server{session: s, logger: logger}

	// Routes sit on the root router: a PathPrefix subrouter answers a
	// wrong method with 404 rather than 405.
	r := mux.NewRouter()
	r.HandleFunc(apiPrefix+"/hosts", srv.hostsHandler).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/ports", srv.portsHandler).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/packets", srv.packetsHandler).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/packets/{line:[0-9]+}/size", srv.editSizeHandler).Methods(http.MethodPut)
	r.HandleFunc(apiPrefix+"/stats", srv.statsHandler).Methods(http.MethodGet)
	r.Use(srv.serialize)
	srv.router = r
	return srv
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening on %s (%s)", addr, s.session.Path())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen on %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.logger.Debug("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (s *Server) hostsHandler(w http.ResponseWriter, r *http.Request) {
	side, err := app.ParseSide(r.URL.Query().Get("side"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Simulator().UniqueSortedHostIPs(side))
}

func (s *Server) portsHandler(w http.ResponseWriter, r *http.Request) {
	side, err := app.ParseSide(r.URL.Query().Get("side"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Simulator().UniqueSortedHostPorts(side))
}

// StatsResponse is the load summary plus the number of saves since open.
type StatsResponse struct {
	simulator.Stats
	Saves int `json:"saves"`
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{Stats: s.session.Stats(), Saves: s.session.Saves()})
}

func (s *Server) packetsHandler(w http.ResponseWriter, r *http.Request) {
	q, err := queryFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, report.FromModel(s.session.Table(q), q.String()))
}

func (s *Server) editSizeHandler(w http.ResponseWriter, r *http.Request) {
	line, err := strconv.Atoi(mux.Vars(r)["line"])
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid line: %v", err), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read request body: %v", err), http.StatusBadRequest)
		return
	}
	var req EditRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, fmt.Sprintf("failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	result, err := s.session.EditSize(line, req.Value)
	switch {
	case errors.Is(err, apperrors.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, apperrors.ErrInvalidEdit):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := EditResponse{Line: line, Result: result.String()}
	if p, err := s.session.Simulator().PacketByLine(line); err == nil {
		if size, ok := p.IPPacketSize(); ok {
			resp.Size = &size
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryFromRequest(r *http.Request) (app.Query, error) {
	v := r.URL.Query()
	return app.QueryParams{
		Mode:   v.Get("mode"),
		Filter: v.Get("filter"),
		Side:   v.Get("side"),
		IP:     v.Get("ip"),
		Port:   v.Get("port"),
		Src:    v.Get("src"),
		Dest:   v.Get("dest"),
	}.Query()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = report.WriteJSON(w, v)
}
