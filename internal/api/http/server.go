package httpapi

import (
	stdcontext "context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/Paintersrp/groo/internal/api"
)

const (
	defaultAddr            = "127.0.0.1:7663"
	defaultReadHeader      = 5 * time.Second
	defaultShutdownTimeout = 2 * time.Second
)

// Config controls construction of the server.
type Config struct {
	Addr       string
	Controller api.Controller
	// Metrics is mounted at /metrics when set.
	Metrics           http.Handler
	Listener          net.Listener
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server exposes the supervised project's status and metrics over HTTP.
type Server struct {
	ctrl            api.Controller
	srv             *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
}

// NewServer constructs a Server with defaults filled in.
func NewServer(cfg Config) (*Server, error) {
	if isNilController(cfg.Controller) {
		return nil, fmt.Errorf("controller is required (got %T)", cfg.Controller)
	}
	mux := http.NewServeMux()
	srv := &http.Server{
		Addr:              normalizeAddr(cfg.Addr),
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	if srv.ReadHeaderTimeout == 0 {
		srv.ReadHeaderTimeout = defaultReadHeader
	}
	server := &Server{
		ctrl:            cfg.Controller,
		srv:             srv,
		listener:        cfg.Listener,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if server.shutdownTimeout == 0 {
		server.shutdownTimeout = defaultShutdownTimeout
	}
	server.registerRoutes(mux, cfg.Metrics)
	return server, nil
}

// Listen binds the listen address unless a listener was supplied. It lets
// callers learn the final address before Run.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}
	s.listener = ln
	return nil
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx stdcontext.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := stdcontext.WithTimeout(stdcontext.Background(), s.shutdownTimeout)
			defer cancel()
			_ = s.srv.Shutdown(shutdownCtx)
		case <-stop:
		}
	}()

	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	err := <-errCh
	close(stop)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.srv.Addr
}

func (s *Server) registerRoutes(mux *http.ServeMux, metrics http.Handler) {
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/services/", s.handleService)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	report, err := s.ctrl.Status(r.Context())
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	name := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/api/v1/services/"))
	if name == "" || strings.Contains(name, "/") {
		s.writeError(w, fmt.Errorf("%w: invalid service path", api.ErrUnknownService), map[string]any{"service": name})
		return
	}
	report, err := s.ctrl.Status(r.Context())
	if err != nil {
		s.writeError(w, err, map[string]any{"service": name})
		return
	}
	svc, ok := report.Service(name)
	if !ok {
		s.writeError(w, fmt.Errorf("%w: %s", api.ErrUnknownService, name), map[string]any{"service": name})
		return
	}
	s.writeJSON(w, http.StatusOK, svc)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, method string) {
	w.Header().Set("Allow", method)
	s.writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Code:    "method_not_allowed",
		Message: fmt.Sprintf("method %s not allowed", method),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error, details map[string]any) {
	status, code := classifyError(err)
	s.writeJSON(w, status, errorBody{Code: code, Message: err.Error(), Details: details})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, stdcontext.Canceled):
		return 499, "context_canceled"
	case errors.Is(err, api.ErrUnknownService):
		return http.StatusNotFound, "unknown_service"
	case errors.Is(err, api.ErrUnknownProject):
		return http.StatusNotFound, "unknown_project"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func normalizeAddr(addr string) string {
	if strings.TrimSpace(addr) == "" {
		return defaultAddr
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func isNilController(ctrl api.Controller) bool {
	if ctrl == nil {
		return true
	}
	v := reflect.ValueOf(ctrl)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
