package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hazz-dev/svcboard/internal/dashboard"
	"github.com/hazz-dev/svcboard/internal/directory"
	"github.com/hazz-dev/svcboard/internal/logging"
	"github.com/hazz-dev/svcboard/internal/metrics"
	"github.com/hazz-dev/svcboard/internal/view"
)

// FailureCounter reports recent mutation failures for the health endpoint.
type FailureCounter interface {
	FailureCount(ctx context.Context, since time.Time) (int, error)
}

// Deps are the collaborators a Server is built from. Journal and Metrics are optional.
type Deps struct {
	Controller   *view.Controller
	DirectoryURL string
	Journal      FailureCounter
	Metrics      *metrics.Registry
}

// Server holds the chi router and its dependencies.
type Server struct {
	deps   Deps
	router chi.Router
	logger *zap.SugaredLogger

	limitersMu sync.Mutex
	limiters   map[string]*visitor
	lastSweep  time.Time
	now        func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterIdle is how long a client's limiter survives without requests.
const limiterIdle = 3 * time.Minute

// New creates a new Server and registers all routes. Pass nil logger to discard logs.
func New(deps Deps, logger *zap.SugaredLogger) *Server {
	s := &Server{
		deps:     deps,
		router:   chi.NewRouter(),
		logger:   logging.OrNop(logger),
		limiters: make(map[string]*visitor),
		now:      time.Now,
	}
	s.registerRoutes()
	return s
}

// Router returns the chi router (for mounting or testing).
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler())
	}
	r.Handle("/static/*", http.StripPrefix("/static/", dashboard.Handler()))

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Post("/services", s.handleCreate)
		r.Post("/services/delete", s.handleDeleteForm)
		r.Delete("/services/{id}", s.handleDelete)
	})
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := &view.Table{}
	s.deps.Controller.Load(requestContext(r), page)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err := dashboard.Render(w, dashboard.Index{
		Title:        "svcboard",
		DirectoryURL: s.deps.DirectoryURL,
		Rows:         page.Rows,
	})
	if err != nil {
		s.logger.Errorw("rendering dashboard", "error", err)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	page := &view.Table{}
	s.deps.Controller.Submit(requestContext(r), r.PostForm, page)
	s.reload(w, r, page)
}

// handleDeleteForm reads the id from the posted form so it reaches the
// directory byte for byte.
func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id := directory.ID(r.PostFormValue(view.FieldID))
	if id == "" {
		http.Error(w, "missing service id", http.StatusBadRequest)
		return
	}
	s.deleteAndReload(w, r, id)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil || id == "" {
		http.Error(w, "invalid service id", http.StatusBadRequest)
		return
	}
	s.deleteAndReload(w, r, id)
}

func (s *Server) deleteAndReload(w http.ResponseWriter, r *http.Request, id directory.ID) {
	page := &view.Table{}
	s.deps.Controller.Delete(requestContext(r), id, page)
	s.reload(w, r, page)
}

// pathID unescapes the id segment of /services/{id} from the escaped path.
// chi routes on RawPath only when it is set, so its param is not reliably
// decoded once.
func pathID(r *http.Request) (directory.ID, error) {
	seg := strings.TrimPrefix(r.URL.EscapedPath(), "/services/")
	id, err := url.PathUnescape(seg)
	if err != nil {
		return "", err
	}
	return directory.ID(id), nil
}

// reload answers a settled mutation by sending the browser back to a fresh dashboard.
func (s *Server) reload(w http.ResponseWriter, r *http.Request, page *view.Table) {
	if page.Reloads == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type healthResponse struct {
	Status         string `json:"status"`
	FailedLastHour *int   `json:"failed_actions_last_hour,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.deps.Journal != nil {
		n, err := s.deps.Journal.FailureCount(r.Context(), time.Now().Add(-time.Hour))
		if err != nil {
			s.logger.Warnw("counting failed actions", "error", err)
		} else {
			resp.FailedLastHour = &n
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// requestContext carries the chi request id through to directory calls.
func requestContext(r *http.Request) context.Context {
	ctx := r.Context()
	if id := middleware.GetReqID(ctx); id != "" {
		ctx = directory.WithRequestID(ctx, id)
	}
	return ctx
}

// --- Middleware ---

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		if m := s.deps.Metrics; m != nil {
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()
		}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		if m := s.deps.Metrics; m != nil {
			m.HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(duration.Seconds())
		}
		s.logger.Infow("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", sw.status,
			"duration", duration,
		)
	})
}

// rateLimit throttles mutating requests per client IP: 5/s, burst 10.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !s.limiter(ip).Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limiter(ip string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) > limiterIdle {
		for k, v := range s.limiters {
			if now.Sub(v.lastSeen) > limiterIdle {
				delete(s.limiters, k)
			}
		}
		s.lastSweep = now
	}

	v, ok := s.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(5, 10)}
		s.limiters[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}
