package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tracedapp/tracedapp/pkg/config"
	"github.com/tracedapp/tracedapp/pkg/fixtures"
	"github.com/tracedapp/tracedapp/pkg/httputil"
	"github.com/tracedapp/tracedapp/pkg/logging"
	"github.com/tracedapp/tracedapp/pkg/simulate"
)

// Handler routes requests to the simulated endpoints. The route table is
// fixed at construction; dispatch is exact-match on method and path.
type Handler struct {
	mux      *http.ServeMux
	routes   []string
	sim      config.SimulationConfig
	injector *simulate.Injector
	log      *slog.Logger
}

// handlerFunc is an endpoint handler that reports failure by returning an
// error instead of writing its own error response.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// NewHandler creates the handler with all routes registered.
func NewHandler(sim config.SimulationConfig, injector *simulate.Injector) *Handler {
	h := &Handler{
		mux:      http.NewServeMux(),
		sim:      sim,
		injector: injector,
		log:      logging.Nop(),
	}

	h.route("/", h.handleHome)
	h.route("/health", h.handleHealth)
	h.route("/api/users", h.handleUsers)
	h.route("/api/orders", h.handleOrders)
	h.route("/api/slow", h.handleSlow)
	h.route("/api/error", h.handleError)

	return h
}

// route registers a GET endpoint and records it in the route table so the
// root listing always matches what is actually dispatchable.
func (h *Handler) route(path string, fn handlerFunc) {
	pattern := "GET " + path
	if path == "/" {
		pattern = "GET /{$}" // exact match, not a catch-all subtree
	}
	h.mux.Handle(pattern, h.translate(fn))
	h.routes = append(h.routes, path)
}

// ServeHTTP dispatches to the matching endpoint. Unmatched requests get the
// router's plain 404 (or 405 for a known path with the wrong method); those
// are routing behavior, not simulated faults, and bypass error translation.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Routes returns the registered paths in registration order.
func (h *Handler) Routes() []string {
	out := make([]string, len(h.routes))
	copy(out, h.routes)
	return out
}

// SetLogger sets the operational logger used by the error boundary.
func (h *Handler) SetLogger(log *slog.Logger) {
	if log != nil {
		h.log = log
	}
}

// translate is the single error boundary: any error returned by a handler,
// and any panic escaping one, becomes a 500 with an {"error": message}
// body. Handlers never write error responses themselves.
func (h *Handler) translate(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.log.Error("handler panic", "method", r.Method, "path", r.URL.Path, "panic", rec)
				httputil.WriteInternalError(w, fmt.Sprintf("%v", rec))
			}
		}()

		if err := fn(w, r); err != nil {
			if errors.Is(err, simulate.ErrSimulated) {
				h.log.Warn("simulated failure", "path", r.URL.Path)
			} else {
				h.log.Error("handler error", "path", r.URL.Path, "error", err)
			}
			httputil.WriteInternalError(w, err.Error())
		}
	})
}

// ---------------------------------------------------------------------------
// Endpoint handlers
// ---------------------------------------------------------------------------

type homeResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
}

type healthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}

type usersResponse struct {
	Users []fixtures.User `json:"users"`
	Count int             `json:"count"`
}

type ordersResponse struct {
	Orders []fixtures.Order `json:"orders"`
	Count  int              `json:"count"`
}

type slowResponse struct {
	Message      string  `json:"message"`
	DelaySeconds float64 `json:"delay_seconds"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// handleHome returns the welcome message and the registered route table.
func (h *Handler) handleHome(w http.ResponseWriter, _ *http.Request) error {
	httputil.WriteOK(w, homeResponse{
		Message:   "Welcome to the traced web app!",
		Endpoints: h.Routes(),
	})
	return nil
}

// handleHealth is the liveness probe. The timestamp is epoch seconds,
// computed fresh on every call.
func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	httputil.WriteOK(w, healthResponse{
		Status:    "healthy",
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
	})
	return nil
}

// handleUsers serves the user fixtures after a short simulated lookup delay.
func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.injector.Delay(r.Context(), h.sim.Users); err != nil {
		return fmt.Errorf("users delay: %w", err)
	}

	users := fixtures.Users()
	httputil.WriteOK(w, usersResponse{Users: users, Count: len(users)})
	return nil
}

// handleOrders serves the order fixtures after a short simulated lookup delay.
func (h *Handler) handleOrders(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.injector.Delay(r.Context(), h.sim.Orders); err != nil {
		return fmt.Errorf("orders delay: %w", err)
	}

	orders := fixtures.Orders()
	httputil.WriteOK(w, ordersResponse{Orders: orders, Count: len(orders)})
	return nil
}

// handleSlow injects a long delay and reports the drawn value back to the
// caller.
func (h *Handler) handleSlow(w http.ResponseWriter, r *http.Request) error {
	delay, err := h.injector.Delay(r.Context(), h.sim.Slow)
	if err != nil {
		return fmt.Errorf("slow delay: %w", err)
	}

	httputil.WriteOK(w, slowResponse{
		Message:      "Slow response completed",
		DelaySeconds: delay.Seconds(),
	})
	return nil
}

// handleError fails probabilistically. The failure is raised as an error and
// left for the translation boundary; on the lucky path a plain message is
// returned.
func (h *Handler) handleError(w http.ResponseWriter, _ *http.Request) error {
	if h.injector.ShouldFail(h.sim.Error.FailureProbability) {
		return simulate.ErrSimulated
	}

	httputil.WriteOK(w, messageResponse{Message: "No error this time!"})
	return nil
}
