// Package health provides readiness state tracking and HTTP health check
// handlers for the gateway's HTTP transport.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// State constants for the readiness state machine.
const (
	stateStarting int32 = iota
	stateReady
	stateDraining
)

// Pinger verifies connectivity to the backing database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker tracks the readiness state of the gateway. When a Pinger is
// supplied, readiness also requires a reachable database.
// It is safe for concurrent use.
type Checker struct {
	state  atomic.Int32
	pinger Pinger
}

// NewChecker creates a Checker in the Starting state. pinger may be nil,
// in which case readiness depends on state alone.
func NewChecker(pinger Pinger) *Checker {
	return &Checker{pinger: pinger}
}

// SetReady transitions to the Ready state.
func (c *Checker) SetReady() {
	c.state.Store(stateReady)
}

// SetDraining transitions to the Draining state.
func (c *Checker) SetDraining() {
	c.state.Store(stateDraining)
}

// IsReady returns true when the state is Ready.
func (c *Checker) IsReady() bool {
	return c.state.Load() == stateReady
}

// State returns the current state as a human-readable string.
func (c *Checker) State() string {
	switch c.state.Load() {
	case stateReady:
		return "ready"
	case stateDraining:
		return "draining"
	default:
		return "starting"
	}
}

// healthResponse is the JSON body returned by health endpoints.
type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// LivenessHandler returns an http.HandlerFunc that always responds 200 OK.
// Use this for K8s livenessProbe (/healthz).
func (*Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadinessHandler returns an http.HandlerFunc that responds 200 when the
// gateway is ready and its database is reachable, 503 otherwise.
// Use this for K8s readinessProbe (/readyz).
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.IsReady() {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: c.State()})
			return
		}
		if c.pinger != nil {
			if err := c.pinger.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, healthResponse{
					Status: "database unreachable",
					Error:  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, healthResponse{Status: c.State()})
	}
}

func writeJSON(w http.ResponseWriter, code int, v healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
