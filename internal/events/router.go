// Package events routes backend-pushed events into the toast buffer and
// the domain stores.
package events

import (
	"encoding/json"
	"sync"

	"github.com/Kesomannen/gale/internal/backend"
	"github.com/Kesomannen/gale/internal/state"
	"github.com/Kesomannen/gale/internal/toast"
	"github.com/Kesomannen/gale/pkg/logger"
	"github.com/Kesomannen/gale/pkg/types"
)

// queueSize bounds how many pushed events can be waiting for the
// dispatcher. The reader goroutine blocks once it fills up.
const queueSize = 256

type event struct {
	name    string
	payload json.RawMessage
}

// Router consumes backend events on a single dispatcher goroutine and
// translates each one into a synchronous state mutation. Serializing all
// routing through one goroutine keeps event-driven mutations from
// interleaving with each other.
//
// Register Handle as the backend client's event handler; Start is
// idempotent, so re-wiring after a reconnect cannot double-subscribe.
type Router struct {
	app    *state.App
	toasts *toast.Buffer

	ch        chan event
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewRouter creates a router over the given stores and toast buffer.
func NewRouter(app *state.App, toasts *toast.Buffer) *Router {
	return &Router{
		app:    app,
		toasts: toasts,
		ch:     make(chan event, queueSize),
		done:   make(chan struct{}),
	}
}

// Start launches the dispatcher goroutine. Calling it again is a no-op.
func (r *Router) Start() {
	r.startOnce.Do(func() {
		go r.run()
	})
}

// Stop terminates the dispatcher goroutine.
func (r *Router) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

// Handle enqueues a backend event for routing. It is safe to call from the
// backend client's reader goroutine.
func (r *Router) Handle(name string, payload json.RawMessage) {
	select {
	case r.ch <- event{name: name, payload: payload}:
	case <-r.done:
	}
}

func (r *Router) run() {
	for {
		select {
		case ev := <-r.ch:
			r.route(ev)
		case <-r.done:
			return
		}
	}
}

func (r *Router) route(ev event) {
	switch ev.name {
	case backend.EventError:
		// The payload is already a shaped {name, message} record; it goes
		// straight to the buffer without the invoke layer's error shaping.
		var record types.ErrorRecord
		if !r.decode(ev, &record) {
			return
		}
		r.toasts.PushError(record.Name, record.Message)

	case backend.EventLoadingBarCreate:
		var payload struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		if !r.decode(ev, &payload) {
			return
		}
		r.app.Loading.Create(payload.ID, payload.Title)

	case backend.EventLoadingBarUpdate:
		var payload struct {
			ID       string   `json:"id"`
			Text     *string  `json:"text"`
			Progress *float64 `json:"progress"`
		}
		if !r.decode(ev, &payload) {
			return
		}
		r.app.Loading.Update(payload.ID, payload.Text, payload.Progress)

	case backend.EventLoadingBarClose:
		var id string
		if !r.decode(ev, &id) {
			return
		}
		r.app.Loading.Close(id)

	case backend.EventProfileUpdate:
		var info types.ProfileInfo
		if !r.decode(ev, &info) {
			return
		}
		r.app.Profiles.ApplyUpdate(info)

	default:
		logger.Debugf("events: unhandled event %s", ev.name)
	}
}

func (r *Router) decode(ev event, out any) bool {
	if err := json.Unmarshal(ev.payload, out); err != nil {
		logger.Warnf("events: dropped malformed %s payload: %v", ev.name, err)
		return false
	}
	return true
}
