// SPDX-License-Identifier: MPL-2.0

// Package events provides the event dispatcher bound into the application
// container and the events the framework itself dispatches.
package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/zero-cli/zero/pkg/contracts"
)

const (
	// BootedEvent is dispatched once bootstrap has completed.
	BootedEvent = "app.booted"
	// CommandStartingEvent is dispatched before a console command runs.
	CommandStartingEvent = "command.starting"
	// CommandFinishedEvent is dispatched after a console command returned.
	CommandFinishedEvent = "command.finished"
)

type (
	// Booted is dispatched after every provider and command is registered.
	Booted struct {
		Name     string
		Commands []string
	}

	// CommandStarting is dispatched right before a command runs.
	CommandStarting struct {
		Name string
		Args []string
	}

	// CommandFinished is dispatched after a command returned, successfully or not.
	CommandFinished struct {
		Name string
		Err  error
	}

	wildcardListeners struct {
		prefix    string
		listeners []contracts.Listener
	}

	// Dispatcher delivers events to listeners registered by exact name or by
	// a trailing-"*" wildcard pattern such as "command.*". Exact listeners run
	// first, then wildcard listeners in registration order.
	Dispatcher struct {
		listeners map[string][]contracts.Listener
		wildcards []*wildcardListeners
	}
)

var _ contracts.Dispatcher = (*Dispatcher)(nil)

// EventName implements contracts.Event.
func (Booted) EventName() string { return BootedEvent }

// EventName implements contracts.Event.
func (CommandStarting) EventName() string { return CommandStartingEvent }

// EventName implements contracts.Event.
func (CommandFinished) EventName() string { return CommandFinishedEvent }

// NewDispatcher creates a dispatcher without listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]contracts.Listener)}
}

// Listen registers listener for name. A name ending in "*" matches every
// event whose name starts with the preceding prefix.
func (d *Dispatcher) Listen(name string, listener contracts.Listener) {
	if prefix, ok := strings.CutSuffix(name, "*"); ok {
		for _, w := range d.wildcards {
			if w.prefix == prefix {
				w.listeners = append(w.listeners, listener)
				return
			}
		}
		d.wildcards = append(d.wildcards, &wildcardListeners{prefix: prefix, listeners: []contracts.Listener{listener}})
		return
	}
	d.listeners[name] = append(d.listeners[name], listener)
}

// Dispatch calls every listener for the event's name in order and stops at
// the first error.
func (d *Dispatcher) Dispatch(ctx context.Context, event contracts.Event) error {
	name := event.EventName()
	for _, l := range d.listenersFor(name) {
		if err := l(ctx, event); err != nil {
			return fmt.Errorf("event %s: %w", name, err)
		}
	}
	return nil
}

// HasListeners reports whether at least one listener would receive name.
func (d *Dispatcher) HasListeners(name string) bool {
	return len(d.listenersFor(name)) > 0
}

// Forget removes the exact listeners of name and the wildcard pattern equal to name.
func (d *Dispatcher) Forget(name string) {
	delete(d.listeners, name)
	prefix, ok := strings.CutSuffix(name, "*")
	if !ok {
		return
	}
	for i, w := range d.wildcards {
		if w.prefix == prefix {
			d.wildcards = append(d.wildcards[:i], d.wildcards[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) listenersFor(name string) []contracts.Listener {
	out := append([]contracts.Listener(nil), d.listeners[name]...)
	for _, w := range d.wildcards {
		if strings.HasPrefix(name, w.prefix) {
			out = append(out, w.listeners...)
		}
	}
	return out
}
