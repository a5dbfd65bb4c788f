// SPDX-License-Identifier: MPL-2.0

// Package scheduler is the zero/scheduler component: console commands run
// on cron expressions declared under "schedule.tasks".
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type (
	// Task is one scheduled command.
	Task struct {
		// Spec is the five-field cron expression, e.g. "*/5 * * * *".
		Spec    string
		Command string
		Args    []string

		schedule cron.Schedule
	}

	// Schedule is the set of configured tasks in declared order.
	Schedule struct {
		Tasks []Task
	}
)

// NewTask parses spec with the standard cron parser.
func NewTask(spec, command string, args ...string) (Task, error) {
	if command == "" {
		return Task{}, fmt.Errorf("task %q: command is required", spec)
	}
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return Task{}, fmt.Errorf("task %s: %w", command, err)
	}
	return Task{Spec: spec, Command: command, Args: args, schedule: s}, nil
}

// IsDue reports whether the task fires in the minute containing now.
func (t Task) IsDue(now time.Time) bool {
	minute := now.Truncate(time.Minute)
	return t.schedule.Next(minute.Add(-time.Second)).Equal(minute)
}

// Due returns the tasks firing in the minute containing now.
func (s *Schedule) Due(now time.Time) []Task {
	var due []Task
	for _, t := range s.Tasks {
		if t.IsDue(now) {
			due = append(due, t)
		}
	}
	return due
}

// FromConfig builds a schedule from the raw "schedule.tasks" list: a list of
// maps with "cron", "command" and an optional "args" list.
func FromConfig(raw any) (*Schedule, error) {
	if raw == nil {
		return &Schedule{}, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("schedule.tasks: expected a list, got %T", raw)
	}

	s := &Schedule{Tasks: make([]Task, 0, len(items))}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("schedule.tasks[%d]: expected a map, got %T", i, item)
		}
		spec, _ := m["cron"].(string)
		command, _ := m["command"].(string)
		args, err := stringList(m["args"])
		if err != nil {
			return nil, fmt.Errorf("schedule.tasks[%d].args: %w", i, err)
		}
		t, err := NewTask(spec, command, args...)
		if err != nil {
			return nil, fmt.Errorf("schedule.tasks[%d]: %w", i, err)
		}
		s.Tasks = append(s.Tasks, t)
	}
	return s, nil
}

func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, len(list))
		for i, e := range list {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("expected strings, got %T", e)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}
