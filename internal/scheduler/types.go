package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vfa-khuongdv/gdrive-stories/pkg/notification"
)

// Checker reports whether the upstream storage provider is reachable
type Checker interface {
	About(ctx context.Context) (string, error)
}

// Dispatcher delivers notification messages
type Dispatcher interface {
	SendNotification(message *notification.Message) []notification.NotificationResult
}

// Status is the outcome of the most recent probe
type Status struct {
	Checked   bool      `json:"checked"`
	Healthy   bool      `json:"healthy"`
	Account   string    `json:"account,omitempty"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	DownSince time.Time `json:"down_since,omitempty"`
	Next      time.Time `json:"next,omitempty"`
}

// JobInfo contains information about a scheduled job
type JobInfo struct {
	Name     string       `json:"name"`
	EntryID  cron.EntryID `json:"entry_id"`
	Next     time.Time    `json:"next"`
	Previous time.Time    `json:"previous"`
}
