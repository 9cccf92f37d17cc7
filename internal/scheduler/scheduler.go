package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vfa-khuongdv/gdrive-stories/pkg/notification"
)

const (
	probeJobName = "drive-probe"
	probeTimeout = 30 * time.Second
)

var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Service periodically probes Google Drive and keeps the last result
type Service struct {
	cron       *cron.Cron
	checker    Checker
	dispatcher Dispatcher
	folderID   string
	log        zerolog.Logger
	now        func() time.Time

	mutex   sync.RWMutex
	status  Status
	entryID cron.EntryID
	started bool
}

// NewService creates a new probe scheduler. dispatcher may be nil when no
// notification channel is configured.
func NewService(checker Checker, dispatcher Dispatcher, folderID string, log zerolog.Logger) *Service {
	return &Service{
		cron:       cron.New(cron.WithParser(cronParser)),
		checker:    checker,
		dispatcher: dispatcher,
		folderID:   folderID,
		log:        log.With().Str("component", "scheduler").Logger(),
		now:        time.Now,
	}
}

// Start schedules the probe with the given cron expression and starts the
// scheduler. An empty expression leaves probing disabled.
func (s *Service) Start(expression string) error {
	if expression == "" {
		s.log.Info().Msg("Drive probe disabled")
		return nil
	}

	if err := ValidateCronExpression(expression); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	entryID, err := s.cron.AddFunc(expression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		s.RunProbe(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.entryID = entryID
	s.started = true
	s.cron.Start()

	s.log.Info().Str("schedule", expression).Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running probe to finish
func (s *Service) Stop() {
	s.mutex.RLock()
	started := s.started
	s.mutex.RUnlock()

	if !started {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// RunProbe checks Drive once, records the result and sends a notification
// when the result differs from the previous one.
func (s *Service) RunProbe(ctx context.Context) Status {
	account, err := s.checker.About(ctx)
	checkedAt := s.now()

	s.mutex.Lock()
	previous := s.status
	current := Status{
		Checked:   true,
		Healthy:   err == nil,
		Account:   account,
		CheckedAt: checkedAt,
	}
	if err != nil {
		current.Error = err.Error()
		current.Account = previous.Account
		current.DownSince = previous.DownSince
		if previous.Healthy || !previous.Checked {
			current.DownSince = checkedAt
		}
	}
	s.status = current
	s.mutex.Unlock()

	if err != nil {
		s.log.Error().Err(err).Msg("Drive probe failed")
	} else {
		s.log.Debug().Str("account", account).Msg("Drive probe succeeded")
	}

	wasHealthy := !previous.Checked || previous.Healthy
	if wasHealthy != current.Healthy {
		s.notify(previous, current)
	}

	return current
}

// Status returns the last probe result
func (s *Service) Status() Status {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	status := s.status
	if s.started {
		status.Next = s.cron.Entry(s.entryID).Next
	}
	return status
}

// GetScheduledJobs returns information about currently scheduled jobs
func (s *Service) GetScheduledJobs() []JobInfo {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.started {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	return []JobInfo{{
		Name:     probeJobName,
		EntryID:  s.entryID,
		Next:     entry.Next,
		Previous: entry.Prev,
	}}
}

func (s *Service) notify(previous, current Status) {
	if s.dispatcher == nil {
		return
	}

	data := &notification.ProbeNotificationData{
		Account:   current.Account,
		FolderID:  s.folderID,
		CheckedAt: current.CheckedAt,
	}

	var message *notification.Message
	if current.Healthy {
		data.DownSince = previous.DownSince
		message = notification.CreateProbeRecoveredMessage(data)
	} else {
		data.ErrorMessage = current.Error
		message = notification.CreateProbeFailedMessage(data)
	}

	for _, result := range s.dispatcher.SendNotification(message) {
		if !result.Success {
			s.log.Warn().Str("name", result.Name).Str("error", result.Error).Msg("Probe notification not delivered")
		}
	}
}

// ValidateCronExpression validates a cron expression
func ValidateCronExpression(expr string) error {
	_, err := cronParser.Parse(expr)
	return err
}
