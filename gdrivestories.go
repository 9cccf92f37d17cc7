package gdrivestories

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/vfa-khuongdv/gdrive-stories/internal/auth"
	"github.com/vfa-khuongdv/gdrive-stories/internal/config"
	"github.com/vfa-khuongdv/gdrive-stories/internal/media"
	"github.com/vfa-khuongdv/gdrive-stories/internal/scheduler"
	"github.com/vfa-khuongdv/gdrive-stories/internal/server"
	"github.com/vfa-khuongdv/gdrive-stories/internal/stories"
	"github.com/vfa-khuongdv/gdrive-stories/pkg/gdrive"
	"github.com/vfa-khuongdv/gdrive-stories/pkg/notification"
)

// Manager wires the Drive client, the stories and media services, the probe
// scheduler and the HTTP server together.
type Manager struct {
	authService      *auth.Service
	driveService     *gdrive.Service
	storiesService   *stories.Service
	mediaService     *media.Service
	notifier         *notification.Manager
	schedulerService *scheduler.Service
	server           *server.Server
	config           *config.Config
	log              zerolog.Logger
}

// NewManager creates a new manager instance. Extra client options are passed
// to the Drive client.
func NewManager(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...option.ClientOption) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	authService, err := newAuthService(cfg.Google)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	driveService, err := gdrive.NewService(ctx, authService, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize drive service: %w", err)
	}

	notifier := notification.NewManager(log)
	if cfg.Notify.SlackWebhookURL != "" {
		notifier.AddNotifier("slack", notification.NewSlackNotifier(notification.SlackConfig{
			WebhookURL: cfg.Notify.SlackWebhookURL,
			Channel:    cfg.Notify.SlackChannel,
			Username:   cfg.Notify.SlackUsername,
			IconEmoji:  cfg.Notify.SlackIconEmoji,
		}))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		notifier.AddNotifier("discord", notification.NewDiscordNotifier(notification.DiscordConfig{
			WebhookURL: cfg.Notify.DiscordWebhookURL,
			Username:   cfg.Notify.DiscordUsername,
			AvatarURL:  cfg.Notify.DiscordAvatarURL,
		}))
	}

	var dispatcher scheduler.Dispatcher
	if notifier.Len() > 0 {
		dispatcher = notifier
	}

	storiesService := stories.NewService(driveService, cfg.Drive.FolderID, cfg.Stories.Window, log)
	mediaService := media.NewService(driveService)
	schedulerService := scheduler.NewService(driveService, dispatcher, cfg.Drive.FolderID, log)

	handler := server.NewHandler(storiesService, mediaService, schedulerService)

	return &Manager{
		authService:      authService,
		driveService:     driveService,
		storiesService:   storiesService,
		mediaService:     mediaService,
		notifier:         notifier,
		schedulerService: schedulerService,
		server:           server.New(cfg.Server, handler, log),
		config:           cfg,
		log:              log,
	}, nil
}

// newAuthService prefers the inline key and falls back to the key file
func newAuthService(cfg config.GoogleConfig) (*auth.Service, error) {
	if cfg.ServiceAccountJSON != "" {
		return auth.NewService([]byte(cfg.ServiceAccountJSON))
	}
	return auth.NewServiceFromFile(cfg.ServiceAccountFile)
}

// Initialize starts the probe scheduler when probing is enabled
func (m *Manager) Initialize() error {
	if !m.config.Probe.Enabled {
		m.log.Info().Msg("Drive probe disabled")
		return nil
	}

	if err := m.schedulerService.Start(m.config.Probe.Schedule); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	return nil
}

// Serve runs the HTTP server until ctx is cancelled or the server fails
func (m *Manager) Serve(ctx context.Context) error {
	errCh, err := m.server.Start()
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return m.server.Stop(context.Background())
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// Close stops the scheduler
func (m *Manager) Close() error {
	m.schedulerService.Stop()
	m.log.Info().Msg("Manager shut down successfully")
	return nil
}

// ListStories returns the media files modified inside the configured window
func (m *Manager) ListStories(ctx context.Context) ([]stories.Record, error) {
	return m.storiesService.List(ctx)
}

// FetchMedia returns a fully buffered media file
func (m *Manager) FetchMedia(ctx context.Context, fileID string) (*media.Media, error) {
	return m.mediaService.Fetch(ctx, fileID)
}

// Probe checks Drive reachability once
func (m *Manager) Probe(ctx context.Context) scheduler.Status {
	return m.schedulerService.RunProbe(ctx)
}

// GetTokenInfo returns the service account identity in use
func (m *Manager) GetTokenInfo() *auth.TokenInfo {
	return m.authService.GetTokenInfo()
}

// Server returns the HTTP server
func (m *Manager) Server() *server.Server {
	return m.server
}
