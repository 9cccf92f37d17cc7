// Package stories lists the images and videos of a Drive folder modified
// within a recent window. Each record carries a direct download URL under
// the JSON key "webContentLink".
package stories

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vfa-khuongdv/gdrive-stories/pkg/gdrive"
)

// DefaultWindow is how far back a file's modification may lie to be listed
const DefaultWindow = 48 * time.Hour

// MediaPrefixes are the MIME type prefixes of files exposed as stories
var MediaPrefixes = []string{"image/", "video/"}

// DriveClient is the subset of the Drive service the listing needs
type DriveClient interface {
	ListFiles(ctx context.Context, folderID string, mimePrefixes []string, modifiedAfter time.Time) (*gdrive.FileList, error)
}

// Record is a single story returned by the listing.
// Records are built fresh for every request.
type Record struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime"`
	DownloadURL  string `json:"webContentLink"`
}

// Service lists recent images and videos of one Drive folder
type Service struct {
	drive    DriveClient
	folderID string
	window   time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a new listing service. A non-positive window falls back
// to DefaultWindow.
func NewService(drive DriveClient, folderID string, window time.Duration, log zerolog.Logger) *Service {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Service{
		drive:    drive,
		folderID: folderID,
		window:   window,
		now:      time.Now,
		log:      log.With().Str("component", "stories").Logger(),
	}
}

// Cutoff returns the earliest modification time a listed file may have
func (s *Service) Cutoff() time.Time {
	return s.now().UTC().Add(-s.window)
}

// List returns the folder's images and videos modified after the cutoff,
// most recently modified first. Only the first upstream page is returned.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	cutoff := s.Cutoff()

	result, err := s.drive.ListFiles(ctx, s.folderID, MediaPrefixes, cutoff)
	if err != nil {
		return nil, err
	}

	if result.NextPageToken != "" {
		s.log.Debug().Int("returned", len(result.Files)).Msg("Listing truncated to the first page")
	}

	records := make([]Record, 0, len(result.Files))
	for _, file := range result.Files {
		if !isMedia(file.MimeType) {
			s.log.Warn().Str("id", file.ID).Str("mime_type", file.MimeType).Msg("Skipping non-media file")
			continue
		}

		modified, err := time.Parse(time.RFC3339Nano, file.ModifiedTime)
		if err != nil || !modified.After(cutoff) {
			s.log.Warn().Str("id", file.ID).Str("modified_time", file.ModifiedTime).Msg("Skipping file outside window")
			continue
		}

		records = append(records, Record{
			ID:           file.ID,
			Name:         file.Name,
			MimeType:     file.MimeType,
			ModifiedTime: file.ModifiedTime,
			DownloadURL:  gdrive.DirectDownloadURL(file.ID),
		})
	}

	return records, nil
}

func isMedia(mimeType string) bool {
	for _, prefix := range MediaPrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
