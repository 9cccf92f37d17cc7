package media

import (
	"context"
	"errors"

	"github.com/vfa-khuongdv/gdrive-stories/pkg/gdrive"
)

const defaultMimeType = "application/octet-stream"

// ErrMissingFileID is returned when no file id is given
var ErrMissingFileID = errors.New("missing file ID")

// DriveClient is the subset of the Drive service the relay needs
type DriveClient interface {
	GetFileContent(ctx context.Context, fileID string) ([]byte, error)
	GetFileMetadata(ctx context.Context, fileID string) (*gdrive.File, error)
}

// Media is a fully buffered file ready to be served
type Media struct {
	Name     string
	MimeType string
	Content  []byte
}

// Service relays file content from Drive
type Service struct {
	drive DriveClient
}

// NewService creates a new media relay
func NewService(drive DriveClient) *Service {
	return &Service{
		drive: drive,
	}
}

// Fetch downloads the whole file into memory and then reads its metadata.
func (s *Service) Fetch(ctx context.Context, fileID string) (*Media, error) {
	if fileID == "" {
		return nil, ErrMissingFileID
	}

	content, err := s.drive.GetFileContent(ctx, fileID)
	if err != nil {
		return nil, err
	}

	metadata, err := s.drive.GetFileMetadata(ctx, fileID)
	if err != nil {
		return nil, err
	}

	mimeType := metadata.MimeType
	if mimeType == "" {
		mimeType = defaultMimeType
	}

	return &Media{
		Name:     metadata.Name,
		MimeType: mimeType,
		Content:  content,
	}, nil
}
