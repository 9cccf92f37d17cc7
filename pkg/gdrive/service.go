package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	listFields     = "nextPageToken, files(id, name, mimeType, modifiedTime)"
	metadataFields = "mimeType, name"
	listOrder      = "modifiedTime desc"

	directDownloadURL = "https://drive.google.com/uc?id=%s&export=download"
)

// AuthProvider supplies the authenticated HTTP client used for Drive calls
type AuthProvider interface {
	HTTPClient(ctx context.Context) *http.Client
}

// Service handles Google Drive operations
type Service struct {
	driveService *drive.Service
}

// NewService creates a new Google Drive service. The underlying drive client
// is built once and reused for every call.
func NewService(ctx context.Context, authProvider AuthProvider, opts ...option.ClientOption) (*Service, error) {
	if authProvider == nil {
		return nil, fmt.Errorf("auth provider is required")
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(authProvider.HTTPClient(ctx))}, opts...)
	driveService, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Service{
		driveService: driveService,
	}, nil
}

// ListFiles lists files in a folder whose MIME type contains one of the given
// prefixes and that were modified after modifiedAfter, newest first.
// Only the first page of results is fetched.
func (s *Service) ListFiles(ctx context.Context, folderID string, mimePrefixes []string, modifiedAfter time.Time) (*FileList, error) {
	query := BuildQuery(folderID, mimePrefixes, modifiedAfter)

	res, err := s.driveService.Files.List().
		Q(query).
		Fields(listFields).
		OrderBy(listOrder).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	result := &FileList{
		Files:         make([]File, 0, len(res.Files)),
		NextPageToken: res.NextPageToken,
	}
	for _, f := range res.Files {
		result.Files = append(result.Files, File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
		})
	}

	return result, nil
}

// GetFileMetadata gets the name and MIME type of a file
func (s *Service) GetFileMetadata(ctx context.Context, fileID string) (*File, error) {
	file, err := s.driveService.Files.Get(fileID).
		Fields(metadataFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	return &File{
		ID:       fileID,
		Name:     file.Name,
		MimeType: file.MimeType,
	}, nil
}

// GetFileContent downloads the whole content of a file into memory
func (s *Service) GetFileContent(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.driveService.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}

	return content, nil
}

// About returns the email address of the authenticated account
func (s *Service) About(ctx context.Context) (string, error) {
	about, err := s.driveService.About.Get().Fields("user").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get account info: %w", err)
	}
	if about.User == nil {
		return "", nil
	}
	return about.User.EmailAddress, nil
}

// BuildQuery builds the files.list search query for a folder listing
func BuildQuery(folderID string, mimePrefixes []string, modifiedAfter time.Time) string {
	clauses := []string{fmt.Sprintf("'%s' in parents", escapeQueryValue(folderID))}

	if len(mimePrefixes) > 0 {
		mimeClauses := make([]string, 0, len(mimePrefixes))
		for _, prefix := range mimePrefixes {
			mimeClauses = append(mimeClauses, fmt.Sprintf("mimeType contains '%s'", escapeQueryValue(prefix)))
		}
		clauses = append(clauses, "("+strings.Join(mimeClauses, " or ")+")")
	}

	if !modifiedAfter.IsZero() {
		clauses = append(clauses, fmt.Sprintf("modifiedTime > '%s'", modifiedAfter.UTC().Format(time.RFC3339)))
	}

	return strings.Join(clauses, " and ")
}

// DirectDownloadURL returns the public download link for a file
func DirectDownloadURL(fileID string) string {
	return fmt.Sprintf(directDownloadURL, fileID)
}

// escapeQueryValue escapes a string literal for the Drive query language
func escapeQueryValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
