package gdrive

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/api/option"
)

// MockAuthProvider is a mock implementation of the auth provider
type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) HTTPClient(ctx context.Context) *http.Client {
	args := m.Called(ctx)
	return args.Get(0).(*http.Client)
}

// ServiceTestSuite runs the gdrive service against a fake Drive API
type ServiceTestSuite struct {
	suite.Suite
	server   *httptest.Server
	mux      *http.ServeMux
	mockAuth *MockAuthProvider
	service  *Service
}

func (suite *ServiceTestSuite) SetupTest() {
	suite.mux = http.NewServeMux()
	suite.server = httptest.NewServer(suite.mux)

	suite.mockAuth = &MockAuthProvider{}
	suite.mockAuth.On("HTTPClient", mock.Anything).Return(suite.server.Client())

	service, err := NewService(context.Background(), suite.mockAuth, option.WithEndpoint(suite.server.URL+"/"))
	suite.Require().NoError(err)
	suite.service = service
}

func (suite *ServiceTestSuite) TearDownTest() {
	suite.server.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    404,
			"message": "File not found: missing.",
		},
	})
}

func (suite *ServiceTestSuite) TestNewService_NilAuthProvider() {
	service, err := NewService(context.Background(), nil)
	suite.Error(err)
	suite.Nil(service)
	suite.Contains(err.Error(), "auth provider is required")
}

func (suite *ServiceTestSuite) TestNewService_UsesAuthClient() {
	suite.mockAuth.AssertCalled(suite.T(), "HTTPClient", mock.Anything)
}

func (suite *ServiceTestSuite) TestListFiles_Success() {
	cutoff := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	suite.mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		suite.Equal("'folder-1' in parents and (mimeType contains 'image/' or mimeType contains 'video/') and modifiedTime > '2025-03-01T10:00:00Z'", q.Get("q"))
		suite.Equal("modifiedTime desc", q.Get("orderBy"))
		suite.Equal(listFields, q.Get("fields"))
		suite.Empty(q.Get("pageToken"))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"nextPageToken": "token-2",
			"files": []map[string]string{
				{"id": "b", "name": "b.mp4", "mimeType": "video/mp4", "modifiedTime": "2025-03-02T09:00:00.000Z"},
				{"id": "a", "name": "a.jpg", "mimeType": "image/jpeg", "modifiedTime": "2025-03-01T11:00:00.000Z"},
			},
		})
	})

	result, err := suite.service.ListFiles(context.Background(), "folder-1", []string{"image/", "video/"}, cutoff)
	suite.Require().NoError(err)
	suite.Equal("token-2", result.NextPageToken)
	suite.Equal([]File{
		{ID: "b", Name: "b.mp4", MimeType: "video/mp4", ModifiedTime: "2025-03-02T09:00:00.000Z"},
		{ID: "a", Name: "a.jpg", MimeType: "image/jpeg", ModifiedTime: "2025-03-01T11:00:00.000Z"},
	}, result.Files)
}

func (suite *ServiceTestSuite) TestListFiles_Empty() {
	suite.mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	})

	result, err := suite.service.ListFiles(context.Background(), "folder-1", nil, time.Time{})
	suite.Require().NoError(err)
	suite.NotNil(result.Files)
	suite.Empty(result.Files)
}

func (suite *ServiceTestSuite) TestListFiles_APIError() {
	suite.mux.HandleFunc("/files", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"error": map[string]interface{}{"code": 403, "message": "Insufficient Permission"},
		})
	})

	result, err := suite.service.ListFiles(context.Background(), "folder-1", nil, time.Now())
	suite.Error(err)
	suite.Nil(result)
	suite.Contains(err.Error(), "failed to list files")
	suite.Contains(err.Error(), "Insufficient Permission")
}

func (suite *ServiceTestSuite) TestGetFileMetadata_Success() {
	suite.mux.HandleFunc("/files/file-1", func(w http.ResponseWriter, r *http.Request) {
		suite.Empty(r.URL.Query().Get("alt"))
		suite.Equal(metadataFields, r.URL.Query().Get("fields"))
		writeJSON(w, http.StatusOK, map[string]string{"name": "clip.mp4", "mimeType": "video/mp4"})
	})

	file, err := suite.service.GetFileMetadata(context.Background(), "file-1")
	suite.Require().NoError(err)
	suite.Equal(&File{ID: "file-1", Name: "clip.mp4", MimeType: "video/mp4"}, file)
}

func (suite *ServiceTestSuite) TestGetFileMetadata_NotFound() {
	suite.mux.HandleFunc("/files/missing", func(w http.ResponseWriter, r *http.Request) {
		notFound(w)
	})

	file, err := suite.service.GetFileMetadata(context.Background(), "missing")
	suite.Error(err)
	suite.Nil(file)
	suite.Contains(err.Error(), "failed to get file metadata")
}

func (suite *ServiceTestSuite) TestGetFileContent_Success() {
	content := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}
	suite.mux.HandleFunc("/files/file-1", func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("media", r.URL.Query().Get("alt"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(content)
	})

	data, err := suite.service.GetFileContent(context.Background(), "file-1")
	suite.Require().NoError(err)
	suite.Equal(content, data)
}

func (suite *ServiceTestSuite) TestGetFileContent_NotFound() {
	suite.mux.HandleFunc("/files/missing", func(w http.ResponseWriter, r *http.Request) {
		notFound(w)
	})

	data, err := suite.service.GetFileContent(context.Background(), "missing")
	suite.Error(err)
	suite.Nil(data)
	suite.Contains(err.Error(), "failed to download file")
}

func (suite *ServiceTestSuite) TestAbout() {
	suite.mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user": map[string]string{"emailAddress": "stories@project.iam.gserviceaccount.com"},
		})
	})

	email, err := suite.service.About(context.Background())
	suite.Require().NoError(err)
	suite.Equal("stories@project.iam.gserviceaccount.com", email)
}

func (suite *ServiceTestSuite) TestAbout_Error() {
	suite.mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error": map[string]interface{}{"code": 401, "message": "Invalid Credentials"},
		})
	})

	_, err := suite.service.About(context.Background())
	suite.Error(err)
	suite.Contains(err.Error(), "failed to get account info")
}

func TestBuildQuery(t *testing.T) {
	cutoff := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("UTC+7", 7*3600))

	tests := []struct {
		name     string
		folderID string
		prefixes []string
		after    time.Time
		expected string
	}{
		{
			name:     "folder only",
			folderID: "abc",
			expected: "'abc' in parents",
		},
		{
			name:     "media prefixes and cutoff in UTC",
			folderID: "abc",
			prefixes: []string{"image/", "video/"},
			after:    cutoff,
			expected: "'abc' in parents and (mimeType contains 'image/' or mimeType contains 'video/') and modifiedTime > '2025-01-01T20:04:05Z'",
		},
		{
			name:     "quotes are escaped",
			folderID: `it's\here`,
			prefixes: []string{"image/"},
			expected: `'it\'s\\here' in parents and (mimeType contains 'image/')`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildQuery(tt.folderID, tt.prefixes, tt.after))
		})
	}
}

func TestDirectDownloadURL(t *testing.T) {
	assert.Equal(t, "https://drive.google.com/uc?id=1AbC&export=download", DirectDownloadURL("1AbC"))
	assert.Equal(t, "https://drive.google.com/uc?id=&export=download", DirectDownloadURL(""))

	for _, id := range []string{"x", "1-_z", "with space"} {
		require.True(t, strings.HasPrefix(DirectDownloadURL(id), "https://drive.google.com/uc?id="+id))
		require.True(t, strings.HasSuffix(DirectDownloadURL(id), "&export=download"))
	}
}
