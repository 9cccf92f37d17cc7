package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSlackNotifier(t *testing.T) {
	config := SlackConfig{
		WebhookURL: "https://hooks.slack.com/test",
		Channel:    "#stories",
		Username:   "stories-bot",
		IconEmoji:  ":robot_face:",
	}

	notifier := NewSlackNotifier(config)
	assert.NotNil(t, notifier)
	assert.NotNil(t, notifier.client)
	assert.Equal(t, config, notifier.config)
}

func TestSlackNotifier_GetChannelType(t *testing.T) {
	notifier := NewSlackNotifier(SlackConfig{WebhookURL: "https://hooks.slack.com/test"})
	assert.Equal(t, ChannelSlack, notifier.GetChannelType())
}

func TestSlackNotifier_Send(t *testing.T) {
	tests := []struct {
		name           string
		message        *Message
		serverResponse int
		expectError    bool
	}{
		{
			name: "successful send",
			message: &Message{
				Type:      MessageTypeSuccess,
				Title:     "Test Title",
				Text:      "Test message",
				Timestamp: time.Now(),
				Source:    "probe",
				Fields: map[string]interface{}{
					"key1": "value1",
					"key2": 123,
				},
			},
			serverResponse: http.StatusOK,
			expectError:    false,
		},
		{
			name: "server error",
			message: &Message{
				Type:      MessageTypeError,
				Title:     "Error Title",
				Text:      "Error message",
				Timestamp: time.Now(),
			},
			serverResponse: http.StatusInternalServerError,
			expectError:    true,
		},
		{
			name: "bad request",
			message: &Message{
				Type:      MessageTypeWarning,
				Title:     "Warning Title",
				Text:      "Warning message",
				Timestamp: time.Now(),
			},
			serverResponse: http.StatusBadRequest,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
				assert.Equal(t, http.MethodPost, r.Method)

				var payload SlackWebhookPayload
				err := json.NewDecoder(r.Body).Decode(&payload)
				assert.NoError(t, err)
				assert.Len(t, payload.Attachments, 1)
				assert.Equal(t, "#test", payload.Channel)
				assert.Equal(t, tt.message.Title, payload.Attachments[0].Title)

				w.WriteHeader(tt.serverResponse)
			}))
			defer server.Close()

			notifier := NewSlackNotifier(SlackConfig{
				WebhookURL: server.URL,
				Channel:    "#test",
				Username:   "test-bot",
			})

			err := notifier.Send(tt.message)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSlackNotifier_Send_MissingWebhook(t *testing.T) {
	notifier := NewSlackNotifier(SlackConfig{})

	err := notifier.Send(&Message{Title: "Test", Timestamp: time.Now()})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "webhook_url is required")
}

func TestSlackNotifier_Send_NetworkError(t *testing.T) {
	notifier := NewSlackNotifier(SlackConfig{
		WebhookURL: "http://127.0.0.1:1/invalid",
	})

	err := notifier.Send(&Message{
		Type:      MessageTypeInfo,
		Title:     "Test",
		Text:      "Test message",
		Timestamp: time.Now(),
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
}

func TestSlackNotifier_createPayload(t *testing.T) {
	notifier := NewSlackNotifier(SlackConfig{
		WebhookURL: "https://hooks.slack.com/test",
		Channel:    "#general",
		Username:   "stories-bot",
		IconEmoji:  ":robot_face:",
	})

	timestamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := notifier.createPayload(&Message{
		Type:      MessageTypeError,
		Title:     "Google Drive unreachable",
		Text:      "Listing failed",
		Timestamp: timestamp,
		Source:    "probe",
		Fields: map[string]interface{}{
			"Folder": "folder-1",
			"Error":  "boom",
		},
	})

	assert.Equal(t, "#general", payload.Channel)
	assert.Equal(t, "stories-bot", payload.Username)
	assert.Equal(t, ":robot_face:", payload.IconEmoji)
	assert.Len(t, payload.Attachments, 1)

	attachment := payload.Attachments[0]
	assert.Equal(t, "danger", attachment.Color)
	assert.Equal(t, footerText, attachment.Footer)
	assert.Equal(t, timestamp.Unix(), attachment.Timestamp)
	assert.Equal(t, []SlackField{
		{Title: "Error", Value: "boom", Short: true},
		{Title: "Folder", Value: "folder-1", Short: true},
		{Title: "Source", Value: "probe", Short: true},
	}, attachment.Fields)
}

func TestSlackNotifier_getColorForType(t *testing.T) {
	notifier := &SlackNotifier{}

	assert.Equal(t, "good", notifier.getColorForType(MessageTypeSuccess))
	assert.Equal(t, "danger", notifier.getColorForType(MessageTypeError))
	assert.Equal(t, "warning", notifier.getColorForType(MessageTypeWarning))
	assert.Equal(t, "#36a64f", notifier.getColorForType(MessageTypeInfo))
	assert.Equal(t, "#808080", notifier.getColorForType("unknown"))
}
