package notification

import (
	"fmt"
	"time"
)

// CreateProbeFailedMessage creates a message for a Drive probe that started failing
func CreateProbeFailedMessage(data *ProbeNotificationData) *Message {
	fields := map[string]interface{}{
		"Folder": data.FolderID,
		"Error":  data.ErrorMessage,
	}
	if data.Account != "" {
		fields["Account"] = data.Account
	}

	return &Message{
		Type:      MessageTypeError,
		Title:     "Google Drive unreachable",
		Text:      "The stories API can no longer reach Google Drive. Listing and media requests will fail.",
		Fields:    fields,
		Timestamp: checkedAt(data),
		Source:    "probe",
	}
}

// CreateProbeRecoveredMessage creates a message for a Drive probe that recovered
func CreateProbeRecoveredMessage(data *ProbeNotificationData) *Message {
	fields := map[string]interface{}{
		"Folder": data.FolderID,
	}
	if data.Account != "" {
		fields["Account"] = data.Account
	}
	if !data.DownSince.IsZero() {
		fields["Downtime"] = checkedAt(data).Sub(data.DownSince).Round(time.Second).String()
	}

	return &Message{
		Type:      MessageTypeSuccess,
		Title:     "Google Drive reachable again",
		Text:      fmt.Sprintf("The stories API reached Google Drive at %s.", checkedAt(data).UTC().Format(time.RFC3339)),
		Fields:    fields,
		Timestamp: checkedAt(data),
		Source:    "probe",
	}
}

func checkedAt(data *ProbeNotificationData) time.Time {
	if data.CheckedAt.IsZero() {
		return time.Now()
	}
	return data.CheckedAt
}
