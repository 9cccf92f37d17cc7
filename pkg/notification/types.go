package notification

import (
	"time"
)

// NotificationChannel represents the type of notification channel
type NotificationChannel string

const (
	ChannelDiscord NotificationChannel = "discord"
	ChannelSlack   NotificationChannel = "slack"
)

// MessageType represents the type of notification message
type MessageType string

const (
	MessageTypeSuccess MessageType = "success"
	MessageTypeError   MessageType = "error"
	MessageTypeInfo    MessageType = "info"
	MessageTypeWarning MessageType = "warning"
)

const (
	userAgent   = "GDrive-Stories/1.0"
	footerText  = "GDrive Stories API"
	sendTimeout = 30 * time.Second
)

// Message represents a notification message to be sent
type Message struct {
	Type      MessageType            `json:"type"`
	Title     string                 `json:"title"`
	Text      string                 `json:"text"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source,omitempty"`
}

// ProbeNotificationData contains upstream probe data for notifications
type ProbeNotificationData struct {
	Account      string    `json:"account,omitempty"`
	FolderID     string    `json:"folder_id"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CheckedAt    time.Time `json:"checked_at"`
	DownSince    time.Time `json:"down_since,omitempty"`
}

// Notifier interface defines the methods that all notification implementations must provide
type Notifier interface {
	// Send sends a notification message
	Send(message *Message) error

	// GetChannelType returns the notification channel type
	GetChannelType() NotificationChannel
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	WebhookURL string `json:"webhook_url"`
	Username   string `json:"username,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// SlackConfig holds Slack-specific configuration
type SlackConfig struct {
	WebhookURL string `json:"webhook_url"`
	Channel    string `json:"channel,omitempty"`
	Username   string `json:"username,omitempty"`
	IconEmoji  string `json:"icon_emoji,omitempty"`
}

// NotificationResult represents the result of sending a notification
type NotificationResult struct {
	Channel NotificationChannel `json:"channel"`
	Name    string              `json:"name"`
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	SentAt  time.Time           `json:"sent_at"`
}
