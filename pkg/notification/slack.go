package notification

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// SlackNotifier implements the Notifier interface for Slack
type SlackNotifier struct {
	config SlackConfig
	client *resty.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	client := resty.New().
		SetTimeout(sendTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	return &SlackNotifier{
		config: config,
		client: client,
	}
}

// SlackWebhookPayload represents the payload structure for Slack webhooks
type SlackWebhookPayload struct {
	Channel     string            `json:"channel,omitempty"`
	Username    string            `json:"username,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment represents an attachment in Slack message
type SlackAttachment struct {
	Color     string       `json:"color,omitempty"`
	Title     string       `json:"title,omitempty"`
	Text      string       `json:"text,omitempty"`
	Fields    []SlackField `json:"fields,omitempty"`
	Footer    string       `json:"footer,omitempty"`
	Timestamp int64        `json:"ts,omitempty"`
}

// SlackField represents a field in Slack attachment
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Send sends a notification message to Slack
func (s *SlackNotifier) Send(message *Message) error {
	if s.config.WebhookURL == "" {
		return fmt.Errorf("webhook_url is required for Slack")
	}

	resp, err := s.client.R().
		SetBody(s.createPayload(message)).
		Post(s.config.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode())
	}

	return nil
}

// GetChannelType returns the notification channel type
func (s *SlackNotifier) GetChannelType() NotificationChannel {
	return ChannelSlack
}

// createPayload creates a Slack webhook payload from a message
func (s *SlackNotifier) createPayload(message *Message) *SlackWebhookPayload {
	attachment := SlackAttachment{
		Color:     s.getColorForType(message.Type),
		Title:     message.Title,
		Text:      message.Text,
		Footer:    footerText,
		Timestamp: message.Timestamp.Unix(),
	}

	for _, key := range sortedKeys(message.Fields) {
		attachment.Fields = append(attachment.Fields, SlackField{
			Title: key,
			Value: fmt.Sprintf("%v", message.Fields[key]),
			Short: true,
		})
	}

	if message.Source != "" {
		attachment.Fields = append(attachment.Fields, SlackField{
			Title: "Source",
			Value: message.Source,
			Short: true,
		})
	}

	return &SlackWebhookPayload{
		Channel:     s.config.Channel,
		Username:    s.config.Username,
		IconEmoji:   s.config.IconEmoji,
		Attachments: []SlackAttachment{attachment},
	}
}

// getColorForType returns an appropriate color for the message type
func (s *SlackNotifier) getColorForType(msgType MessageType) string {
	switch msgType {
	case MessageTypeSuccess:
		return "good"
	case MessageTypeError:
		return "danger"
	case MessageTypeWarning:
		return "warning"
	case MessageTypeInfo:
		return "#36a64f"
	default:
		return "#808080"
	}
}
