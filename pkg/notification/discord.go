package notification

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DiscordNotifier implements the Notifier interface for Discord
type DiscordNotifier struct {
	config DiscordConfig
	client *resty.Client
}

// NewDiscordNotifier creates a new Discord notifier
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	client := resty.New().
		SetTimeout(sendTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", userAgent)

	return &DiscordNotifier{
		config: config,
		client: client,
	}
}

// DiscordWebhookPayload represents the payload structure for Discord webhooks
type DiscordWebhookPayload struct {
	Username  string         `json:"username,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Content   string         `json:"content,omitempty"`
	Embeds    []DiscordEmbed `json:"embeds,omitempty"`
}

// DiscordEmbed represents an embed in Discord message
type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      *DiscordEmbedFooter `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

// DiscordEmbedField represents a field in Discord embed
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// DiscordEmbedFooter represents footer in Discord embed
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// Send sends a notification message to Discord
func (d *DiscordNotifier) Send(message *Message) error {
	if d.config.WebhookURL == "" {
		return fmt.Errorf("webhook_url is required for Discord")
	}

	resp, err := d.client.R().
		SetBody(d.createPayload(message)).
		Post(d.config.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	// Discord answers 204 No Content on success
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("discord webhook returned status %d", resp.StatusCode())
	}

	return nil
}

// GetChannelType returns the notification channel type
func (d *DiscordNotifier) GetChannelType() NotificationChannel {
	return ChannelDiscord
}

// createPayload creates a Discord webhook payload from a message
func (d *DiscordNotifier) createPayload(message *Message) *DiscordWebhookPayload {
	embed := DiscordEmbed{
		Title:       message.Title,
		Description: message.Text,
		Color:       d.getColorForType(message.Type),
		Timestamp:   message.Timestamp.Format(time.RFC3339),
		Footer: &DiscordEmbedFooter{
			Text: footerText,
		},
	}

	for _, key := range sortedKeys(message.Fields) {
		embed.Fields = append(embed.Fields, DiscordEmbedField{
			Name:   key,
			Value:  fmt.Sprintf("%v", message.Fields[key]),
			Inline: true,
		})
	}

	if message.Source != "" {
		embed.Fields = append(embed.Fields, DiscordEmbedField{
			Name:   "Source",
			Value:  message.Source,
			Inline: true,
		})
	}

	return &DiscordWebhookPayload{
		Username:  d.config.Username,
		AvatarURL: d.config.AvatarURL,
		Embeds:    []DiscordEmbed{embed},
	}
}

// getColorForType returns an appropriate color for the message type
func (d *DiscordNotifier) getColorForType(msgType MessageType) int {
	switch msgType {
	case MessageTypeSuccess:
		return 0x00FF00
	case MessageTypeError:
		return 0xFF0000
	case MessageTypeWarning:
		return 0xFFFF00
	default:
		return 0x0099FF
	}
}
