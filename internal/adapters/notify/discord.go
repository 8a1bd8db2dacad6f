// Package notify delivers run announcements to humans.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
)

const defaultTimeout = 10 * time.Second

// Option applies a configuration option to the Discord notifier.
type Option func(*Discord)

// WithColor sets the embed side colour.
func WithColor(color int) Option {
	return func(d *Discord) {
		d.color = color
	}
}

// WithHTTPClient replaces the HTTP client used by the session.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Discord) {
		if c != nil {
			d.session.Client = c
		}
	}
}

// Discord posts messages as embeds through a channel webhook.
type Discord struct {
	session *discordgo.Session
	id      string
	token   string
	color   int
}

// NewDiscord builds a notifier for a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
func NewDiscord(webhookURL string, opts ...Option) (*Discord, error) {
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	s.Client = &http.Client{Timeout: defaultTimeout}
	s.MaxRestRetries = 1

	d := &Discord{session: s, id: id, token: token}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Send posts one embed. Any non-success response is returned as an error.
func (d *Discord) Send(ctx context.Context, msg model.Message) error {
	embed := &discordgo.MessageEmbed{
		Title:       msg.Title,
		Description: msg.Description,
		Color:       d.color,
	}
	if msg.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: msg.Footer}
	}
	_, err := d.session.WebhookExecute(d.id, d.token, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

func parseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhookURL, raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidWebhookURL, raw)
}
