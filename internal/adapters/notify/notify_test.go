package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/Xarpp/ChallongeExportData/internal/domain/model"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type capturedEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Footer      *struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type webhookRecorder struct {
	mu     sync.Mutex
	paths  []string
	embeds []capturedEmbed
	status int
}

func (r *webhookRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var body struct {
		Embeds []capturedEmbed `json:"embeds"`
	}
	_ = json.NewDecoder(req.Body).Decode(&body)
	r.paths = append(r.paths, req.URL.Path)
	r.embeds = append(r.embeds, body.Embeds...)
	w.WriteHeader(r.status)
	if r.status != http.StatusNoContent {
		_, _ = w.Write([]byte(`{"message": "Invalid Webhook Token", "code": 50027}`))
	}
}

func withWebhookServer(t *testing.T, rec *webhookRecorder) {
	t.Helper()
	srv := httptest.NewServer(rec)
	prev := discordgo.EndpointWebhooks
	discordgo.EndpointWebhooks = srv.URL + "/api/webhooks/"
	t.Cleanup(func() {
		discordgo.EndpointWebhooks = prev
		srv.Close()
	})
}

func TestParseWebhookURL(t *testing.T) {
	Convey("Given webhook URLs", t, func() {
		Convey("When the URL is well formed", func() {
			id, token, err := parseWebhookURL("https://discord.com/api/webhooks/1259248833867550790/KuLu9OzNk")
			So(err, ShouldBeNil)
			So(id, ShouldEqual, "1259248833867550790")
			So(token, ShouldEqual, "KuLu9OzNk")
		})

		Convey("When the URL has no token", func() {
			_, _, err := parseWebhookURL("https://discord.com/api/webhooks/1259248833867550790")
			So(errors.Is(err, ErrInvalidWebhookURL), ShouldBeTrue)
		})

		Convey("When the URL is not a URL", func() {
			_, _, err := parseWebhookURL("not a webhook")
			So(errors.Is(err, ErrInvalidWebhookURL), ShouldBeTrue)
		})
	})
}

func TestDiscordSend(t *testing.T) {
	Convey("Given a Discord webhook", t, func() {
		rec := &webhookRecorder{status: http.StatusNoContent}
		withWebhookServer(t, rec)
		d, err := NewDiscord("https://discord.com/api/webhooks/42/tok", WithColor(0xFFA500))
		So(err, ShouldBeNil)

		Convey("When a message with a footer is sent", func() {
			err := d.Send(context.Background(), model.Message{Title: "Finished match", Description: "(W) a vs b", Footer: "predictions"})

			Convey("Then one coloured embed is posted to the webhook", func() {
				So(err, ShouldBeNil)
				So(rec.paths, ShouldResemble, []string{"/api/webhooks/42/tok"})
				So(rec.embeds, ShouldHaveLength, 1)
				So(rec.embeds[0].Title, ShouldEqual, "Finished match")
				So(rec.embeds[0].Color, ShouldEqual, 0xFFA500)
				So(rec.embeds[0].Footer.Text, ShouldEqual, "predictions")
			})
		})

		Convey("When the webhook rejects the message", func() {
			rec.status = http.StatusBadRequest
			err := d.Send(context.Background(), model.Message{Title: "x"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLogNotifier(t *testing.T) {
	Convey("Given a log notifier", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
		n := NewLogNotifier(logger.Named("notify"))

		So(n.Send(context.Background(), model.Message{Title: "lineup", Description: "alice (1000 TRP)"}), ShouldBeNil)
		So(strings.Contains(buf.String(), "lineup"), ShouldBeTrue)
		So(strings.Contains(buf.String(), "alice (1000 TRP)"), ShouldBeTrue)
	})
}
