package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Xarpp/ChallongeExportData/internal/adapters/notify"
	"github.com/Xarpp/ChallongeExportData/internal/adapters/repository"
	app "github.com/Xarpp/ChallongeExportData/internal/app"
	"github.com/Xarpp/ChallongeExportData/internal/config"
	"github.com/Xarpp/ChallongeExportData/pkg/logger"
)

func TestWiring(t *testing.T) {
	convey.Convey("Given default configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When opening the store", func() {
			var buf bytes.Buffer
			convey.So(logger.Init(logger.WithOutput(&buf)), convey.ShouldBeNil)
			store, err := openStore(ctx, cfg, logger.Get())

			convey.Convey("Then the memory store is used and flagged as volatile", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := store.(*repository.MemoryStore)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(buf.String(), convey.ShouldContainSubstring, "memory store in use")
				convey.So(buf.String(), convey.ShouldContainSubstring, "level=WARN")
			})
		})

		convey.Convey("When choosing the console stream", func() {
			convey.So(logOutput(cfg), convey.ShouldEqual, os.Stdout)
			cfg.LogOutput = config.LogOutputStderr
			convey.So(logOutput(cfg), convey.ShouldEqual, os.Stderr)
		})

		convey.Convey("When building the notifier", func() {
			n, err := newNotifier(cfg, logger.Nop())

			convey.Convey("Then announcements go to the log", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := n.(*notify.LogNotifier)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When discord is selected with a bad webhook", func() {
			cfg.Notifier = config.NotifierDiscord
			cfg.WebhookURL = "https://example.com/not-a-webhook"
			_, err := newNotifier(cfg, logger.Nop())

			convey.Convey("Then building fails", func() {
				convey.So(errors.Is(err, notify.ErrInvalidWebhookURL), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When serving the status API", func() {
			svc := app.New(cfg.Tournament, nil, repository.NewMemoryStore(), notify.NewLogNotifier(logger.Nop()))
			srv := newHTTPServer(ctx, cfg, svc)

			convey.Convey("Then the routes answer", func() {
				convey.So(srv.Addr, convey.ShouldEqual, ":9080")
				for _, path := range []string{"/stats", "/standings", "/matches", "/healthz"} {
					w := httptest.NewRecorder()
					srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
					convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				}
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/competitors/nobody", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})
	})
}
