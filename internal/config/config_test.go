package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/Xarpp/ChallongeExportData/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have the nominal loop timings", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Format, convey.ShouldEqual, config.FormatSolo)
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.Notifier, convey.ShouldEqual, config.NotifierLog)
			convey.So(cfg.PollInterval(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.StartPollInterval(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.RetryDelay(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.MaxRetryDelay(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.NotifySpacing(), convey.ShouldEqual, time.Second)
		})

		convey.Convey("Then it is invalid until a tournament is named", func() {
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
			cfg.Tournament = "rxl9401c"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
