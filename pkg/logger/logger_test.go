package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given a logger initialized with a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging at info", func() {
			Get().Info(context.Background(), "search finished", String("mode", "similar"), Int("matches", 10))

			Convey("Then the message and fields are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "search finished")
				So(out, ShouldContainSubstring, "mode=similar")
				So(out, ShouldContainSubstring, "matches=10")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When logging at debug with the default level", func() {
			Get().Debug(context.Background(), "covariance fallback")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("debug"), ShouldBeNil)
			Get().Debug(context.Background(), "covariance fallback", String("reason", "singular"))

			Convey("Then debug output is written", func() {
				So(buf.String(), ShouldContainSubstring, "reason=singular")
			})
		})
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithJSON(true)), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When a named logger with fields logs an error", func() {
			Named("engine").With(String("group", "Winger")).Error(context.Background(), "failed", Error(errors.New("boom")), Bool("gated", true))

			Convey("Then the JSON line carries the group and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"failed"`)
				So(out, ShouldContainSubstring, `"engine"`)
				So(out, ShouldContainSubstring, `"group":"Winger"`)
				So(out, ShouldContainSubstring, `"gated":true`)
				So(out, ShouldContainSubstring, "boom")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " INFO "} {
				So(SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("Then unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Convey("Then Sync never fails", func() {
			So(Sync(), ShouldBeNil)
		})
	})
}
