package logging

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	Convey("Levels are parsed", t, func() {
		logger, err := New("debug", true)
		So(err, ShouldBeNil)
		So(logger.Core().Enabled(zapcore.DebugLevel), ShouldBeTrue)

		logger, err = New("", false)
		So(err, ShouldBeNil)
		So(logger.Core().Enabled(zapcore.DebugLevel), ShouldBeFalse)
		So(logger.Core().Enabled(zapcore.InfoLevel), ShouldBeTrue)
	})

	Convey("Unknown levels are rejected", t, func() {
		_, err := New("chatty", false)
		So(err, ShouldNotBeNil)
	})

	Convey("A nil logger becomes a no-op", t, func() {
		So(OrNop(nil), ShouldNotBeNil)
		So(OrNop(nil).Core().Enabled(zapcore.ErrorLevel), ShouldBeFalse)
	})
}
