package logger

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoggerWritesFieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, logrus.InfoLevel)

	lg.WithPrefix("module", "export").Infof("wrote %s", "POPCATUSDT_position.png")
	lg.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "module=export")
	assert.Contains(t, out, "POPCATUSDT_position.png")
	assert.NotContains(t, out, "hidden")
}

func TestErrorAttachesStackInDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := New(&buf, logrus.DebugLevel)

	lg.Error("export failed", errors.Wrap(errors.New("canvas"), "rasterize"))

	assert.Contains(t, buf.String(), "stack=")
}

func TestStackPrefersRecordedTrace(t *testing.T) {
	err := errors.WithMessage(errors.New("root"), "outer")
	assert.Contains(t, Stack(err), "TestStackPrefersRecordedTrace")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("nope"))
}
