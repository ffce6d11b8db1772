package log

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupGlobalLogger(t *testing.T) {
	err := SetupGlobalLogger(nil)
	assert.ErrorIs(t, err, errSubloggerConfigIsNil)

	disabled := false
	err = SetupGlobalLogger(&Config{Enabled: &disabled})
	assert.ErrorIs(t, err, errLoggerDisabled)

	c := GenDefaultSettings()
	c.Output = "carrier-pigeon"
	err = SetupGlobalLogger(&c)
	assert.ErrorIs(t, err, errUnhandledOutputWriter)

	c = GenDefaultSettings()
	c.Output = "discard"
	c.SubLoggers = []SubLoggerConfig{{Name: "backtester", Level: "ERROR", Output: "discard"}}
	err = SetupGlobalLogger(&c)
	require.NoError(t, err)
	assert.Equal(t, Levels{Error: true}, BackTester.GetLevels())
	assert.Equal(t, Levels{Info: true, Warn: true, Error: true}, Strategy.GetLevels())

	c.SubLoggers = []SubLoggerConfig{{Name: "nonexistent", Level: "INFO", Output: "discard"}}
	err = SetupGlobalLogger(&c)
	assert.ErrorIs(t, err, errSubLoggerNotFound)
}

func TestSetHook(t *testing.T) {
	sl, err := NewSubLogger("hooked")
	require.NoError(t, err)
	var buf bytes.Buffer
	sl.SetOutput(&buf)
	sl.SetLevels(Levels{Info: true, Warn: true})

	var events []Event
	SetHook(func(e Event) bool {
		events = append(events, e)
		return e.Level == "WARN"
	})
	defer SetHook(nil)
	Info(sl, "kept")
	Warnf(sl, "swallowed %d", 1)
	Debug(sl, "disabled level never reaches the hook")

	require.Len(t, events, 2)
	assert.Equal(t, "INFO", events[0].Level)
	assert.Equal(t, "HOOKED", events[0].SubLogger)
	assert.Equal(t, "swallowed 1", events[1].Message)
	assert.False(t, events[1].Time.IsZero())
	assert.Contains(t, buf.String(), "kept")
	assert.NotContains(t, buf.String(), "swallowed")
}

func TestNewSubLogger(t *testing.T) {
	t.Parallel()
	_, err := NewSubLogger("")
	assert.ErrorIs(t, err, errEmptyLoggerName)

	sl, err := NewSubLogger("testing-new")
	require.NoError(t, err)
	assert.Equal(t, "TESTING-NEW", sl.Name())

	_, err = NewSubLogger("TESTING-NEW")
	assert.ErrorIs(t, err, errSubLoggerAlreadyRegistered)

	got, err := GetSubLogger("testing-new")
	require.NoError(t, err)
	assert.Same(t, sl, got)

	_, err = GetSubLogger("nope")
	assert.ErrorIs(t, err, errSubLoggerNotFound)
}

func TestLevelsAndOutput(t *testing.T) {
	t.Parallel()
	sl, err := NewSubLogger("levels")
	require.NoError(t, err)

	Infof(sl, "not %s", "written")

	var buf bytes.Buffer
	sl.SetOutput(&buf)
	sl.SetLevels(Levels{Info: true, Error: true})

	Infof(sl, "hello %s", "world")
	Debugf(sl, "should not appear")
	Warnln(sl, "nor", "this")
	Errorln(sl, "kaboom")

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "kaboom")
	assert.NotContains(t, out, "should not appear")
	assert.NotContains(t, out, "nor this")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNilSubLogger(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() {
		Info(nil, "nothing")
		Errorf(nil, "nothing %v", 1)
	})
}

func TestSplitLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Levels{Info: true, Debug: true, Warn: true, Error: true}, splitLevel("INFO|DEBUG|WARN|ERROR"))
	assert.Equal(t, Levels{Warn: true}, splitLevel("warn"))
	assert.Equal(t, Levels{}, splitLevel(""))
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) - 1, nil }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestMultiWriter(t *testing.T) {
	t.Parallel()
	var a, b bytes.Buffer
	mw, err := MultiWriter(&a, &b)
	require.NoError(t, err)

	err = mw.Add(&a)
	assert.ErrorIs(t, err, errWriterAlreadyLoaded)

	n, err := mw.Write([]byte("data"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "data", a.String())
	assert.Equal(t, "data", b.String())

	require.NoError(t, mw.Add(shortWriter{}))
	require.NoError(t, mw.Add(failingWriter{}))
	var c bytes.Buffer
	require.NoError(t, mw.Add(&c))
	_, err = mw.Write([]byte("more"))
	assert.ErrorIs(t, err, io.ErrShortWrite)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, "more", c.String(), "a failing writer must not starve the ones after it")
}
