package server

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestEventKind_String(t *testing.T) {
	assert.Equal(t, "listen", EventListen.String())
	assert.Equal(t, "listening", EventListening.String())
	assert.Equal(t, "browser_open", EventBrowserOpen.String())
	assert.Equal(t, "access_token", EventAccessToken.String())
	assert.Equal(t, "error", EventError.String())
	assert.Equal(t, "close", EventClose.String())
	assert.Equal(t, "unknown", EventKind(42).String())
}

func TestMultiSink(t *testing.T) {
	var got []string
	sink := MultiSink{
		EventSinkFunc(func(e Event) { got = append(got, "a:"+e.Kind.String()) }),
		nil,
		EventSinkFunc(func(e Event) { got = append(got, "b:"+e.Kind.String()) }),
	}
	sink.HandleEvent(Event{Kind: EventClose})
	assert.Equal(t, []string{"a:close", "b:close"}, got)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewLogSink(zap.New(core))

	sink.HandleEvent(Event{Kind: EventBrowserOpen, URL: "https://id.twitch.tv/oauth2/authorize?state=secret"})
	sink.HandleEvent(Event{Kind: EventAccessToken, Token: &Token{AccessToken: "ABC", Scope: "chat:read"}})
	sink.HandleEvent(Event{Kind: EventError, Err: ErrLoginTimeout})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "events", entries[0].LoggerName)
	assert.Equal(t, "https://id.twitch.tv/oauth2/authorize?state=REDACTED", entries[0].ContextMap()["url"])
	assert.Equal(t, "chat:read", entries[1].ContextMap()["scope"])
	assert.NotContains(t, entries[1].ContextMap(), "access_token")
	assert.Equal(t, zap.WarnLevel, entries[2].Level)
	assert.Equal(t, "LOGIN_TIMEOUT", entries[2].ContextMap()["kind"])
}

func TestMetricsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewMetricsSink(reg)
	require.NoError(t, err)

	sink.HandleEvent(Event{Kind: EventListen})
	sink.HandleEvent(Event{Kind: EventListen})
	sink.HandleEvent(Event{Kind: EventAccessToken, Token: &Token{}, Elapsed: 3 * time.Second})
	sink.HandleEvent(Event{Kind: EventError, Err: ErrInvalidState, Elapsed: time.Second})
	sink.HandleEvent(Event{Kind: EventError, Err: &Error{Kind: KindBrowserOpen, Err: errors.New("no display")}})

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.events.WithLabelValues("listen")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.events.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.errors.WithLabelValues("INVALID_STATE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.errors.WithLabelValues("BROWSER_OPEN_FAILED")))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.loginDuration))

	_, err = NewMetricsSink(reg)
	require.Error(t, err, "collectors cannot be registered twice")
}
