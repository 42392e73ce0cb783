package server

import (
	"time"

	"go.uber.org/zap"
)

// EventKind identifies a listener lifecycle event.
type EventKind int

const (
	EventListen      EventKind = iota // Listen was called; Scopes is set.
	EventListening                    // The callback socket is bound; Addr is set.
	EventBrowserOpen                  // The authorize URL is being opened; URL is set.
	EventAccessToken                  // A request was resolved; Token and Elapsed are set.
	EventError                        // A request was rejected or the browser failed to open; Err is set.
	EventClose                        // The callback socket was closed.
)

func (k EventKind) String() string {
	switch k {
	case EventListen:
		return "listen"
	case EventListening:
		return "listening"
	case EventBrowserOpen:
		return "browser_open"
	case EventAccessToken:
		return "access_token"
	case EventError:
		return "error"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is delivered to the EventSink. Which fields are set depends on Kind.
type Event struct {
	Kind    EventKind
	Scopes  []string
	Addr    string
	URL     string
	Token   *Token
	Err     error
	Elapsed time.Duration // Time since the settled request was created.
}

// EventSink observes the listener lifecycle. Events are advisory: sinks cannot
// influence the login flow. HandleEvent is never called with the server lock
// held, but it runs on the goroutine that produced the event and should return quickly.
type EventSink interface {
	HandleEvent(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (f EventSinkFunc) HandleEvent(e Event) { f(e) }

// MultiSink fans an event out to several sinks in order.
type MultiSink []EventSink

func (m MultiSink) HandleEvent(e Event) {
	for _, s := range m {
		if s != nil {
			s.HandleEvent(e)
		}
	}
}

// LogSink writes every event to a zap logger.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a LogSink. A nil logger discards everything.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger.Named("events")}
}

func (s *LogSink) HandleEvent(e Event) {
	fields := []zap.Field{zap.Stringer("event", e.Kind)}
	switch e.Kind {
	case EventListen:
		fields = append(fields, zap.Strings("scopes", e.Scopes))
	case EventListening:
		fields = append(fields, zap.String("addr", e.Addr))
	case EventBrowserOpen:
		fields = append(fields, zap.String("url", redactState(e.URL)))
	case EventAccessToken:
		fields = append(fields, zap.String("scope", e.Token.Scope), zap.Duration("elapsed", e.Elapsed))
	case EventError:
		fields = append(fields, zap.String("kind", string(KindOf(e.Err))), zap.Error(e.Err))
		s.logger.Warn("Auth listener event", fields...)
		return
	}
	s.logger.Info("Auth listener event", fields...)
}
