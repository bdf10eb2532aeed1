package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/TopTalentDev/tutor-booking/utils"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout    = 10 * time.Second
	subscriptionBuf = 8
)

// Channel is the narrow surface the booking session consumes: subscribe to
// named events, send advisory signals. Socket is the production
// implementation.
type Channel interface {
	On(name string) (<-chan Event, func())
	Send(name string, payload any) error
}

// Socket is a websocket client for the marketplace notification channel. One
// reader goroutine fans events out to subscribers; slow subscribers drop
// events rather than stall the channel.
type Socket struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu      sync.Mutex
	subs    map[string]map[int]chan Event
	nextSub int
	closed  bool
	done    chan struct{}
}

// Dial connects to the notification channel. The token, when non-empty, is
// sent as a bearer Authorization header on the upgrade request and repeated
// as the first frame, since some gateways drop upgrade headers.
func Dial(ctx context.Context, wsURL, token string) (*Socket, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return nil, err
	}

	if token != "" {
		auth, _ := json.Marshal(AuthPayload{Token: token})
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(Event{Type: EventAuth, Data: auth}); err != nil {
			conn.Close()
			return nil, err
		}
	}

	s := &Socket{
		conn:   conn,
		logger: utils.GetLogger().Named("realtime"),
		subs:   make(map[string]map[int]chan Event),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// On subscribes to events with the given type name. The returned cancel
// function releases the subscription; it is safe to call more than once.
func (s *Socket) On(name string) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[name] == nil {
		s.subs[name] = make(map[int]chan Event)
	}
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriptionBuf)
	s.subs[name][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subs[name]; ok {
				delete(subs, id)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Send writes an event with the given type and payload.
func (s *Socket) Send(name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return websocket.ErrCloseSent
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(Event{Type: name, Data: data})
}

// Close tears the connection down and wakes the reader.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.conn.Close()
	<-s.done
	return err
}

func (s *Socket) readLoop() {
	defer close(s.done)
	for {
		var ev Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				s.logger.Warn("notification channel read failed", zap.Error(err))
			}
			return
		}
		s.dispatch(ev)
	}
}

func (s *Socket) dispatch(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[ev.Type] {
		select {
		case ch <- ev:
		default:
			s.logger.Warn("dropping event for slow subscriber", zap.String("type", ev.Type))
		}
	}
}
