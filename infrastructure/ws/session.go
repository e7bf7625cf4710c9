package ws

import (
	"log/slog"
	"sync"
	"time"

	"social-club/domain"
	"social-club/errors"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is one authenticated socket. It implements contract.Connection.
// Pushes are queued on a bounded buffer drained by the write pump; a full buffer
// closes the session instead of blocking the pusher.
type Session struct {
	id     string
	userID string
	conn   *websocket.Conn
	log    *slog.Logger
	send   chan []byte
	done   chan struct{}

	mu        sync.RWMutex
	state     domain.SessionState
	closeOnce sync.Once
	closeCode int
	closeText string
}

func newSession(userID string, conn *websocket.Conn, bufferSize int, log *slog.Logger) *Session {
	s := &Session{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, bufferSize),
		done:   make(chan struct{}),
		state:  domain.SessionConnecting,
	}
	s.log = log.With("session_id", s.id, "user_id", userID)
	return s
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

func (s *Session) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) transition(next domain.SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.CanTransitionTo(next) {
		return false
	}
	s.log.Debug("Session state changed", "from", s.state.String(), "to", next.String())
	s.state = next
	return true
}

func (s *Session) Push(frame []byte) error {
	select {
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case s.send <- frame:
		return nil
	case <-s.done:
		return errors.ErrConnectionClosed
	default:
		s.log.Warn("Send buffer full, closing session", "buffered", len(s.send))
		s.Close(websocket.CloseTryAgainLater, "send buffer full")
		return errors.ErrSendBufferFull
	}
}

// Close is idempotent. The write pump sends the close frame and releases the socket.
func (s *Session) Close(code int, text string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closeCode, s.closeText = code, text
		s.mu.Unlock()
		close(s.done)
		s.transition(domain.SessionDisconnected)
	})
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) writePump(writeWait, pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.log.Debug("Write failed", "error", err)
				s.Close(websocket.CloseAbnormalClosure, "")
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close(websocket.CloseAbnormalClosure, "")
				return
			}
		case <-s.done:
			s.mu.RLock()
			code, text := s.closeCode, s.closeText
			s.mu.RUnlock()
			if code != websocket.CloseAbnormalClosure {
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(code, text), time.Now().Add(writeWait))
			}
			return
		}
	}
}
