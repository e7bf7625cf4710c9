// Package ws is the live transport: it authenticates sockets, registers them
// for fan-out and turns send-message frames into chat messages.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"social-club/auth"
	"social-club/contract"
	"social-club/domain"
	"social-club/errors"
	"social-club/protocol"

	"github.com/gorilla/websocket"
)

// MessageSender is the chat operation reachable from a socket.
type MessageSender interface {
	SendMessage(ctx context.Context, senderID, recipientID, content string) (domain.ChatMessage, error)
}

type Options struct {
	SendBuffer     int
	MaxFrameBytes  int64
	WriteWait      time.Duration
	PongWait       time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func (o Options) withDefaults() Options {
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	if o.MaxFrameBytes <= 0 {
		o.MaxFrameBytes = 16 * 1024
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	return o
}

// Gateway upgrades authenticated requests on /ws.
type Gateway struct {
	log      *slog.Logger
	tokens   *auth.TokenManager
	registry contract.IRegistry
	sender   MessageSender
	options  Options
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*Session]struct{}
}

func NewGateway(log *slog.Logger, tokens *auth.TokenManager, registry contract.IRegistry,
	sender MessageSender, options Options) *Gateway {
	options = options.withDefaults()
	g := &Gateway{
		log:      log,
		tokens:   tokens,
		registry: registry,
		sender:   sender,
		options:  options,
		sessions: make(map[*Session]struct{}),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	if len(g.options.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range g.options.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// ServeHTTP rejects a missing or invalid token with 401 before upgrading:
// an unauthenticated socket never reaches the registry.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = auth.BearerToken(r.Header.Get("Authorization"))
	}
	claims, err := g.tokens.Validate(token)
	if err != nil {
		g.log.Debug("Socket rejected", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Debug("Upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	session := newSession(claims.UserID, conn, g.options.SendBuffer, g.log)
	session.transition(domain.SessionAuthenticated)
	g.track(session)
	g.registry.Register(session.UserID(), session)
	session.transition(domain.SessionActive)
	g.log.Info("Session opened", "session_id", session.ID(), "user_id", session.UserID())

	go session.writePump(g.options.WriteWait, g.pingPeriod())
	g.readPump(session)
}

func (g *Gateway) pingPeriod() time.Duration {
	return g.options.PongWait * 9 / 10
}

func (g *Gateway) readPump(session *Session) {
	defer func() {
		g.registry.Unregister(session)
		g.untrack(session)
		session.Close(websocket.CloseNormalClosure, "")
		g.log.Info("Session closed", "session_id", session.ID(), "user_id", session.UserID())
	}()

	conn := session.conn
	conn.SetReadLimit(g.options.MaxFrameBytes)
	_ = conn.SetReadDeadline(time.Now().Add(g.options.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(g.options.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				session.log.Debug("Read failed", "error", err)
			}
			return
		}
		g.handleFrame(session, data)
	}
}

// handleFrame answers failures on the offending session only.
func (g *Gateway) handleFrame(session *Session, data []byte) {
	msg, err := protocol.Decode(data)
	if err != nil {
		_ = session.Push(protocol.ErrorFrame(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.options.RequestTimeout)
	defer cancel()
	if _, err := g.sender.SendMessage(ctx, session.UserID(), msg.RecipientID, msg.Content); err != nil {
		switch errors.CodeOf(err) {
		case errors.CodePersistenceFailed, errors.CodeInternal:
			session.log.Error("Message failed", "recipient_id", msg.RecipientID, "error", err)
		default:
			session.log.Debug("Message refused", "recipient_id", msg.RecipientID, "error", err)
		}
		_ = session.Push(protocol.ErrorFrame(err))
	}
}

func (g *Gateway) track(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sessions[s] = struct{}{}
}

func (g *Gateway) untrack(s *Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, s)
}

// Shutdown closes every open session with a going-away frame.
// Hijacked sockets are not closed by http.Server.Shutdown.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	sessions := make([]*Session, 0, len(g.sessions))
	for s := range g.sessions {
		sessions = append(sessions, s)
	}
	g.mu.Unlock()
	for _, s := range sessions {
		s.Close(websocket.CloseGoingAway, "server shutting down")
	}
}
