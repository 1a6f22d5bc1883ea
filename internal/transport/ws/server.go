// Package ws serves the realtime chat transport. One WebSocket session is
// bound to a user and thread at hello time; chat turns stream their
// pipeline trace live, and tool confirmation gates are resolved in-band
// with confirm messages.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/maliksaad1/ai-surrogate/internal/config"
	"github.com/maliksaad1/ai-surrogate/internal/domain"
	"github.com/maliksaad1/ai-surrogate/internal/protocol"
	"github.com/maliksaad1/ai-surrogate/internal/service"
)

// turnTimeout bounds one chat turn or confirm resubmission.
const turnTimeout = 60 * time.Second

const defaultThreadTitle = "New Conversation"

// helloTimeout bounds the store work done during the handshake.
const helloTimeout = 5 * time.Second

type session struct {
	UserID   string
	ThreadID string
}

// Server handles WebSocket connections.
type Server struct {
	cfg      *config.Config
	hub      *Hub
	svc      *service.Service
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

// NewServer creates a WebSocket server and wires its session cleanup into
// the hub.
func NewServer(cfg *config.Config, h *Hub, svc *service.Service) *Server {
	s := &Server{
		cfg:      cfg,
		hub:      h,
		svc:      svc,
		sessions: make(map[string]*session),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checks are delegated to the api_key handshake.
				return true
			},
		},
	}
	h.SessionClosed = s.dropSession
	return s
}

// HandleWebSocket upgrades the request and starts the connection pumps.
func (s *Server) HandleWebSocket(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}

	conn := s.hub.NewConnection(ws)
	s.hub.Register(conn)
	ws.SetReadLimit(s.cfg.MaxMessageSize)

	go s.writePump(conn)
	go s.readPump(conn)
	return nil
}

// readPump reads messages from the WebSocket connection. Handlers run on
// this goroutine; anything slow must hop onto its own.
func (s *Server) readPump(conn *Connection) {
	defer func() {
		s.hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		return nil
	})

	for {
		_, message, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn_id", conn.ID).Msg("websocket read failed")
			}
			break
		}
		s.handleMessage(conn, message)
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings.
func (s *Server) writePump(conn *Connection) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if !ok {
				// Hub closed the channel.
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().Err(err).Str("conn_id", conn.ID).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches incoming messages by type.
func (s *Server) handleMessage(conn *Connection, data []byte) {
	var msg protocol.BaseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid JSON message")
		return
	}

	switch msg.Type {
	case protocol.TypeHello:
		s.handleHello(conn, data)
	case protocol.TypeChat:
		s.handleChat(conn, data)
	case protocol.TypeConfirm:
		s.handleConfirm(conn, data)
	default:
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "unknown message type: "+msg.Type)
	}
}

// handleHello authenticates the client and binds the connection to a user
// and thread. A missing thread_id starts a fresh thread.
func (s *Server) handleHello(conn *Connection, data []byte) {
	var msg protocol.HelloMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid hello message")
		return
	}

	if s.cfg.APIKey != "" && msg.APIKey != s.cfg.APIKey {
		s.sendError(conn, protocol.ErrorCodeUnauthorized, "invalid api_key")
		return
	}

	userID := msg.UserID
	if userID == "" {
		userID = "default_user"
	}

	ctx, cancel := context.WithTimeout(context.Background(), helloTimeout)
	defer cancel()

	threadID := msg.ThreadID
	if threadID == "" {
		thread, err := s.svc.CreateThread(ctx, userID, defaultThreadTitle)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("failed to create session thread")
			s.sendError(conn, protocol.ErrorCodeInternalError, "failed to create thread")
			return
		}
		threadID = thread.ThreadID
	} else if _, err := s.svc.GetThread(ctx, userID, threadID); err != nil {
		if errors.Is(err, service.ErrThreadNotFound) {
			s.sendError(conn, protocol.ErrorCodeInvalidMessage, "thread not found")
		} else {
			s.sendError(conn, protocol.ErrorCodeInternalError, "failed to load thread")
		}
		return
	}

	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = "sess_" + uuid.New().String()[:8]
	}

	s.mu.Lock()
	s.sessions[sessionID] = &session{UserID: userID, ThreadID: threadID}
	s.mu.Unlock()
	s.hub.BindSession(conn, sessionID)

	s.hub.SendJSONToConnection(conn, protocol.HelloAckMessage{
		BaseMessage: base(protocol.TypeHelloAck, sessionID),
		UserID:      userID,
		ThreadID:    threadID,
	})
	log.Info().
		Str("session_id", sessionID).
		Str("user_id", userID).
		Str("thread_id", threadID).
		Msg("session established")
}

// handleChat runs one user turn through the pipeline, streaming trace
// entries to the session as they happen.
func (s *Server) handleChat(conn *Connection, data []byte) {
	var msg protocol.ChatMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid chat message")
		return
	}
	if conn.SessionID == "" {
		s.sendError(conn, protocol.ErrorCodeSessionRequired, "must send hello first")
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "content is required")
		return
	}
	sessionID := conn.SessionID
	sess := s.session(sessionID)
	if sess == nil {
		s.sendError(conn, protocol.ErrorCodeSessionRequired, "session expired, send hello again")
		return
	}

	// Run the turn off the read loop so pings keep flowing.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		res, err := s.svc.SendMessage(ctx, service.SendMessageInput{
			UserID:   sess.UserID,
			ThreadID: sess.ThreadID,
			Message:  msg.Content,
			Sink: func(entry domain.ExecutionTraceEntry) {
				s.hub.BroadcastJSON(sessionID, protocol.TraceMessage{
					BaseMessage: base(protocol.TypeTrace, sessionID),
					Entry:       entry,
				})
			},
		})
		if err != nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
			s.sendErrorToSession(sessionID, protocol.ErrorCodePipelineFail, err.Error())
			return
		}

		s.hub.BroadcastJSON(sessionID, protocol.ResponseMessage{
			BaseMessage: base(protocol.TypeResponse, sessionID),
			ThreadID:    sess.ThreadID,
			Data:        res.Response,
		})
		if res.Response.RequiresConfirmation && res.Response.ToolResult != nil {
			s.hub.BroadcastJSON(sessionID, protocol.ConfirmationRequiredMessage{
				BaseMessage: base(protocol.TypeConfirmationRequired, sessionID),
				Tool:        res.Response.ToolUsed,
				Prompt:      res.Response.ToolResult.ConfirmationPrompt,
				Params:      res.Response.ToolResult.Data,
			})
		}
	}()
}

// handleConfirm resubmits a gated tool call with the client's decision.
// Declined calls come back still gated, without side effects.
func (s *Server) handleConfirm(conn *Connection, data []byte) {
	var msg protocol.ConfirmMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "invalid confirm message")
		return
	}
	if conn.SessionID == "" {
		s.sendError(conn, protocol.ErrorCodeSessionRequired, "must send hello first")
		return
	}
	if msg.Tool == "" {
		s.sendError(conn, protocol.ErrorCodeInvalidMessage, "tool is required")
		return
	}
	sessionID := conn.SessionID
	sess := s.session(sessionID)
	if sess == nil {
		s.sendError(conn, protocol.ErrorCodeSessionRequired, "session expired, send hello again")
		return
	}

	params := msg.Params
	if params == nil {
		params = map[string]any{}
	}
	params["confirmed"] = msg.Confirmed

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()

		res := s.svc.ExecuteTool(ctx, msg.Tool, params, domain.ToolExecutionContext{
			UserID:   sess.UserID,
			ThreadID: sess.ThreadID,
		})
		s.hub.BroadcastJSON(sessionID, protocol.ToolResultMessage{
			BaseMessage: base(protocol.TypeToolResult, sessionID),
			Tool:        msg.Tool,
			Result:      res,
		})
	}()
}

func (s *Server) session(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Server) dropSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

func (s *Server) sendError(conn *Connection, code, message string) {
	s.hub.SendJSONToConnection(conn, protocol.ErrorMessage{
		BaseMessage: base(protocol.TypeError, conn.SessionID),
		Code:        code,
		Message:     message,
	})
}

func (s *Server) sendErrorToSession(sessionID, code, message string) {
	s.hub.BroadcastJSON(sessionID, protocol.ErrorMessage{
		BaseMessage: base(protocol.TypeError, sessionID),
		Code:        code,
		Message:     message,
	})
}

func base(msgType, sessionID string) protocol.BaseMessage {
	return protocol.BaseMessage{
		Type:      msgType,
		Ts:        time.Now().UnixMilli(),
		SessionID: sessionID,
	}
}
