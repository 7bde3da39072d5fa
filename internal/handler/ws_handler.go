package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/conceptdelta/examdesk/internal/middleware"
	"github.com/conceptdelta/examdesk/internal/service"
	ws "github.com/conceptdelta/examdesk/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the live attempt over WebSocket: the client sends
// answer/navigation actions, the server pushes a state snapshot after each
// accepted action and once per countdown tick.
type WSHandler struct {
	attemptService *service.AttemptService
	pushInterval   time.Duration
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, pushInterval time.Duration, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		pushInterval:   pushInterval,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/attempt/stream?token=...
// Upgrades to WebSocket for the live attempt. Requires an attempt started
// over HTTP first.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if _, err := h.attemptService.View(claims.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active attempt"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(raw)
	defer conn.Close()

	userID := claims.UserID
	wsLog := h.log.With().Int("user_id", userID).Logger()
	wsLog.Info().Msg("Attempt stream connected")

	// Tick pusher: one snapshot per countdown interval until the attempt
	// ends or the connection drops.
	pushCtx, cancelPush := context.WithCancel(context.Background())
	defer cancelPush()
	go h.pushStates(pushCtx, conn, userID, cancelPush)

	for {
		var msg ws.Request
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionSelect:
			h.handleSelect(conn, userID, &msg)
		case ws.ActionNavigate:
			h.handleNavigate(conn, userID, &msg)
		case ws.ActionSubmit:
			if done := h.handleSubmit(c.Request.Context(), conn, wsLog, userID); done {
				return
			}
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

// pushStates pushes the attempt snapshot every interval. When the attempt
// disappears (submitted, abandoned, or replaced) it sends a final state and
// stops.
func (h *WSHandler) pushStates(ctx context.Context, conn *ws.Conn, userID int, cancel context.CancelFunc) {
	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view, err := h.attemptService.View(userID)
			if err != nil {
				cancel()
				return
			}
			if err := conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Attempt: view}); err != nil {
				cancel()
				return
			}
		}
	}
}

func (h *WSHandler) handleSelect(conn *ws.Conn, userID int, msg *ws.Request) {
	view, err := h.attemptService.SelectAnswer(userID, msg.QuestionIndex, msg.Option)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Attempt: view})
}

func (h *WSHandler) handleNavigate(conn *ws.Conn, userID int, msg *ws.Request) {
	view, err := h.attemptService.Navigate(userID, msg.TargetIndex)
	if err != nil {
		conn.WriteError(err.Error())
		return
	}
	conn.WriteTyped(ws.StateResponse{Event: ws.EventState, Attempt: view})
}

// handleSubmit finalizes the attempt. Returns true when the stream should
// close. A failed enqueue keeps the attempt live so the client can retry.
func (h *WSHandler) handleSubmit(ctx context.Context, conn *ws.Conn, wsLog zerolog.Logger, userID int) bool {
	out, err := h.attemptService.Submit(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveAttempt) || errors.Is(err, service.ErrAttemptSubmitted) {
			conn.WriteError("no submittable attempt")
			return true
		}
		wsLog.Error().Err(err).Msg("Submit over stream failed")
		conn.WriteError("submit failed, try again")
		return false
	}

	wsLog.Info().
		Int("marks", out.Result.Marks).
		Int("score", out.Result.Score).
		Msg("Attempt submitted over stream")

	conn.WriteTyped(ws.SubmittedResponse{
		Event:       ws.EventSubmitted,
		Marks:       out.Result.Marks,
		Score:       out.Result.Score,
		TimeExpired: out.TimeExpired,
	})
	return true
}
