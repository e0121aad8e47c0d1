package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/studylite/studylite-backend/internal/middleware"
	"github.com/studylite/studylite-backend/internal/quiz"
	"github.com/studylite/studylite-backend/internal/response"
	"github.com/studylite/studylite-backend/internal/service"
	"github.com/studylite/studylite-backend/internal/session"
	ws "github.com/studylite/studylite-backend/internal/websocket"
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

// WSHandler streams a quiz over a WebSocket.
type WSHandler struct {
	catalog  *service.CatalogService
	quizzes  *service.QuizService
	store    session.Store
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(catalog *service.CatalogService, quizzes *service.QuizService, store session.Store, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		catalog:  catalog,
		quizzes:  quizzes,
		store:    store,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// QuizStream godoc
// WS /ws/v1/subjects/:code/quiz
// Runs the quiz lifecycle over a socket bound to the browser session.
func (h *WSHandler) QuizStream(c *gin.Context) {
	code := c.Param("code")
	if _, err := h.catalog.Find(code); err != nil {
		failJSON(c, h.log, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()
	ws.Prepare(conn)

	st := middleware.GetState(c)
	wsLog := h.log.With().
		Str("sid", st.ID).
		Str("subject", code).
		Logger()

	wsLog.Info().Msg("Quiz stream connected")

	// Resume a quiz already running for this subject.
	if qs, err := h.quizzes.Current(st); err == nil && qs.SubjectCode == code && qs.State == quiz.StateRunning {
		ws.WriteTyped(conn, startedEvent(qs))
	}

	ctx := c.Request.Context()
	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			continue
		case ws.ActionStart:
			h.handleStart(ctx, conn, st, code, msg.Count)
		case ws.ActionSubmit:
			h.handleSubmit(conn, st, msg.Answers)
		case ws.ActionRetry:
			h.handleRetry(ctx, conn, st)
		case ws.ActionCancel:
			h.handleCancel(conn, st)
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
			continue
		}

		h.save(ctx, wsLog, st)
	}
}

func (h *WSHandler) handleStart(ctx context.Context, conn *websocket.Conn, st *session.State, code string, count int) {
	if count < 0 || count > 50 {
		ws.WriteError(conn, string(response.ErrValidation), "count must be between 1 and 50")
		return
	}
	qs, err := h.quizzes.Start(ctx, st, code, count)
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	ws.WriteTyped(conn, startedEvent(qs))
}

func (h *WSHandler) handleSubmit(conn *websocket.Conn, st *session.State, answers map[string]string) {
	res, err := h.quizzes.Submit(st, toAnswers(answers))
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	if res.Graded {
		ws.WriteTyped(conn, ws.GradedResponse{
			Event:   ws.EventGraded,
			Correct: res.Correct,
			Total:   res.Total,
			Entries: res.Entries,
		})
		return
	}
	ws.WriteTyped(conn, ws.ReviewedResponse{
		Event:   ws.EventReviewed,
		Total:   res.Total,
		Entries: res.Entries,
	})
}

func (h *WSHandler) handleRetry(ctx context.Context, conn *websocket.Conn, st *session.State) {
	qs, err := h.quizzes.Retry(ctx, st)
	if err != nil {
		writeDomainError(conn, err)
		return
	}
	ws.WriteTyped(conn, startedEvent(qs))
}

func (h *WSHandler) handleCancel(conn *websocket.Conn, st *session.State) {
	if err := h.quizzes.Cancel(st); err != nil {
		writeDomainError(conn, err)
		return
	}
	ws.WriteTyped(conn, ws.CancelledResponse{Event: ws.EventCancelled})
}

// save persists state after every action so a page reload mid-stream sees it.
func (h *WSHandler) save(ctx context.Context, log zerolog.Logger, st *session.State) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := h.store.Save(ctx, st); err != nil {
		log.Error().Err(err).Msg("Session save failed")
	}
}

func startedEvent(qs *quiz.Session) ws.StartedResponse {
	return ws.StartedResponse{
		Event:       ws.EventStarted,
		Subject:     qs.Subject,
		Theoretical: qs.Theoretical,
		Questions:   ws.Questions(qs),
	}
}

func writeDomainError(conn *websocket.Conn, err error) {
	_, code := classify(err)
	ws.WriteError(conn, string(code), response.GetMessage(code))
}
