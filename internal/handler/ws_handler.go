package handler

import (
	"github.com/ProbablyAY/SparkCo/internal/pkg/logger"
	"github.com/ProbablyAY/SparkCo/internal/pkg/serverutils"
	internalWS "github.com/ProbablyAY/SparkCo/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WsHandler upgrades authenticated browsers to the session status push channel.
type WsHandler struct {
	verifier serverutils.TokenVerifier
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewWsHandler(verifier serverutils.TokenVerifier, hub *internalWS.Hub, log logger.ILogger) *WsHandler {
	return &WsHandler{
		verifier: verifier,
		hub:      hub,
		logger:   log,
	}
}

// ServeWs authenticates before upgrading. Browsers cannot set headers on a
// websocket handshake, so the query token comes first.
func (h *WsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		tokenStr = serverutils.BearerOrCookie(c)
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	userID, err := h.verifier.VerifyToken(tokenStr)
	if err != nil {
		h.logger.Warn("WsHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("WsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("WsHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *WsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
