package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/models"
	"glowbook/services/agent"
	"glowbook/utils"
)

// AgentHandler exposes the chat agent over HTTP.
type AgentHandler struct {
	svc agent.AgentService
}

func NewAgentHandler(svc agent.AgentService) *AgentHandler {
	return &AgentHandler{svc: svc}
}

// ChatHandler processes one conversational turn.
func (h *AgentHandler) ChatHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	resp, err := h.svc.Chat(c.Request.Context(), req)
	if err != nil {
		logger.Error("chat turn failed",
			zap.String("sessionID", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process the message"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResetHandler discards a conversation session.
func (h *AgentHandler) ResetHandler(c *gin.Context) {
	logger := utils.GetLogger()

	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
		return
	}
	if err := h.svc.Reset(c.Request.Context(), sessionID); err != nil {
		logger.Error("session reset failed",
			zap.String("sessionID", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not reset the session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset", "session_id": sessionID})
}
