package handlers

import (
	"errors"
	"net/http"
	"strings"

	"clauselens-backend/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler handles HTTP requests for contract Q&A
type ChatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// ChatRequest is the body for contract questions
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// Chat handles POST /api/contracts/:id/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	contractID := c.Param("id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Query is required",
			},
		})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Query cannot be empty",
			},
		})
		return
	}

	answer, err := h.chatService.AnswerQuery(c.Request.Context(), contractID, req.Query)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CONTRACT_NOT_FOUND",
					"message": "Contract not found: " + contractID,
				},
			})
			return
		}
		h.logger.Error("failed to answer query",
			zap.String("contract_id", contractID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CHAT_ERROR",
				"message": "Error answering the question",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"answer":           answer.Answer,
		"relevant_clauses": answer.RelevantClauses,
	})
}
