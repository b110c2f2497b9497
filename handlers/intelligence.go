package handlers

import (
	"net/http"

	"medivoice/models"
	ai "medivoice/services/intelligence"
	"medivoice/services/voice"
	"medivoice/utils"

	"github.com/gin-gonic/gin"
)

// AIHandler serves the conversational endpoints.
type AIHandler struct {
	Assistant   *ai.Assistant
	Transcriber voice.Transcriber
	Language    string
}

func NewAIHandler(assistant *ai.Assistant, transcriber voice.Transcriber, language string) *AIHandler {
	return &AIHandler{Assistant: assistant, Transcriber: transcriber, Language: language}
}

// HandleAIRequest handles POST /api/ai/chat. Without a session_id a new
// conversation is started and the text is processed as its first turn.
func (h *AIHandler) HandleAIRequest(c *gin.Context) {
	var req models.AIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	resp, err := h.converse(c, req)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AIHandler) converse(c *gin.Context, req models.AIRequest) (*models.SessionResponse, error) {
	ctx := c.Request.Context()
	if req.SessionID == "" {
		started, err := h.Assistant.StartSession(ctx)
		if err != nil {
			return nil, err
		}
		req.SessionID = started.SessionID
	}
	return h.Assistant.ProcessUserInput(ctx, req)
}
