package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"medivoice/models"
	"medivoice/services/voice"
	"medivoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const AllowedExtension = ".wav"

// AISTTHandler handles POST /api/ai/stt with a multipart "audio" WAV file.
// With a session_id form field (or converse=true) the transcript is also fed
// into the booking conversation.
func (h *AIHandler) AISTTHandler(c *gin.Context) {
	logger := getLogger(c)
	if h.Transcriber == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "speech-to-text is not configured", "set STT_ENABLED=true")
		return
	}

	language := c.DefaultPostForm("language", h.Language)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "audio file is required", err.Error())
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
		utils.JSONError(c, http.StatusBadRequest, "invalid file type", fmt.Sprintf("expected %s, got %s", AllowedExtension, ext))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, voice.MaxFileSize+1))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to read audio file", err.Error())
		return
	}

	audio, err := voice.PrepareAudio(c.Request.Context(), data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, voice.ErrInvalidWAV) {
			status = http.StatusBadRequest
		}
		utils.JSONError(c, status, "audio conversion failed", err.Error())
		return
	}

	transcript, err := h.Transcriber.Transcribe(c.Request.Context(), audio, language)
	if err != nil {
		logger.Error("Speech recognition failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "speech recognition failed", err.Error())
		return
	}

	sessionID := c.PostForm("session_id")
	if sessionID == "" && c.PostForm("converse") != "true" {
		c.JSON(http.StatusOK, gin.H{"transcription": transcript})
		return
	}

	resp, err := h.converse(c, models.AIRequest{SessionID: sessionID, Text: transcript})
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcription": transcript, "session": resp})
}
