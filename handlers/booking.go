package handlers

import (
	"errors"
	"net/http"

	"medivoice/models"
	"medivoice/services/booking"
	ai "medivoice/services/intelligence"
	"medivoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking sessions for clients that send structured fields.
type BookingHandler struct {
	Assistant *ai.Assistant
}

func NewBookingHandler(assistant *ai.Assistant) *BookingHandler {
	return &BookingHandler{Assistant: assistant}
}

// InitiateSession handles POST /api/booking/session. An optional body of booking
// fields is applied straight away.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	logger := getLogger(c)
	var fields models.BookingFields
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&fields); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
	}

	resp, err := h.Assistant.StartSession(c.Request.Context())
	if err != nil {
		logger.Error("Failed to start booking session", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to start booking session", err.Error())
		return
	}
	if !fields.IsEmpty() {
		greeting := resp.Reply
		if resp, err = h.Assistant.UpdateFields(c.Request.Context(), resp.SessionID, fields); err != nil {
			logger.Error("Failed to apply initial booking fields", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "failed to update booking session", err.Error())
			return
		}
		if resp.Reply == "" {
			resp.Reply = greeting
		}
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSession handles GET /api/booking/session/:sessionID.
func (h *BookingHandler) GetSession(c *gin.Context) {
	resp, err := h.Assistant.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateSession handles PUT /api/booking/session/:sessionID.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	var fields models.BookingFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	resp, err := h.Assistant.UpdateFields(c.Request.Context(), c.Param("sessionID"), fields)
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmBooking handles POST /api/booking/session/:sessionID/book.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	resp, err := h.Assistant.Book(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(bookingStatus(resp), resp)
}

// CancelSession handles DELETE /api/booking/session/:sessionID.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	if err := h.Assistant.EndSession(c.Request.Context(), c.Param("sessionID")); err != nil {
		sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking session cancelled"})
}

func sessionError(c *gin.Context, err error) {
	if errors.Is(err, ai.ErrSessionNotFound) {
		utils.JSONError(c, http.StatusNotFound, "booking session not found or expired", err.Error())
		return
	}
	getLogger(c).Error("Booking session failure", zap.Error(err))
	utils.JSONError(c, http.StatusInternalServerError, "booking session failure", err.Error())
}

// bookingStatus maps a booking outcome to an HTTP status.
func bookingStatus(resp *models.SessionResponse) int {
	if resp.Error == nil {
		return http.StatusCreated
	}
	switch booking.ErrorKind(resp.Error.Kind) {
	case booking.KindSlotUnavailable, booking.KindDuplicateSlot:
		return http.StatusConflict
	case booking.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}
