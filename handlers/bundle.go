package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Doctor catalog endpoints
	ListDoctorsHandler         gin.HandlerFunc
	GetDoctorHandler           gin.HandlerFunc
	GetDoctorSlotsHandler      gin.HandlerFunc
	AvailabilitySummaryHandler gin.HandlerFunc

	// Appointment endpoints
	ListAppointmentsHandler gin.HandlerFunc

	// Booking session endpoints
	InitiateSession gin.HandlerFunc
	GetSession      gin.HandlerFunc
	UpdateSession   gin.HandlerFunc
	ConfirmBooking  gin.HandlerFunc
	CancelSession   gin.HandlerFunc

	// AI endpoints
	AIChatHandler gin.HandlerFunc
	AISTTHandler  gin.HandlerFunc
}
