package routes

import (
	"medivoice/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterDoctorRoutes registers catalog and appointment listing endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	doctors := r.Group("/api/doctors")
	{
		doctors.GET("", hb.ListDoctorsHandler)
		doctors.GET("/summary", hb.AvailabilitySummaryHandler)
		doctors.GET("/:id", hb.GetDoctorHandler)
		doctors.GET("/:id/slots", hb.GetDoctorSlotsHandler)
	}
	r.GET("/api/appointments", hb.ListAppointmentsHandler)
}

// RegisterBookingRoutes registers the structured booking session endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	booking := r.Group("/api/booking")
	{
		booking.POST("/session", hb.InitiateSession)
		booking.GET("/session/:sessionID", hb.GetSession)
		booking.PUT("/session/:sessionID", hb.UpdateSession)
		booking.POST("/session/:sessionID/book", hb.ConfirmBooking)
		booking.DELETE("/session/:sessionID", hb.CancelSession)
	}
}
