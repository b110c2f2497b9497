package handlers

import (
	"errors"
	"net/http"

	"medivoice/models"
	"medivoice/services/booking"
	"medivoice/services/catalog"
	"medivoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DoctorHandler serves the read-only doctor catalog and live availability.
type DoctorHandler struct {
	Catalog   *catalog.Catalog
	Scheduler *booking.Scheduler
}

func NewDoctorHandler(cat *catalog.Catalog, scheduler *booking.Scheduler) *DoctorHandler {
	return &DoctorHandler{Catalog: cat, Scheduler: scheduler}
}

// ListDoctorsHandler handles GET /api/doctors.
func (h *DoctorHandler) ListDoctorsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"doctors": h.Catalog.ListDoctors()})
}

// GetDoctorHandler handles GET /api/doctors/:id.
func (h *DoctorHandler) GetDoctorHandler(c *gin.Context) {
	doctor, err := h.Catalog.GetDoctor(c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "doctor not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, doctor)
}

// GetDoctorSlotsHandler handles GET /api/doctors/:id/slots?day=monday.
// It returns the slots that are still free on that weekday.
func (h *DoctorHandler) GetDoctorSlotsHandler(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")
	day, ok := catalog.NormalizeWeekday(c.Query("day"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid day", "day must be a weekday name such as monday")
		return
	}

	slots, err := h.Scheduler.AvailableSlots(c.Request.Context(), id, day)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "doctor not found", err.Error())
			return
		}
		logger.Error("Failed to compute availability", zap.String("doctorID", id), zap.String("day", day), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute availability", err.Error())
		return
	}

	doctor, _ := h.Catalog.GetDoctor(id)
	c.JSON(http.StatusOK, models.DoctorSlots{
		DoctorID: doctor.ID,
		Day:      day,
		Slots:    catalog.SlotViews(slots),
	})
}

// AvailabilitySummaryHandler handles GET /api/doctors/summary.
func (h *DoctorHandler) AvailabilitySummaryHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"summary": h.Catalog.AvailabilitySummary()})
}
