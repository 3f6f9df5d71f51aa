package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/salonsuite/salon-scheduler/internal/cache"
	"github.com/salonsuite/salon-scheduler/internal/config"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/httpresp"
	"github.com/salonsuite/salon-scheduler/internal/models"
	"github.com/salonsuite/salon-scheduler/internal/timezone"
	ucAppointment "github.com/salonsuite/salon-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	cfg *config.Config

	createUC       *ucAppointment.CreateAppointment
	editUC         *ucAppointment.EditAppointment
	rescheduleUC   *ucAppointment.RescheduleAppointment
	statusUC       *ucAppointment.SetStatus
	confirmationUC *ucAppointment.SetConfirmation
	deleteUC       *ucAppointment.DeleteAppointment
	availabilityUC *ucAppointment.GetAvailability
	listUC         *ucAppointment.ListAppointments

	cache *cache.Availability
}

func NewAppointmentHandler(
	cfg *config.Config,
	createUC *ucAppointment.CreateAppointment,
	editUC *ucAppointment.EditAppointment,
	rescheduleUC *ucAppointment.RescheduleAppointment,
	statusUC *ucAppointment.SetStatus,
	confirmationUC *ucAppointment.SetConfirmation,
	deleteUC *ucAppointment.DeleteAppointment,
	availabilityUC *ucAppointment.GetAvailability,
	listUC *ucAppointment.ListAppointments,
	availabilityCache *cache.Availability,
) *AppointmentHandler {
	return &AppointmentHandler{
		cfg:            cfg,
		createUC:       createUC,
		editUC:         editUC,
		rescheduleUC:   rescheduleUC,
		statusUC:       statusUC,
		confirmationUC: confirmationUC,
		deleteUC:       deleteUC,
		availabilityUC: availabilityUC,
		listUC:         listUC,
		cache:          availabilityCache,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID  uint   `json:"client_id" binding:"required"`
	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   uint   `json:"staff_id"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
	Notes     string `json:"notes"`
}

type EditAppointmentRequest struct {
	ServiceID *uint   `json:"service_id"`
	StaffID   *uint   `json:"staff_id"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Notes     *string `json:"notes"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetConfirmationRequest struct {
	Confirmation string `json:"confirmation" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := actorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment payload.")
		return
	}

	staffID := req.StaffID
	if staffID == 0 {
		staffID = actor.ID
	}
	if !actor.IsAdmin() && staffID != actor.ID {
		httperr.ForbiddenStatus(c, "not_own_appointment", "Only admins may book for other staff members.")
		return
	}

	start, err := parseDateTimeIn(h.cfg.SalonTimezone, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), actor, ucAppointment.CreateAppointmentInput{
		ClientID:  req.ClientID,
		ServiceID: req.ServiceID,
		StaffID:   staffID,
		Start:     start,
		Notes:     req.Notes,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.invalidateDay(c, ap)
	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	actor := actorFrom(c)

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDateIn(h.cfg.SalonTimezone, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	appointments, err := h.listUC.ByDate(c.Request.Context(), h.listScope(c, actor), date)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, appointments)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	actor := actorFrom(c)

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Invalid year.")
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Invalid month.")
		return
	}

	appointments, err := h.listUC.ByMonth(
		c.Request.Context(),
		h.listScope(c, actor),
		year,
		month,
		timezone.Location(h.cfg.SalonTimezone),
	)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"year":         year,
		"month":        month,
		"appointments": appointments,
	})
}

// listScope resolves which staff member's calendar to show. Admins may ask
// for anyone (or everyone with staff_id omitted); staff see their own.
func (h *AppointmentHandler) listScope(c *gin.Context, actor domain.Actor) uint {
	if !actor.IsAdmin() {
		return actor.ID
	}
	if v := c.Query("staff_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}

// ======================================================
// EDIT / RESCHEDULE
// ======================================================

func (h *AppointmentHandler) Edit(c *gin.Context) {
	actor := actorFrom(c)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid appointment payload.")
		return
	}

	in := ucAppointment.EditAppointmentInput{
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Notes:     req.Notes,
	}

	if req.Date != nil && req.Time != nil {
		start, err := parseDateTimeIn(h.cfg.SalonTimezone, *req.Date, *req.Time)
		if err != nil {
			httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
			return
		}
		in.Start = &start
	} else if req.Date != nil || req.Time != nil {
		httperr.BadRequest(c, "incomplete_time", "Date and time must be provided together.")
		return
	}

	ap, prevStaffID, err := h.editUC.Execute(c.Request.Context(), actor, id, in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	// An edit can move the appointment across days or staff, so drop
	// every cached day for the staff involved rather than guessing.
	h.cache.InvalidateStaff(c.Request.Context(), ap.StaffID)
	if prevStaffID != ap.StaffID {
		h.cache.InvalidateStaff(c.Request.Context(), prevStaffID)
	}
	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor := actorFrom(c)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid reschedule payload.")
		return
	}

	newStart, err := parseDateTimeIn(h.cfg.SalonTimezone, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), actor, id, newStart)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	// Both the old and the new day change, so drop the staff's cache.
	h.cache.InvalidateStaff(c.Request.Context(), ap.StaffID)
	httpresp.OK(c, ap)
}

// ======================================================
// STATUS / CONFIRMATION
// ======================================================

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	actor := actorFrom(c)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid status payload.")
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	ap, err := h.statusUC.Execute(c.Request.Context(), actor, id, status)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	if status == domain.StatusCancelled {
		h.invalidateDay(c, ap)
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) SetConfirmation(c *gin.Context) {
	actor := actorFrom(c)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	var req SetConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid confirmation payload.")
		return
	}

	var sent bool
	switch req.Confirmation {
	case models.ConfirmationSent:
		sent = true
	case models.ConfirmationUnsent:
		sent = false
	default:
		httperr.BadRequest(c, "invalid_confirmation", "Confirmation must be sent or unsent.")
		return
	}

	ap, err := h.confirmationUC.Execute(c.Request.Context(), actor, id, sent)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)

	id, ok := h.appointmentID(c)
	if !ok {
		return
	}

	ap, removed, err := h.deleteUC.Execute(c.Request.Context(), actor, id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.invalidateDay(c, ap)
	httpresp.OK(c, gin.H{
		"status":               "deleted",
		"history_rows_removed": removed,
	})
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Query("staff_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Staff id is required.")
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Service id is required.")
		return
	}

	dateStr := c.Query("date")
	date, err := parseDateIn(h.cfg.SalonTimezone, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		StaffID:   uint(staffID),
		ServiceID: uint(serviceID),
		Date:      date,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// ======================================================
// HELPERS
// ======================================================

func (h *AppointmentHandler) appointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return 0, false
	}
	return uint(id), true
}

func (h *AppointmentHandler) invalidateDay(c *gin.Context, ap *models.Appointment) {
	h.cache.InvalidateStaffDay(
		c.Request.Context(),
		ap.StaffID,
		ap.StartTime.In(timezone.Location(h.cfg.SalonTimezone)).Format("2006-01-02"),
	)
}
