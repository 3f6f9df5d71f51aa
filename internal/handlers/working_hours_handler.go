package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/cache"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/httpresp"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type WorkingHoursHandler struct {
	db    *gorm.DB
	cache *cache.Availability
}

func NewWorkingHoursHandler(db *gorm.DB, availabilityCache *cache.Availability) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, cache: availabilityCache}
}

// WorkingSubRange is one template sub-range. A weekday may appear several
// times (split shifts); weekdays absent from the payload are non-working.
type WorkingSubRange struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

type WorkingHoursUpdateRequest struct {
	Ranges []WorkingSubRange `json:"ranges" binding:"required"`
}

func (h *WorkingHoursHandler) Get(c *gin.Context) {
	staffID := c.Param("id")

	var hours []models.WorkingHours
	if err := h.db.
		Where("staff_id = ?", staffID).
		Order("weekday ASC, position ASC").
		Find(&hours).Error; err != nil {

		httperr.Internal(c, "failed_to_get_working_hours", "Could not load working hours.")
		return
	}

	httpresp.List(c, hours)
}

// Update replaces the staff member's whole weekly template.
func (h *WorkingHoursHandler) Update(c *gin.Context) {
	staffID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid staff id.")
		return
	}

	var staff models.User
	if err := h.db.First(&staff, staffID).Error; err != nil {
		httperr.NotFoundStatus(c, "staff_not_found", "Staff member not found.")
		return
	}

	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid working hours payload.")
		return
	}

	position := map[int]int{}
	toCreate := make([]models.WorkingHours, 0, len(req.Ranges))
	for _, r := range req.Ranges {
		start, err1 := time.Parse("15:04", r.StartTime)
		end, err2 := time.Parse("15:04", r.EndTime)
		if err1 != nil || err2 != nil || !end.After(start) {
			httperr.BadRequest(c, "invalid_sub_range", "Sub-ranges need HH:MM times with end after start.")
			return
		}

		toCreate = append(toCreate, models.WorkingHours{
			StaffID:   uint(staffID),
			Weekday:   r.Weekday,
			Position:  position[r.Weekday],
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
		})
		position[r.Weekday]++
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", staffID).Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_save_working_hours", "Could not save working hours.")
		return
	}

	h.cache.InvalidateStaff(c.Request.Context(), uint(staffID))

	httpresp.OK(c, gin.H{"status": "ok"})
}
