package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/cache"
	"github.com/salonsuite/salon-scheduler/internal/config"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/httpresp"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type BlockoutHandler struct {
	db    *gorm.DB
	cfg   *config.Config
	cache *cache.Availability
}

func NewBlockoutHandler(
	db *gorm.DB,
	cfg *config.Config,
	availabilityCache *cache.Availability,
) *BlockoutHandler {
	return &BlockoutHandler{db: db, cfg: cfg, cache: availabilityCache}
}

// ======================================================
// REQUESTS
// ======================================================

type BlockoutRequest struct {
	Date      string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime string `json:"start_time" binding:"required"` // HH:MM
	EndTime   string `json:"end_time" binding:"required"`   // HH:MM
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
}

func (h *BlockoutHandler) parseRange(c *gin.Context, req *BlockoutRequest) (time.Time, time.Time, bool) {
	start, err1 := parseDateTimeIn(h.cfg.SalonTimezone, req.Date, req.StartTime)
	end, err2 := parseDateTimeIn(h.cfg.SalonTimezone, req.Date, req.EndTime)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return time.Time{}, time.Time{}, false
	}
	if !end.After(start) {
		httperr.BadRequest(c, "invalid_time_range", "End must be after start.")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ======================================================
// HANDLERS
// ======================================================

func (h *BlockoutHandler) List(c *gin.Context) {
	staffID := c.Param("id")

	q := h.db.Where("staff_id = ?", staffID)

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := parseDateIn(h.cfg.SalonTimezone, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Invalid date.")
			return
		}
		q = q.Where("start_time < ? AND end_time > ?", day.Add(24*time.Hour), day)
	}

	var blockouts []models.StaffBlockout
	if err := q.Order("start_time ASC").Find(&blockouts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_blockouts", "Could not list blockouts.")
		return
	}

	httpresp.List(c, blockouts)
}

func (h *BlockoutHandler) Create(c *gin.Context) {
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

	var req BlockoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid blockout payload.")
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = models.BlockoutOther
	}
	if !models.IsBlockoutReason(reason) {
		httperr.BadRequest(c, "invalid_reason", "Unknown blockout reason.")
		return
	}

	start, end, ok := h.parseRange(c, &req)
	if !ok {
		return
	}

	blockout := models.StaffBlockout{
		StaffID:   uint(staffID),
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
		Notes:     req.Notes,
	}

	if err := h.db.Create(&blockout).Error; err != nil {
		httperr.Internal(c, "failed_to_create_blockout", "Could not create blockout.")
		return
	}

	h.cache.InvalidateStaffDay(c.Request.Context(), uint(staffID), req.Date)

	httpresp.Created(c, blockout)
}

func (h *BlockoutHandler) Update(c *gin.Context) {
	staffID := c.Param("id")
	blockoutID := c.Param("blockoutId")

	var blockout models.StaffBlockout
	if err := h.db.
		Where("id = ? AND staff_id = ?", blockoutID, staffID).
		First(&blockout).Error; err != nil {
		httperr.NotFoundStatus(c, "blockout_not_found", "Blockout not found.")
		return
	}

	var req BlockoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid blockout payload.")
		return
	}

	if req.Reason != "" && !models.IsBlockoutReason(req.Reason) {
		httperr.BadRequest(c, "invalid_reason", "Unknown blockout reason.")
		return
	}

	start, end, ok := h.parseRange(c, &req)
	if !ok {
		return
	}

	oldDate := blockout.StartTime.Format("2006-01-02")

	blockout.StartTime = start
	blockout.EndTime = end
	if req.Reason != "" {
		blockout.Reason = req.Reason
	}
	blockout.Notes = req.Notes

	if err := h.db.Save(&blockout).Error; err != nil {
		httperr.Internal(c, "failed_to_update_blockout", "Could not update blockout.")
		return
	}

	h.cache.InvalidateStaffDay(c.Request.Context(), blockout.StaffID, oldDate)
	h.cache.InvalidateStaffDay(c.Request.Context(), blockout.StaffID, req.Date)

	httpresp.OK(c, blockout)
}

func (h *BlockoutHandler) Delete(c *gin.Context) {
	staffID := c.Param("id")
	blockoutID := c.Param("blockoutId")

	var blockout models.StaffBlockout
	if err := h.db.
		Where("id = ? AND staff_id = ?", blockoutID, staffID).
		First(&blockout).Error; err != nil {
		httperr.NotFoundStatus(c, "blockout_not_found", "Blockout not found.")
		return
	}

	if err := h.db.Delete(&blockout).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_blockout", "Could not delete blockout.")
		return
	}

	h.cache.InvalidateStaffDay(
		c.Request.Context(),
		blockout.StaffID,
		blockout.StartTime.Format("2006-01-02"),
	)

	httpresp.OK(c, gin.H{"status": "ok"})
}
