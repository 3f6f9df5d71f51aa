package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/config"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/httpresp"
	"github.com/salonsuite/salon-scheduler/internal/media"
	"github.com/salonsuite/salon-scheduler/internal/models"
	"github.com/salonsuite/salon-scheduler/internal/storage"
	"github.com/salonsuite/salon-scheduler/internal/usecase/cascade"
	"github.com/salonsuite/salon-scheduler/internal/validators"
)

type StaffHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	cascade *cascade.Delete
	store   *storage.ObjectStore
}

func NewStaffHandler(
	db *gorm.DB,
	cfg *config.Config,
	cascadeUC *cascade.Delete,
	store *storage.ObjectStore,
) *StaffHandler {
	return &StaffHandler{db: db, cfg: cfg, cascade: cascadeUC, store: store}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type UpdateStaffRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Active *bool  `json:"active"`
}

// ======================================================
// LIST / CREATE / UPDATE
// ======================================================

func (h *StaffHandler) List(c *gin.Context) {
	var staff []models.User
	if err := h.db.Order("name ASC").Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Could not list staff.")
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid staff payload.")
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleBeautician
	}
	if role != models.RoleAdmin && role != models.RoleBeautician {
		httperr.BadRequest(c, "invalid_role", "Role must be admin or beautician.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "The email domain does not appear to be valid.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Could not hash password.")
		return
	}

	staff := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}

	if err := h.db.Create(&staff).Error; err != nil {
		if httperr.IsUniqueConflict(err) {
			httperr.ConflictStatus(c, "email_already_exists", "A user with this email already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_staff", "Could not create staff member.")
		return
	}

	httpresp.Created(c, staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var staff models.User
	if err := h.db.First(&staff, id).Error; err != nil {
		httperr.NotFoundStatus(c, "staff_not_found", "Staff member not found.")
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid staff payload.")
		return
	}

	staff.Name = req.Name
	staff.Phone = req.Phone
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Could not update staff member.")
		return
	}

	httpresp.OK(c, staff)
}

// ======================================================
// DELETE (CASCADE)
// ======================================================

func (h *StaffHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid staff id.")
		return
	}

	res, err := h.cascade.Staff(c.Request.Context(), actorFrom(c), uint(id))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// PROFILE PHOTO
// ======================================================

func (h *StaffHandler) UploadPhoto(c *gin.Context) {
	if h.store == nil {
		httperr.Internal(c, "photo_storage_disabled", "Photo storage is not configured.")
		return
	}

	id := c.Param("id")

	var staff models.User
	if err := h.db.First(&staff, id).Error; err != nil {
		httperr.NotFoundStatus(c, "staff_not_found", "Staff member not found.")
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "missing_photo", "A photo file is required.")
		return
	}

	src, err := file.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_photo", "Could not read uploaded photo.")
		return
	}
	defer src.Close()

	processed, err := media.ProcessProfilePhoto(src, h.cfg.PhotoMaxWidth)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	key := "staff-photos/" + uuid.NewString() + ".webp"
	url, err := h.store.Upload(c.Request.Context(), key, processed, "image/webp")
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	staff.PhotoURL = url
	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Could not save photo URL.")
		return
	}

	httpresp.OK(c, gin.H{"photo_url": url})
}
