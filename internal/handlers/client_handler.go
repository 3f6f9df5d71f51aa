package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/dto"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/httpresp"
	"github.com/salonsuite/salon-scheduler/internal/infra/repository"
	"github.com/salonsuite/salon-scheduler/internal/models"
	"github.com/salonsuite/salon-scheduler/internal/usecase/cascade"
)

type ClientHandler struct {
	db      *gorm.DB
	cascade *cascade.Delete
}

func NewClientHandler(db *gorm.DB, cascadeUC *cascade.Delete) *ClientHandler {
	return &ClientHandler{db: db, cascade: cascadeUC}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// ======================================================
// LIST / SEARCH
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.Session(&gorm.Session{})

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_clients", "Could not list clients.")
		return
	}

	httpresp.List(c, clients)
}

func (h *ClientHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		httperr.NotFoundStatus(c, "client_not_found", "Client not found.")
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// CREATE / UPDATE
// ======================================================

func (h *ClientHandler) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid client payload.")
		return
	}

	client := models.Client{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	}

	if err := h.db.Create(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_create_client", "Could not create client.")
		return
	}

	httpresp.Created(c, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var client models.Client
	if err := h.db.First(&client, id).Error; err != nil {
		httperr.NotFoundStatus(c, "client_not_found", "Client not found.")
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid client payload.")
		return
	}

	client.Name = req.Name
	client.Phone = req.Phone
	client.Email = req.Email
	client.Notes = req.Notes

	if err := h.db.Save(&client).Error; err != nil {
		httperr.Internal(c, "failed_to_update_client", "Could not update client.")
		return
	}

	httpresp.OK(c, client)
}

// ======================================================
// DELETE (CASCADE)
// ======================================================

func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid client id.")
		return
	}

	res, err := h.cascade.Client(c.Request.Context(), actorFrom(c), uint(id))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, res)
}

// ======================================================
// HISTORY
// ======================================================

func (h *ClientHandler) History(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid client id.")
		return
	}

	repo := repository.NewScheduleGormRepository(h.db)

	entries, lookupErr := repo.ListHistoryForClient(c.Request.Context(), uint(id))
	if lookupErr != nil {
		httperr.Internal(c, "failed_to_list_history", "Could not list client history.")
		return
	}

	out := make([]dto.HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.HistoryEntryDTO{
			ID:            e.ID,
			AppointmentID: e.AppointmentID,
			ServiceID:     e.ServiceID,
			StaffID:       e.StaffID,
			Date:          e.Date,
			Status:        e.Status,
			Notes:         e.Notes,
		})
	}

	httpresp.List(c, out)
}
