package center

import (
	"errors"
	"net/http"

	"paygo/internal/checkin"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListCenters godoc
// @Summary      List centers
// @Description  Returns all fitness centers, sorted by name.
// @Tags         centers
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Center
// @Failure      500  {object}  gin.H
// @Router       /centers [get]
func (h *Handler) ListCenters(c *gin.Context) {
	centers, err := h.repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch centers"})
		return
	}

	c.JSON(http.StatusOK, centers)
}

// GetCenter godoc
// @Summary      Get center
// @Tags         centers
// @Security     BearerAuth
// @Produce      json
// @Param        centerID  path      string  true  "Center ID"
// @Success      200       {object}  Center
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /centers/{centerID} [get]
func (h *Handler) GetCenter(c *gin.Context) {
	ctr, err := h.repo.GetByID(c.Request.Context(), c.Param("centerID"))
	if err != nil {
		if errors.Is(err, ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ctr)
}

// CreateCenter godoc
// @Summary      Create center
// @Description  Registers a new fitness center. Admin only.
// @Tags         centers
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateCenterRequest  true  "Center data"
// @Success      201      {object}  Center
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/centers [post]
func (h *Handler) CreateCenter(c *gin.Context) {
	var req CreateCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctr, err := h.repo.Create(c.Request.Context(), req.ID, req.Name, req.Address, req.Latitude, req.Longitude)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create center"})
		return
	}

	c.JSON(http.StatusCreated, ctr)
}

// GetQRPayload godoc
// @Summary      Center QR payload
// @Description  Returns the payload encoded into the center's printed QR code. Admin only.
// @Tags         centers
// @Security     BearerAuth
// @Produce      json
// @Param        centerID  path      string  true  "Center ID"
// @Success      200       {object}  QRPayloadResponse
// @Failure      404       {object}  gin.H
// @Failure      500       {object}  gin.H
// @Router       /admin/centers/{centerID}/qr [get]
func (h *Handler) GetQRPayload(c *gin.Context) {
	ctr, err := h.repo.GetByID(c.Request.Context(), c.Param("centerID"))
	if err != nil {
		if errors.Is(err, ErrCenterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	payload, err := checkin.Generate(ctr.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build QR payload"})
		return
	}

	c.JSON(http.StatusOK, QRPayloadResponse{CenterID: ctr.ID, Payload: payload})
}
