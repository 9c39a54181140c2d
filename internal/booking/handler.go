package booking

import (
	"errors"
	"net/http"

	"paygo/internal/auth"
	"paygo/internal/center"
	"paygo/internal/checkin"
	"paygo/internal/timeslot"
	"paygo/internal/user"
	"paygo/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service  Service
	userRepo user.Repository
}

func NewHandler(db *sqlx.DB, notifier Notifier) *Handler {
	userRepo := user.NewRepository(db)
	return &Handler{
		service: NewService(
			NewRepository(db),
			userRepo,
			center.NewRepository(db),
			wallet.NewRepository(db),
			notifier,
		),
		userRepo: userRepo,
	}
}

// NewHandlerWithService wires a handler over a prebuilt service, used by
// handler tests.
func NewHandlerWithService(service Service, userRepo user.Repository) *Handler {
	return &Handler{service: service, userRepo: userRepo}
}

func (h *Handler) resolveProfile(c *gin.Context) (*user.User, bool) {
	authUID, ok := auth.GetAuthUID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	profile, err := h.userRepo.FindByAuthUID(c.Request.Context(), authUID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return nil, false
	}

	return profile, true
}

// respondError maps each business failure to its own status and message,
// so the client can tell "wait" apart from "retry".
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, user.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
	case errors.Is(err, center.ErrCenterNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
	case errors.Is(err, ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
	case errors.Is(err, ErrWindowClosed):
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot cancel: " + err.Error()})
	case errors.Is(err, ErrSessionInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book a session in the past"})
	case errors.Is(err, ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already completed"})
	case errors.Is(err, ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already cancelled"})
	case errors.Is(err, ErrCenterMismatch):
		c.JSON(http.StatusConflict, gin.H{"error": "This QR code belongs to a different center"})
	case errors.Is(err, ErrNotToday):
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance can only be marked on the booking date"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking was already handled"})
	case errors.Is(err, timeslot.ErrBadSlot), errors.Is(err, timeslot.ErrBadDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please retry"})
	}
}

// CreateBooking godoc
// @Summary      Create booking
// @Description  Books a pay-per-session slot and debits the wallet.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking data"
// @Success      201      {object}  Booking
// @Failure      400      {object}  gin.H
// @Failure      402      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), profile.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListBookings godoc
// @Summary      List my bookings
// @Description  Returns bookings of the authenticated user. Upcoming bookings sort soonest first, past ones most recent first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        filter  query     string  false  "all | upcoming | past"
// @Success      200     {array}   BookingView
// @Failure      500     {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	filter := ListFilter(c.DefaultQuery("filter", string(FilterAll)))

	views, err := h.service.List(c.Request.Context(), profile.ID, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, views)
}

// GetBooking godoc
// @Summary      Get booking
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingCode  path      string  true  "Booking code"
// @Success      200          {object}  BookingView
// @Failure      404          {object}  gin.H
// @Router       /bookings/{bookingCode} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	view, err := h.service.Get(c.Request.Context(), profile.ID, c.Param("bookingCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels a confirmed booking while the cancellation window is open and refunds the full price to the wallet.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingCode  path      string  true  "Booking code"
// @Success      200          {object}  CancelBookingResponse
// @Failure      404          {object}  gin.H
// @Failure      409          {object}  gin.H
// @Failure      500          {object}  gin.H
// @Router       /bookings/{bookingCode}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	refunded, err := h.service.Cancel(c.Request.Context(), profile.ID, c.Param("bookingCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{
		Message:  "Booking cancelled, refund credited to wallet",
		Refunded: refunded,
	})
}

// GetCheckInWindow godoc
// @Summary      Check-in window state
// @Description  Tells the client whether the scan button should be enabled right now.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingCode  path      string  true  "Booking code"
// @Success      200          {object}  CheckInWindowResponse
// @Failure      404          {object}  gin.H
// @Router       /bookings/{bookingCode}/checkin [get]
func (h *Handler) GetCheckInWindow(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	resp, err := h.service.CheckInWindow(c.Request.Context(), profile.ID, c.Param("bookingCode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CheckIn godoc
// @Summary      QR check-in
// @Description  Validates a scanned center QR payload and marks attendance on the booking.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingCode  path      string          true  "Booking code"
// @Param        request      body      CheckInRequest  true  "Scanned QR payload"
// @Success      200          {object}  gin.H
// @Failure      400          {object}  gin.H
// @Failure      404          {object}  gin.H
// @Failure      409          {object}  gin.H
// @Router       /bookings/{bookingCode}/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	centerID, valid := checkin.ExtractCenterID(req.Payload)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not a valid center QR code"})
		return
	}

	if err := h.service.MarkAttendance(c.Request.Context(), profile.ID, c.Param("bookingCode"), centerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked, enjoy your session"})
}

// SimulateCheckIn godoc
// @Summary      Simulated QR check-in
// @Description  Generates the center payload server-side and runs the same attendance commit as the camera path.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingCode  path      string                  true  "Booking code"
// @Param        request      body      SimulateCheckInRequest  true  "Center to simulate scanning"
// @Success      200          {object}  gin.H
// @Failure      400          {object}  gin.H
// @Failure      404          {object}  gin.H
// @Failure      409          {object}  gin.H
// @Router       /bookings/{bookingCode}/checkin/simulate [post]
func (h *Handler) SimulateCheckIn(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	var req SimulateCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source, err := checkin.NewStaticSource(req.CenterID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := source.Scan(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scan failed"})
		return
	}

	centerID, valid := checkin.ExtractCenterID(payload)
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not a valid center QR code"})
		return
	}

	if err := h.service.MarkAttendance(c.Request.Context(), profile.ID, c.Param("bookingCode"), centerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance marked, enjoy your session"})
}
