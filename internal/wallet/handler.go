package wallet

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"paygo/internal/auth"
	"paygo/internal/metrics"
	"paygo/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo     Repository
	userRepo user.Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo:     NewRepository(db),
		userRepo: user.NewRepository(db),
	}
}

func NewHandlerWithRepos(repo Repository, userRepo user.Repository) *Handler {
	return &Handler{repo: repo, userRepo: userRepo}
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

// GetBalance godoc
// @Summary      Wallet balance
// @Description  Returns the current wallet balance of the authenticated user.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  BalanceResponse
// @Failure      404  {object}  gin.H
// @Failure      500  {object}  gin.H
// @Router       /wallet/balance [get]
func (h *Handler) GetBalance(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	balance, err := h.repo.Balance(c.Request.Context(), profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}

// ListTransactions godoc
// @Summary      Wallet transaction history
// @Description  Returns ledger entries of the authenticated user, newest first.
// @Tags         wallet
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query     int  false  "Page size (default 50)"
// @Param        offset  query     int  false  "Offset"
// @Success      200     {array}   Transaction
// @Failure      500     {object}  gin.H
// @Router       /wallet/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.repo.Transactions(c.Request.Context(), profile.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

// ConfirmRecharge godoc
// @Summary      Confirm wallet recharge
// @Description  Records a successful payment-gateway recharge as one deposit entry.
// @Tags         wallet
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      RechargeRequest  true  "Recharge confirmation"
// @Success      200      {object}  BalanceResponse
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /wallet/recharge [post]
func (h *Handler) ConfirmRecharge(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}

	var req RechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	description := fmt.Sprintf("Wallet recharge via payment gateway (ref: %s)", req.PaymentRef)
	if err := h.repo.Credit(c.Request.Context(), profile.ID, req.Amount, TypeDeposit, description); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record recharge"})
		return
	}

	metrics.RecordWalletRecharge()

	balance, err := h.repo.Balance(c.Request.Context(), profile.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch balance"})
		return
	}

	c.JSON(http.StatusOK, BalanceResponse{Balance: balance})
}
