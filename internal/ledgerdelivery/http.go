// Package ledgerdelivery manages delivery layer of the wallet ledger.
package ledgerdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/ledgerservice"
	"github.com/linguamarket/lingua/internal/middleware"
	"github.com/linguamarket/lingua/pkg/errorspkg"
	"github.com/linguamarket/lingua/pkg/web"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	InitiateDeposit(ctx context.Context, username, amount string) (ledgerservice.InitiateDepositResult, error)
	ConfirmDeposit(ctx context.Context, username, orderID, paymentID, signature string) (domain.DepositTxResult, error)
	Withdraw(ctx context.Context, username, amount, method string) (domain.WithdrawTxResult, error)
	Pay(ctx context.Context, username string, projectID int64) (domain.PaymentTxResult, error)
	GetBalance(ctx context.Context, username string) (ledgerservice.Balance, error)
	DerivedBalance(ctx context.Context, username string) (string, error)
	History(ctx context.Context, username string, limit, offset int32) ([]domain.Transaction, error)
	PlatformBalance(ctx context.Context) (string, error)
	PlatformHistory(ctx context.Context, limit, offset int32) ([]domain.Transaction, error)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns ledger handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return web.GetErrorMsg(ve)
	}

	return "invalid request"
}

// writeError maps domain errors to HTTP statuses.
func writeError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrInvalidAmount, domain.ErrNegativeAmount:
		gctx.JSON(http.StatusBadRequest, web.Error(err))
	case domain.ErrInsufficientBalance:
		gctx.JSON(http.StatusUnprocessableEntity, web.Error(err))
	case domain.ErrTransactionNotFound, domain.ErrProjectNotFound, domain.ErrUserNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrProjectAlreadyPaid:
		gctx.JSON(http.StatusConflict, web.Error(err))
	case domain.ErrNotProjectParticipant:
		gctx.JSON(http.StatusForbidden, web.Error(err))
	case domain.ErrGatewayFailure:
		gctx.JSON(http.StatusBadGateway, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type depositRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// InitiateDeposit handles http request to open a deposit order.
func (h *Handler) InitiateDeposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req depositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	result, err := h.service.InitiateDeposit(ctx, authPayload.Username, req.Amount)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

type confirmDepositRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// ConfirmDeposit handles http request to confirm a captured deposit.
func (h *Handler) ConfirmDeposit(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req confirmDepositRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	result, err := h.service.ConfirmDeposit(ctx, authPayload.Username, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

type withdrawRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=IMPS NEFT UPI"`
}

// Withdraw handles http request to withdraw from the wallet.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req withdrawRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	result, err := h.service.Withdraw(ctx, authPayload.Username, req.Amount, req.Method)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

type payRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Pay handles http request to pay for a project.
func (h *Handler) Pay(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req payRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	result, err := h.service.Pay(ctx, authPayload.Username, req.ID)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: result})
}

// Balance handles http request to fetch the wallet balance.
func (h *Handler) Balance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := middleware.AuthPayload(gctx)

	balance, err := h.service.GetBalance(ctx, authPayload.Username)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: balance})
}

type derivedBalanceResponse struct {
	DerivedBalance string `json:"derived_balance"`
}

// DerivedBalance handles http request to recompute the balance from the log.
func (h *Handler) DerivedBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := middleware.AuthPayload(gctx)

	sum, err := h.service.DerivedBalance(ctx, authPayload.Username)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: derivedBalanceResponse{DerivedBalance: sum}})
}

type historyRequest struct {
	Limit  int32 `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int32 `form:"offset" binding:"min=0"`
}

type historyData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// History handles http request to list the wallet transactions.
func (h *Handler) History(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	transactions, err := h.service.History(ctx, authPayload.Username, req.Limit, req.Offset)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{Transactions: transactions}})
}

type platformBalanceResponse struct {
	Balance string `json:"balance"`
}

// PlatformBalance handles http request to fetch total platform commission.
func (h *Handler) PlatformBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	sum, err := h.service.PlatformBalance(ctx)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: platformBalanceResponse{Balance: sum}})
}

// PlatformHistory handles http request to list platform commission entries.
func (h *Handler) PlatformHistory(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req historyRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	transactions, err := h.service.PlatformHistory(ctx, req.Limit, req.Offset)
	if err != nil {
		writeError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: historyData{Transactions: transactions}})
}
