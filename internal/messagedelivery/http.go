// Package messagedelivery manages delivery layer of project message feeds.
package messagedelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/middleware"
	"github.com/linguamarket/lingua/pkg/errorspkg"
	"github.com/linguamarket/lingua/pkg/web"
)

// Service provides service layer interface needed by message delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package messagedelivery
type Service interface {
	Post(ctx context.Context, arg domain.CreateMessageParams) (domain.Message, error)
	List(ctx context.Context, username string, projectID int64) ([]domain.Message, error)
	UnreadCount(ctx context.Context, username string) (int64, error)
}

// Handler facilitates message delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns message handler.
func NewHandler(s Service) Handler {
	return Handler{
		service: s,
	}
}

func bindErrorMsg(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return web.GetErrorMsg(ve)
	}

	return "invalid request"
}

func writeError(gctx *gin.Context, err error) {
	switch err {
	case domain.ErrProjectNotFound:
		gctx.JSON(http.StatusNotFound, web.Error(err))
	case domain.ErrNotProjectParticipant:
		gctx.JSON(http.StatusForbidden, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type projectURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type postRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// Post handles http request to append a message to the project feed.
func (h *Handler) Post(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri projectURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req postRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	message, err := h.service.Post(ctx, domain.CreateMessageParams{
		ProjectID: uri.ID,
		Sender:    authPayload.Username,
		Text:      req.Text,
	})
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: message})
}

// List handles http request to read the project feed. Reading marks the
// counterparty's messages as read.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri projectURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	messages, err := h.service.List(ctx, authPayload.Username, uri.ID)
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: messages})
}

// UnreadCount handles http request to count unread messages across the
// caller's projects.
func (h *Handler) UnreadCount(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := middleware.AuthPayload(gctx)

	count, err := h.service.UnreadCount(ctx, authPayload.Username)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: gin.H{"unread": count}})
}
