// Package notificationdelivery manages delivery layer of notification feeds.
package notificationdelivery

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

// Service provides service layer interface needed by notification delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package notificationdelivery
type Service interface {
	List(ctx context.Context, username string, limit, offset int32) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, username string) (int64, error)
	MarkRead(ctx context.Context, id int64, username string) (domain.Notification, error)
	MarkAllRead(ctx context.Context, username string) error
}

// Handler facilitates notification delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns notification handler.
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

type listRequest struct {
	Limit  int32 `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int32 `form:"offset" binding:"min=0"`
}

// List handles http request to read the caller's notification feed.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	notifications, err := h.service.List(ctx, authPayload.Username, req.Limit, req.Offset)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: notifications})
}

// UnreadCount handles http request to count the caller's unread notifications.
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

type markReadRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// MarkRead handles http request to mark one notification as read.
func (h *Handler) MarkRead(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req markReadRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	notification, err := h.service.MarkRead(ctx, req.ID, authPayload.Username)
	if err != nil {
		if err == domain.ErrNotificationNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: notification})
}

// MarkAllRead handles http request to mark every notification as read.
func (h *Handler) MarkAllRead(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := middleware.AuthPayload(gctx)

	if err := h.service.MarkAllRead(ctx, authPayload.Username); err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: gin.H{"read": true}})
}
