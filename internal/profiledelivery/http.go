// Package profiledelivery manages delivery layer of the translator directory.
package profiledelivery

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

// Service provides service layer interface needed by profile delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package profiledelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateProfileParams) (domain.TranslatorProfile, error)
	Get(ctx context.Context, username string) (domain.TranslatorProfile, error)
	List(ctx context.Context) ([]domain.TranslatorProfile, error)
	SetAvailability(ctx context.Context, available bool, username string) (domain.TranslatorProfile, error)
}

// Handler facilitates profile delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns profile handler.
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

	return "invalid request body"
}

type createRequest struct {
	Languages             []string `json:"languages" binding:"required,min=1"`
	Specializations       []string `json:"specializations"`
	MaxConcurrentProjects int32    `json:"max_concurrent_projects" binding:"required,min=1"`
	PricePerWord          string   `json:"price_per_word" binding:"required"`
	ResponseTimeHours     float64  `json:"response_time_hours" binding:"required,gt=0"`
}

// Create handles http request to publish the caller's translator profile.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	profile, err := h.service.Create(ctx, domain.CreateProfileParams{
		Username:              authPayload.Username,
		Languages:             req.Languages,
		Specializations:       req.Specializations,
		Rating:                5.0,
		MaxConcurrentProjects: req.MaxConcurrentProjects,
		PricePerWord:          req.PricePerWord,
		ResponseTimeHours:     req.ResponseTimeHours,
	})
	if err != nil {
		switch err {
		case domain.ErrProfileAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: profile})
}

type getRequest struct {
	Username string `uri:"username" binding:"required,alphanum"`
}

// Get handles http request to fetch one translator profile.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	profile, err := h.service.Get(ctx, req.Username)
	if err != nil {
		if err == domain.ErrProfileNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: profile})
}

// List handles http request to browse the translator directory.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	profiles, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: profiles})
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// SetAvailability handles http request to toggle the caller's availability.
func (h *Handler) SetAvailability(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req setAvailabilityRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	profile, err := h.service.SetAvailability(ctx, *req.IsAvailable, authPayload.Username)
	if err != nil {
		if err == domain.ErrProfileNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: profile})
}
