// Package projectdelivery manages delivery layer of translation projects.
package projectdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/linguamarket/lingua/internal/domain"
	"github.com/linguamarket/lingua/internal/middleware"
	"github.com/linguamarket/lingua/pkg/errorspkg"
	"github.com/linguamarket/lingua/pkg/web"
)

// Service provides service layer interface needed by project delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package projectdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateProjectParams) (domain.Project, error)
	Get(ctx context.Context, id int64) (domain.Project, error)
	List(ctx context.Context, username string) ([]domain.Project, error)
	UpdateStatus(ctx context.Context, username string, status domain.ProjectStatus, id int64) (domain.Project, error)
	Delete(ctx context.Context, username string, id int64) (domain.Project, error)
}

// Handler facilitates project delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns project handler.
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
	case domain.ErrProjectStatusFinal:
		gctx.JSON(http.StatusConflict, web.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
	}
}

type createRequest struct {
	Title          string    `json:"title" binding:"required"`
	SourceLanguage string    `json:"source_language" binding:"required"`
	TargetLanguage string    `json:"target_language" binding:"required"`
	WordCount      int32     `json:"word_count" binding:"required,gt=0"`
	Deadline       time.Time `json:"deadline" binding:"required"`
	Price          string    `json:"price" binding:"required"`
}

// Create handles http request to post a translation project.
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

	project, err := h.service.Create(ctx, domain.CreateProjectParams{
		Title:          req.Title,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		WordCount:      req.WordCount,
		Deadline:       req.Deadline,
		Price:          req.Price,
		Client:         authPayload.Username,
	})
	if err != nil {
		if err == domain.ErrInvalidAmount || err == domain.ErrNegativeAmount {
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: project})
}

type idRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to fetch one project.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	project, err := h.service.Get(ctx, req.ID)
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: project})
}

// List handles http request to list the caller's projects.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := middleware.AuthPayload(gctx)

	projects, err := h.service.List(ctx, authPayload.Username)
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: projects})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=assigned in-progress review completed cancelled"`
}

// UpdateStatus handles http request to move a project through its workflow.
func (h *Handler) UpdateStatus(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	var req updateStatusRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	project, err := h.service.UpdateStatus(ctx, authPayload.Username, domain.ProjectStatus(req.Status), uri.ID)
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: project})
}

// Delete handles http request to withdraw a project.
func (h *Handler) Delete(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: bindErrorMsg(err)})

		return
	}

	authPayload := middleware.AuthPayload(gctx)

	project, err := h.service.Delete(ctx, authPayload.Username, req.ID)
	if err != nil {
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: project})
}
