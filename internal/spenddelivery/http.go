// Package spenddelivery manages delivery layer of spending points.
package spenddelivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-points/internal/domain"
	"github.com/go-petr/pet-points/pkg/errorspkg"
	"github.com/go-petr/pet-points/pkg/web"
)

// Service provides service layer interface needed by spend delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package spenddelivery
type Service interface {
	Spend(ctx context.Context, amount string) ([]domain.PayerPoints, error)
}

// Handler facilitates spend delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns spend handler.
func NewHandler(ss Service) *Handler {
	return &Handler{
		service: ss,
	}
}

type request struct {
	Points json.Number `json:"points" binding:"required"`
}

type data struct {
	Spent []domain.PayerPoints `json:"spent"`
}

type response struct {
	Data data `json:"data"`
}

// Create handles http request to spend points.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	spent, err := h.service.Spend(ctx, req.Points.String())
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrInvalidAmount) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	if spent == nil {
		spent = []domain.PayerPoints{}
	}

	gctx.JSON(http.StatusOK, response{Data: data{spent}})
}
