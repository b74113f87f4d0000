// Package transactiondelivery manages delivery layer of transactions and balances.
package transactiondelivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-points/internal/domain"
	"github.com/go-petr/pet-points/pkg/errorspkg"
	"github.com/go-petr/pet-points/pkg/web"
)

// ErrEmptyBatch indicates that an empty array of transactions was posted.
var ErrEmptyBatch = errors.New("at least one transaction is required")

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Add(ctx context.Context, args []domain.CreateTransactionParams) ([]domain.Transaction, error)
	Balances(ctx context.Context) domain.Projection
	List(ctx context.Context) []domain.Transaction
	FindByTimestamp(ctx context.Context, timestamp string) (int, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type request struct {
	Payer     string      `json:"payer" binding:"required"`
	Points    json.Number `json:"points" binding:"required"`
	Timestamp string      `json:"timestamp" binding:"required,timestamp"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type dataBalances struct {
	Balances domain.Projection `json:"balances"`
}

type dataIndex struct {
	Index int `json:"index"`
}

// bindRequests decodes a single transaction object or an array of them and
// validates every entry.
func bindRequests(gctx *gin.Context) ([]request, error) {
	body, err := gctx.GetRawData()
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)

	var reqs []request

	if len(body) > 0 && body[0] == '[' {
		err = json.Unmarshal(body, &reqs)
	} else {
		var req request
		err = json.Unmarshal(body, &req)
		reqs = []request{req}
	}

	if err != nil {
		return nil, err
	}

	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}

	for i := range reqs {
		if err := binding.Validator.ValidateStruct(&reqs[i]); err != nil {
			return nil, err
		}
	}

	return reqs, nil
}

func bindError(gctx *gin.Context, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
		return
	}

	gctx.JSON(http.StatusBadRequest, web.Error(err))
}

// Create handles http request to add one or more transactions.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	reqs, err := bindRequests(gctx)
	if err != nil {
		l.Info().Err(err).Send()
		bindError(gctx, err)

		return
	}

	args := make([]domain.CreateTransactionParams, len(reqs))
	for i, req := range reqs {
		args[i] = domain.CreateTransactionParams{
			Payer:     req.Payer,
			Points:    req.Points.String(),
			Timestamp: req.Timestamp,
		}
	}

	txs, err := h.service.Add(ctx, args)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrInvalidTransaction) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransactions{txs}})
}

// List handles http request to list all transactions in timestamp order.
func (h *Handler) List(gctx *gin.Context) {
	txs := h.service.List(gctx.Request.Context())
	if txs == nil {
		txs = []domain.Transaction{}
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataTransactions{txs}})
}

// Balances handles http request to get the points balance of every payer.
func (h *Handler) Balances(gctx *gin.Context) {
	balances := h.service.Balances(gctx.Request.Context())
	if balances == nil {
		balances = domain.Projection{}
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataBalances{balances}})
}

type positionRequest struct {
	Timestamp string `form:"timestamp" binding:"required,timestamp"`
}

// Position handles http request to find the ledger index of a timestamp.
func (h *Handler) Position(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req positionRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		bindError(gctx, err)

		return
	}

	index, err := h.service.FindByTimestamp(ctx, req.Timestamp)
	if err != nil {
		l.Info().Err(err).Send()

		if errors.Is(err, domain.ErrInvalidTransaction) {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: dataIndex{index}})
}
