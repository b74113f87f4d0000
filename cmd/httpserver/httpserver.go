// Package httpserver manages server creation and api routing.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-points/internal/eventpublisher"
	"github.com/go-petr/pet-points/internal/ledger"
	"github.com/go-petr/pet-points/internal/middleware"
	"github.com/go-petr/pet-points/internal/spenddelivery"
	"github.com/go-petr/pet-points/internal/spendservice"
	"github.com/go-petr/pet-points/internal/transactiondelivery"
	"github.com/go-petr/pet-points/internal/transactionservice"
	"github.com/go-petr/pet-points/pkg/configpkg"
	"github.com/go-petr/pet-points/pkg/timestamppkg"
)

// Server holds the ledger, event publisher, handlers router and configuration.
type Server struct {
	Ledger    *ledger.Ledger
	Publisher eventpublisher.Publisher
	Engine    *gin.Engine
	Config    configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Close releases the event publisher.
func (s *Server) Close() error {
	return s.Publisher.Close()
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	publisher, err := eventpublisher.New(config)
	if err != nil {
		return nil, errors.New("cannot create event publisher")
	}

	return NewWithPublisher(logger, config, publisher)
}

// NewWithPublisher creates Server type publishing events through the given publisher.
func NewWithPublisher(logger zerolog.Logger, config configpkg.Config, publisher eventpublisher.Publisher) (*Server, error) {
	l := ledger.New()

	transactionService := transactionservice.New(l, publisher)
	spendService := spendservice.New(l, publisher)

	transactionHandler := transactiondelivery.NewHandler(transactionService)
	spendHandler := spenddelivery.NewHandler(spendService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/transactions", transactionHandler.Create)
	engine.GET("/transactions", transactionHandler.List)
	engine.GET("/transactions/position", transactionHandler.Position)
	engine.GET("/balances", transactionHandler.Balances)
	engine.POST("/spend", spendHandler.Create)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("timestamp", timestamppkg.ValidTimestamp)
		if err != nil {
			return nil, errors.New("cannot register timestamp validator")
		}
	}

	server := &Server{
		Ledger:    l,
		Publisher: publisher,
		Engine:    engine,
		Config:    config,
	}

	return server, nil
}
