package http

import (
	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/facilitator"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/service"
)

type Handler struct {
	facilitator *facilitator.Service
	services    *service.Services
	payments    config.Payments

	logger *logger.Logger
}

func NewHandler(facilitatorSvc *facilitator.Service, services *service.Services, payments config.Payments, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		facilitator: facilitatorSvc,
		services:    services,
		payments:    payments,
		logger:      logger,
	}
}
