package service

import (
	"github.com/veridia/paycore/internal/adapter"
	"github.com/veridia/paycore/internal/config"
	"github.com/veridia/paycore/internal/crypto"
	"github.com/veridia/paycore/internal/ledger"
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/store"
)

type Services struct {
	CredentialService CredentialService
	PaymentService    PaymentService
}

func NewServices(storages store.Storages, cipher *crypto.FieldCipher, executor ledger.TransferExecutor, facilitatorClient adapter.FacilitatorClient, cfg config.StructuredConfig, logger *logger.Logger) *Services {
	credentials := NewCredentialService(storages.CredentialRepository, cipher, logger)

	return &Services{
		CredentialService: credentials,
		PaymentService:    NewPaymentService(credentials, executor, facilitatorClient, cfg.App.SignKey, logger),
	}
}
