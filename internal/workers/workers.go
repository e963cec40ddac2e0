package workers

import (
	"github.com/veridia/paycore/internal/logger"
	"github.com/veridia/paycore/internal/service"
	"github.com/veridia/paycore/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles the application's background workers. Currently the
// only worker is the vault ciphertext upgrade sweep.
func NewWorkers(storages store.Storages, credentials service.CredentialService, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewReencryptWorker(storages.CredentialRepository, credentials, logger),
		},
	}
}

func (w *Workers) Run() {
	for _, worker := range w.workers {
		worker.Run()
	}
}
