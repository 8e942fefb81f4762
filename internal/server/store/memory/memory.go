package memory

import (
	"sync"

	"go.uber.org/zap"

	"eventhub/internal/model"
)

type Store struct {
	mu      sync.Mutex
	records []model.Notification
	log     *zap.Logger
}

func New(logger *zap.Logger) *Store {
	return &Store{log: logger}
}
