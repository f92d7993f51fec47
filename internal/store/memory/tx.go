package memory

import (
	"context"

	"filmorate/internal/store"
)

// TxManager держит блокировку записи на все время fn, поэтому
// многошаговые операции сервиса видны другим запросам целиком.
// Отката нет: хранилище проверяет все условия до изменения данных.
type TxManager struct {
	s *Storage
}

var _ store.TxManager = (*TxManager)(nil)

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.s.inTx(ctx) {
		return fn(ctx)
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, m.s))
}
