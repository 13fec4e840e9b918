package memory

import "context"

// TxManager транзакции над Store
// Транзакции выполняются строго по одной; при ошибке изменения записей откатываются
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.store.txMu.Lock()
	defer m.store.txMu.Unlock()

	snap, nextID := m.store.snapshotAppointments()
	defer func() {
		if p := recover(); p != nil {
			m.store.restoreAppointments(snap, nextID)
			panic(p)
		}
		if err != nil {
			m.store.restoreAppointments(snap, nextID)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}
