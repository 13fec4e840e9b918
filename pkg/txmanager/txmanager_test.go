package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error {
	t.committed = true
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	txs      []*fakeTx
	opts     []*sql.TxOptions
	beginErr error
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestManager_DoSerializable_Commit(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db, 3)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.Equal(t, sql.LevelSerializable, db.opts[0].Isolation)
}

func TestManager_RollbackOnError(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db, 3)
	businessErr := errors.New("slot taken")

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return businessErr
	})

	require.ErrorIs(t, err, businessErr)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].rolledBack)
	assert.False(t, db.txs[0].committed)
}

func TestManager_RetriesSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db, 3)
	calls := 0

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("wrapped: %w", &pq.Error{Code: codeSerializationFailure})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, db.txs, 3)
}

func TestManager_RetriesExhausted(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db, 1)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: codeDeadlockDetected}
	})

	require.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Len(t, db.txs, 2)
}

func TestManager_NestedCallReusesTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := New(db, 0)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
}

func TestManager_BeginError(t *testing.T) {
	m := New(&fakeBeginner{beginErr: errors.New("connection refused")}, 0)

	err := m.Do(context.Background(), func(ctx context.Context) error { return nil })

	require.ErrorIs(t, err, ErrBeginTx)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pq.Error{Code: "40001"}))
	assert.True(t, IsRetryable(fmt.Errorf("x: %w", &pq.Error{Code: "40P01"})))
	assert.False(t, IsRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, IsRetryable(errors.New("plain")))
}
