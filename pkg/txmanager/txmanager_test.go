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

	"github.com/m04kA/guide-sessions/pkg/dbmetrics"
)

type fakeTx struct {
	dbmetrics.DBExecutor
	committed  bool
	rolledBack bool
	commitErr  error
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
	txs       []*fakeTx
	isolation []sql.IsolationLevel
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	b.isolation = append(b.isolation, opts.Isolation)
	return tx, nil
}

type countingObserver struct{ retries int }

func (o *countingObserver) TxRetried() { o.retries++ }

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	require.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
	assert.False(t, db.txs[0].rolledBack)
	assert.Equal(t, sql.LevelSerializable, db.isolation[0])
}

func TestDoSerializable_RerunsWholeClosureOnSerializationFailure(t *testing.T) {
	db := &fakeBeginner{}
	observer := &countingObserver{}
	m := NewTransactionManager(db, WithRetryObserver(observer))

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return fmt.Errorf("repository: %w", &pq.Error{Code: "40001"})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, observer.retries)
	assert.True(t, db.txs[0].rolledBack)
	assert.True(t, db.txs[1].rolledBack)
	assert.True(t, db.txs[2].committed)
}

func TestDoSerializable_GivesUpAfterMaxRetries(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db, WithMaxRetries(2))

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return &pq.Error{Code: "40P01"}
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.Len(t, db.txs, 3)
}

func TestDoSerializable_BusinessErrorIsNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)
	errFull := errors.New("session is full")

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return errFull
	})

	assert.ErrorIs(t, err, errFull)
	assert.Equal(t, 1, calls)
	assert.True(t, db.txs[0].rolledBack)
}

func TestDo_NestedCallReusesTransaction(t *testing.T) {
	db := &fakeBeginner{}
	m := NewTransactionManager(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Len(t, db.txs, 1)
	assert.Equal(t, sql.LevelReadCommitted, db.isolation[0])
}
