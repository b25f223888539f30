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

	"github.com/m04kA/NutriClinic-SchedulingService/pkg/dbmetrics"
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
	txs        []*fakeTx
	commitErrs []error
	opts       []*sql.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	if len(b.commitErrs) > len(b.txs) {
		tx.commitErr = b.commitErrs[len(b.txs)]
	}
	b.txs = append(b.txs, tx)
	b.opts = append(b.opts, opts)
	return tx, nil
}

func TestDoSerializable_Commits(t *testing.T) {
	beginner := &fakeBeginner{}
	tm := NewTransactionManager(beginner, WithRetryBackoff(0))

	var sawTx bool
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].committed)
	assert.Equal(t, sql.LevelSerializable, beginner.opts[0].Isolation)
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	beginner := &fakeBeginner{}
	tm := NewTransactionManager(beginner, WithRetryBackoff(0))
	businessErr := errors.New("slot occupied")

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		return businessErr
	})

	assert.ErrorIs(t, err, businessErr)
	require.Len(t, beginner.txs, 1)
	assert.True(t, beginner.txs[0].rolledBack)
	assert.False(t, beginner.txs[0].committed)
}

func TestDoSerializable_RetriesSerializationFailure(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	beginner := &fakeBeginner{commitErrs: []error{conflict, nil}}
	tm := NewTransactionManager(beginner, WithRetryBackoff(0))

	calls := 0
	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, beginner.txs, 2)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	conflict := &pq.Error{Code: "40001"}
	beginner := &fakeBeginner{commitErrs: []error{conflict, conflict, conflict}}
	tm := NewTransactionManager(beginner, WithMaxRetries(2), WithRetryBackoff(0))

	err := tm.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.True(t, IsSerializationFailure(err))
	assert.Len(t, beginner.txs, 3)
}

func TestDo_NestedReusesTransaction(t *testing.T) {
	beginner := &fakeBeginner{}
	tm := NewTransactionManager(beginner)

	err := tm.Do(context.Background(), func(ctx context.Context) error {
		return tm.DoSerializable(ctx, func(ctx context.Context) error {
			return nil
		})
	})

	require.NoError(t, err)
	assert.Len(t, beginner.txs, 1)
}

func TestErrorClassification(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})

	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsSerializationFailure(wrapped))
	assert.True(t, IsSerializationFailure(&pq.Error{Code: "40P01"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
