package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

func TestTxRunner_CommitsOnSuccess(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectQuery(`UPDATE purchase_order_counter`).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(1)))
	mock.ExpectCommit()

	var seq int64
	err = NewTxRunner(mock).Run(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		var err error
		seq, err = repos.Orders.NextSequence(ctx)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectRollback()

	err = NewTxRunner(mock).Run(context.Background(), func(context.Context, repository.Repositories) error {
		return domain.ErrInsufficientStock
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_CommitSerializationFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})

	err = NewTxRunner(mock).Run(context.Background(), func(context.Context, repository.Repositories) error {
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentWrite)
}

func TestTxRunner_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted}).WillReturnError(errors.New("conn refused"))

	called := false
	err = NewTxRunner(mock).Run(context.Background(), func(context.Context, repository.Repositories) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}

func TestWrapErr(t *testing.T) {
	plain := errors.New("boom")
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"código duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "articles_code_key"}, domain.ErrDuplicateCode},
		{"qr duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "articles_qr_value_key"}, domain.ErrDuplicateQR},
		{"cuit duplicado", &pgconn.PgError{Code: "23505", ConstraintName: "suppliers_tax_id_key"}, domain.ErrDuplicateTaxID},
		{"otro único", &pgconn.PgError{Code: "23505", ConstraintName: "otro_key"}, domain.ErrDuplicate},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, domain.ErrConcurrentWrite},
		{"serialización", &pgconn.PgError{Code: "40001"}, domain.ErrConcurrentWrite},
		{"genérico", plain, plain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, wrapErr("op", tt.in), tt.want)
		})
	}
	assert.Contains(t, wrapErr("insert article", plain).Error(), "insert article")
}
