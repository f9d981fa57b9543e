package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/prefill"
	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/tei"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: filepath.Join(t.TempDir(), "test.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(ctx, db))
	return db
}

func testRecord(title, txnID string) prefill.Record {
	return prefill.Merge(
		tei.ScholarlyMetadata{Title: title, Authors: []string{"Asha Patel"}},
		receipt.PaymentFields{TransactionID: txnID, Amount: "500.00"},
		nil,
	)
}

func TestSubmissionRoundtrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepository(testDB(t), nil)

	created, err := repo.Create(ctx, testRecord("Paper A", "AXI12345678"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Paper A", created.Title)
	assert.Equal(t, "AXI12345678", created.TransactionID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	rec, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, "Paper A", rec.Title)
	assert.Equal(t, []string{"Asha Patel"}, rec.Authors)
	assert.Equal(t, "500.00", rec.Amount)
}

func TestSubmissionList(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepository(testDB(t), nil)

	_, err := repo.Create(ctx, testRecord("Paper A", "AXI12345678"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, testRecord("Paper B", "HDF98765432"))
	require.NoError(t, err)

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestSubmissionListEmpty(t *testing.T) {
	repo := NewSubmissionRepository(testDB(t), nil)
	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestSubmissionGetMissing(t *testing.T) {
	repo := NewSubmissionRepository(testDB(t), nil)
	_, err := repo.GetByID(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
