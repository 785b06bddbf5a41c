package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "domain_registry",
		Columns:      []string{"domain", "category"},
		ConflictKeys: []string{"domain"},
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "domain_registry",
		ConflictKeys: []string{"domain"},
	}, [][]any{{"boe.es", "government"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "domain_registry",
		Columns: []string{"domain", "category"},
	}, [][]any{{"boe.es", "government"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_TempTableFlow(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_domain_registry"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_domain_registry"}, []string{"domain", "category"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "domain_registry" \("domain", "category"\) SELECT "domain", "category" FROM "_tmp_upsert_domain_registry" ON CONFLICT \("domain"\) DO UPDATE SET "category" = EXCLUDED\."category"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "domain_registry",
		Columns:      []string{"domain", "category"},
		ConflictKeys: []string{"domain"},
	}, [][]any{
		{"boe.es", "government"},
		{"ine.es", "statistics"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteAndJoin(t *testing.T) {
	result := quoteAndJoin([]string{"domain", "category", "trust_score"})
	assert.Equal(t, `"domain", "category", "trust_score"`, result)
}
