package legacy

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func intPtr(v int) *int { return &v }

func business(name string, neighborhood models.Neighborhood, businessType string) models.LegacyBusiness {
	return models.LegacyBusiness{
		BusinessName: name,
		Neighborhood: neighborhood,
		BusinessType: businessType,
	}
}

func document(t *testing.T, b models.LegacyBusiness) []byte {
	t.Helper()
	raw, err := json.Marshal(b)
	require.NoError(t, err)
	return raw
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

// ==========================
// Memory Store
// ==========================

func TestMemoryStore_KeepsInsertionOrder(t *testing.T) {
	store := NewMemoryStore(
		business("Zeitgeist", models.NeighborhoodMission, "Bar"),
		business("Anchor Oyster Bar", models.NeighborhoodCastro, "Restaurant"),
	)
	require.NoError(t, store.Create(context.Background(), &models.LegacyBusiness{BusinessName: "Boudin"}))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Zeitgeist", all[0].BusinessName)
	assert.Equal(t, "Anchor Oyster Bar", all[1].BusinessName)
	assert.Equal(t, "Boudin", all[2].BusinessName)
}

func TestMemoryStore_SeedDropsDuplicates(t *testing.T) {
	store := NewMemoryStore(
		business("Zeitgeist", models.NeighborhoodMission, "Bar"),
		business("ZEITGEIST", models.NeighborhoodSoMa, "Club"),
	)

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.NeighborhoodMission, all[0].Neighborhood)
}

func TestMemoryStore_GetByName(t *testing.T) {
	store := NewMemoryStore(models.LegacySeed()...)

	t.Run("case insensitive", func(t *testing.T) {
		b, err := store.GetByName(context.Background(), "the wok shop")
		require.NoError(t, err)
		assert.Equal(t, "The Wok Shop", b.BusinessName)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetByName(context.Background(), "Nope")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBusinessNotFound))
		assert.Equal(t, "Business 'Nope' not found in legacy registry", apperrors.AsStandard(err).Message)
	})
}

func TestMemoryStore_CreateDuplicate(t *testing.T) {
	store := NewMemoryStore(business("Zeitgeist", models.NeighborhoodMission, "Bar"))

	err := store.Create(context.Background(), &models.LegacyBusiness{BusinessName: " zeitgeist "})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateBusiness))
}

func TestMemoryStore_ListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(business("Zeitgeist", models.NeighborhoodMission, "Bar"))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	all[0].BusinessName = "changed"

	again, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Zeitgeist", again[0].BusinessName)
}

// ==========================
// Postgres Store
// ==========================

func TestPostgresStore_List(t *testing.T) {
	store, mock := newMockStore(t)
	a := business("Zeitgeist", models.NeighborhoodMission, "Bar")
	b := business("Boudin", models.NeighborhoodFinancial, "Bakery")

	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).
			AddRow(document(t, a)).
			AddRow(document(t, b)))

	all, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Zeitgeist", all[0].BusinessName)
	assert.Equal(t, models.NeighborhoodFinancial, all[1].Neighborhood)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"query failure", errors.New("connection reset"), apperrors.ErrCodeQueryExecutionFailed},
		{"deadline", context.DeadlineExceeded, apperrors.ErrCodeQueryTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery(regexp.QuoteMeta(listQuery)).WillReturnError(tt.err)

			_, err := store.List(context.Background())
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code))
		})
	}
}

func TestPostgresStore_ListBadDocument(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte("{not json")))

	_, err := store.List(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeQueryExecutionFailed))
}

func TestPostgresStore_GetByName(t *testing.T) {
	t.Run("found by name key", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("zeitgeist").
			WillReturnRows(sqlmock.NewRows([]string{"document"}).
				AddRow(document(t, business("Zeitgeist", models.NeighborhoodMission, "Bar"))))

		b, err := store.GetByName(context.Background(), "  ZeitGeist")
		require.NoError(t, err)
		assert.Equal(t, "Zeitgeist", b.BusinessName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"document"}))

		_, err := store.GetByName(context.Background(), "Nope")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBusinessNotFound))
	})
}

func TestPostgresStore_Create(t *testing.T) {
	b := business("Zeitgeist", models.NeighborhoodMission, "Bar")

	t.Run("inserted", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs("zeitgeist", "Zeitgeist", "Mission District", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, store.Create(context.Background(), &b))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict is a duplicate", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Create(context.Background(), &b)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDuplicateBusiness))
	})

	t.Run("missing neighborhood stored as null", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs("boudin", "Boudin", nil, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, store.Create(context.Background(), &models.LegacyBusiness{BusinessName: "Boudin"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Seed(t *testing.T) {
	store, mock := newMockStore(t)
	seed := models.LegacySeed()

	results := []driver.Result{
		sqlmock.NewResult(1, 1),
		sqlmock.NewResult(0, 0),
		sqlmock.NewResult(3, 1),
	}
	for _, res := range results {
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WillReturnResult(res)
	}

	added, err := store.Seed(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SeedStopsOnError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WillReturnError(errors.New("disk full"))

	added, err := store.Seed(context.Background(), models.LegacySeed())
	require.Error(t, err)
	assert.Equal(t, 1, added)
}
