// internal/legacy/postgres.go
package legacy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/johnhkchen/hack-stack/internal/common/errors"
	"github.com/johnhkchen/hack-stack/internal/models"
)

// Migrations create the registry table. Each entry is stored as a JSONB
// document keyed by its lower-cased name.
var Migrations = []string{
	`CREATE TABLE IF NOT EXISTS legacy_businesses (
		id            BIGSERIAL PRIMARY KEY,
		name_key      TEXT NOT NULL UNIQUE,
		business_name TEXT NOT NULL,
		neighborhood  TEXT,
		document      JSONB NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_legacy_businesses_neighborhood ON legacy_businesses (neighborhood)`,
}

const (
	listQuery   = `SELECT document FROM legacy_businesses ORDER BY id`
	getQuery    = `SELECT document FROM legacy_businesses WHERE name_key = $1`
	insertQuery = `INSERT INTO legacy_businesses (name_key, business_name, neighborhood, document)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name_key) DO NOTHING`
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]models.LegacyBusiness, error) {
	rows, err := s.db.QueryContext(ctx, listQuery)
	if err != nil {
		return nil, queryError("list_legacy_businesses", err)
	}
	defer rows.Close()

	out := []models.LegacyBusiness{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list_legacy_businesses", err)
		}
		var b models.LegacyBusiness
		if err := json.Unmarshal(doc, &b); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("list_legacy_businesses", fmt.Errorf("decode document: %w", err))
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError("list_legacy_businesses", err)
	}
	return out, nil
}

func (s *PostgresStore) GetByName(ctx context.Context, name string) (*models.LegacyBusiness, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, getQuery, nameKey(name)).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, queryError("get_legacy_business", err)
	}

	var b models.LegacyBusiness
	if err := json.Unmarshal(doc, &b); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("get_legacy_business", fmt.Errorf("decode document: %w", err))
	}
	return &b, nil
}

func (s *PostgresStore) Create(ctx context.Context, b *models.LegacyBusiness) error {
	doc, err := json.Marshal(b)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("encode business: %w", err))
	}

	var neighborhood sql.NullString
	if b.Neighborhood != "" {
		neighborhood = sql.NullString{String: string(b.Neighborhood), Valid: true}
	}

	res, err := s.db.ExecContext(ctx, insertQuery, nameKey(b.BusinessName), b.BusinessName, neighborhood, doc)
	if err != nil {
		return queryError("create_legacy_business", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return queryError("create_legacy_business", err)
	}
	if n == 0 {
		return apperrors.NewDuplicateBusinessError(b.BusinessName)
	}
	return nil
}

// Seed inserts businesses that are not already present and reports how many
// were added.
func (s *PostgresStore) Seed(ctx context.Context, businesses []models.LegacyBusiness) (int, error) {
	added := 0
	for i := range businesses {
		err := s.Create(ctx, &businesses[i])
		if apperrors.HasCode(err, apperrors.ErrCodeDuplicateBusiness) {
			continue
		}
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func queryError(queryType string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError(queryType)
	}
	return apperrors.NewQueryExecutionFailedError(queryType, err)
}
