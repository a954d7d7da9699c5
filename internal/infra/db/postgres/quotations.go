package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"labquote/go_backend/internal/domain/quote"
)

var ErrNotFound = errors.New("postgres: not found")

const schema = `
CREATE TABLE IF NOT EXISTS quotations (
	number       TEXT PRIMARY KEY,
	created_date DATE NOT NULL,
	expiry_date  DATE NOT NULL,
	grand_total  BIGINT NOT NULL,
	document     JSONB NOT NULL,
	stored_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// QuotationStore keeps each quotation as one JSONB document keyed by number.
type QuotationStore struct {
	db *DB
}

func NewQuotationStore(db *DB) *QuotationStore { return &QuotationStore{db: db} }

func (s *QuotationStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: create quotations table: %w", err)
	}
	return nil
}

func (s *QuotationStore) Save(ctx context.Context, q quote.Quotation) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("postgres: encode quotation %s: %w", q.Number, err)
	}
	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO quotations (number, created_date, expiry_date, grand_total, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (number) DO UPDATE SET
			created_date = EXCLUDED.created_date,
			expiry_date  = EXCLUDED.expiry_date,
			grand_total  = EXCLUDED.grand_total,
			document     = EXCLUDED.document,
			stored_at    = now()`,
		q.Number, q.CreatedDate, q.ExpiryDate, int64(q.Summary.GrandTotal), doc)
	if err != nil {
		return fmt.Errorf("postgres: save quotation %s: %w", q.Number, err)
	}
	return nil
}

func (s *QuotationStore) Get(ctx context.Context, number string) (quote.Quotation, error) {
	var doc []byte
	err := s.db.Pool.QueryRow(ctx, `SELECT document FROM quotations WHERE number = $1`, number).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return quote.Quotation{}, ErrNotFound
	}
	if err != nil {
		return quote.Quotation{}, fmt.Errorf("postgres: get quotation %s: %w", number, err)
	}
	var q quote.Quotation
	if err := json.Unmarshal(doc, &q); err != nil {
		return quote.Quotation{}, fmt.Errorf("postgres: decode quotation %s: %w", number, err)
	}
	return q, nil
}
