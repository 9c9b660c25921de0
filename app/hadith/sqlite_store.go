package hadith

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mucahitkurt/rahle/app/common"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = &SQLiteStore{}

func (s *SQLiteStore) Exists(ctx context.Context) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM hadiths LIMIT 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking hadith presence: %w", err)
	}
	return true, nil
}

// SaveAll writes the whole collection in one transaction. seq records the
// input position so that scans and pages replay upstream order; re-saving
// the same input is a no-op upsert.
func (s *SQLiteStore) SaveAll(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hadiths (hadith_number, seq, page_index, text_folded, doc)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hadith_number) DO UPDATE SET
			seq = excluded.seq,
			page_index = excluded.page_index,
			text_folded = excluded.text_folded,
			doc = excluded.doc
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range records {
		doc, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding hadith %s: %w", r.HadithNumber, err)
		}
		folded := common.FoldTurkish(r.Text)
		if _, err := stmt.ExecContext(ctx, r.HadithNumber, i, r.PageIndex, folded, doc); err != nil {
			return fmt.Errorf("writing hadith %s: %w", r.HadithNumber, err)
		}
	}

	return tx.Commit()
}

// GetPage is an index-equality lookup on page_index. Results come back in
// insertion order; a page past the end is an empty slice.
func (s *SQLiteStore) GetPage(ctx context.Context, page int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM hadiths WHERE page_index = ? ORDER BY seq", page)
	if err != nil {
		return nil, fmt.Errorf("reading page %d: %w", page, err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetByNumbers batch-fetches records by primary key, preserving the order of
// the requested numbers. Unknown numbers are silently skipped.
func (s *SQLiteStore) GetByNumbers(ctx context.Context, numbers []string) ([]Record, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	args := make([]any, len(numbers))
	for i, n := range numbers {
		args[i] = n
	}
	query := "SELECT doc FROM hadiths WHERE hadith_number IN (?" +
		strings.Repeat(",?", len(args)-1) + ")"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading hadiths by number: %w", err)
	}
	defer rows.Close()

	found, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]Record, len(found))
	for _, r := range found {
		byNumber[r.HadithNumber] = r
	}
	records := make([]Record, 0, len(found))
	for _, n := range numbers {
		if r, ok := byNumber[n]; ok {
			records = append(records, r)
		}
	}
	return records, nil
}

// Search tests folded substring containment over the collection in insertion
// order and stops at the result cap. The folded text column is precomputed at
// ingestion with the same normalizer applied to the query here.
func (s *SQLiteStore) Search(ctx context.Context, query string) ([]Record, error) {
	folded := common.FoldTurkish(query)
	if folded == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM hadiths WHERE instr(text_folded, ?) > 0 ORDER BY seq LIMIT ?",
		folded, SearchResultCap)
	if err != nil {
		return nil, fmt.Errorf("searching hadiths: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// SearchRegex matches a regular expression against the folded text. Only
// available when the driver registers a REGEXP function.
func (s *SQLiteStore) SearchRegex(ctx context.Context, pattern string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM hadiths WHERE text_folded REGEXP ? ORDER BY seq LIMIT ?",
		pattern, SearchResultCap)
	if err != nil {
		return nil, fmt.Errorf("regex search failed: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM hadiths"); err != nil {
		return fmt.Errorf("clearing hadith collection: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal(doc, &r); err != nil {
			return nil, fmt.Errorf("decoding hadith record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
