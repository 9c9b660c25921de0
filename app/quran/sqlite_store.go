package quran

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
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
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM quran_chapters LIMIT 1").Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking quran presence: %w", err)
	}
	return true, nil
}

func validateChapter(ch Chapter) error {
	if ch.ID < 1 || ch.ID > ChapterCount {
		return fmt.Errorf("chapter id %d out of range", ch.ID)
	}
	if len(ch.Verses) == 0 {
		return fmt.Errorf("chapter %d has no verses", ch.ID)
	}
	for i, v := range ch.Verses {
		if v.VerseNumber != i+1 {
			return fmt.Errorf("chapter %d: verse %d at position %d breaks dense numbering", ch.ID, v.VerseNumber, i)
		}
	}
	return nil
}

// SaveAll upserts every chapter inside one transaction: readers observe
// either the previous corpus or the whole new one, never a partial set.
func (s *SQLiteStore) SaveAll(ctx context.Context, chapters []Chapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quran_chapters (id, name, verse_count, verses) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			verse_count = excluded.verse_count,
			verses = excluded.verses
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, ch := range chapters {
		if err := validateChapter(ch); err != nil {
			return fmt.Errorf("rejecting quran batch: %w", err)
		}
		versesJSON, err := json.Marshal(ch.Verses)
		if err != nil {
			return fmt.Errorf("encoding chapter %d: %w", ch.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, ch.ID, ch.Name, len(ch.Verses), versesJSON); err != nil {
			return fmt.Errorf("writing chapter %d: %w", ch.ID, err)
		}
	}

	return tx.Commit()
}

// GetChapter returns nil when the id is not present. An empty collection and
// an out-of-range id look the same to the caller: data not there yet.
func (s *SQLiteStore) GetChapter(ctx context.Context, id int) (*Chapter, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, verse_count, verses FROM quran_chapters WHERE id = ?", id)

	var ch Chapter
	var versesJSON []byte
	err := row.Scan(&ch.ID, &ch.Name, &ch.VerseCount, &versesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading chapter %d: %w", id, err)
	}
	if err := json.Unmarshal(versesJSON, &ch.Verses); err != nil {
		return nil, fmt.Errorf("decoding chapter %d: %w", id, err)
	}
	return &ch, nil
}

// GetJuz runs a primary-key range scan over [start.chapter, end.chapter],
// trims the first and last chapters at the boundary verses, and concatenates
// in storage order. Only the chapters of the span are ever read.
func (s *SQLiteStore) GetJuz(ctx context.Context, juzID int) (*JuzSection, error) {
	b, err := BoundaryFor(juzID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, verses FROM quran_chapters WHERE id BETWEEN ? AND ? ORDER BY id",
		b.Start.Chapter, b.End.Chapter)
	if err != nil {
		return nil, fmt.Errorf("scanning juz %d span: %w", juzID, err)
	}
	defer rows.Close()

	var verses []Verse
	for rows.Next() {
		var chID int
		var chName string
		var versesJSON []byte
		if err := rows.Scan(&chID, &chName, &versesJSON); err != nil {
			return nil, err
		}
		var chVerses []Verse
		if err := json.Unmarshal(versesJSON, &chVerses); err != nil {
			return nil, fmt.Errorf("decoding chapter %d: %w", chID, err)
		}
		for _, v := range chVerses {
			if chID == b.Start.Chapter && v.VerseNumber < b.Start.Verse {
				continue
			}
			if chID == b.End.Chapter && v.VerseNumber > b.End.Verse {
				continue
			}
			v.ChapterName = chName
			verses = append(verses, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Empty means the corpus has not been downloaded; a valid juz over
	// present data always yields verses.
	if len(verses) == 0 {
		return nil, nil
	}

	return &JuzSection{
		ID:     juzID,
		Label:  fmt.Sprintf("%d. Cüz", juzID),
		Verses: verses,
	}, nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM quran_chapters"); err != nil {
		return fmt.Errorf("clearing quran collection: %w", err)
	}
	return nil
}
