package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/aliskhannn/hifdh-bot/internal/domain/entities"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

var ErrVerseNotFound = errors.New("verse not found")

const versesSchema = `
	CREATE TABLE IF NOT EXISTS verses (
		surah_number INTEGER NOT NULL,
		ayah_number  INTEGER NOT NULL,
		text         TEXT    NOT NULL,
		translation  TEXT,
		PRIMARY KEY (surah_number, ayah_number)
	)
`

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// VerseRepository reads verses from a local SQLite database.
type VerseRepository struct {
	db *sqlx.DB
}

// OpenVerseRepository opens the SQLite verse database at path and makes sure the schema exists.
func OpenVerseRepository(ctx context.Context, path string) (*VerseRepository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open verses db: %w", err)
	}

	// One connection keeps ":memory:" databases consistent and SQLite has a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err = db.ExecContext(ctx, versesSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create verses schema: %w", err)
	}

	return &VerseRepository{db: db}, nil
}

// NewVerseRepository wraps an already opened database.
func NewVerseRepository(db *sqlx.DB) *VerseRepository {
	return &VerseRepository{db: db}
}

// Close closes the underlying database.
func (r *VerseRepository) Close() error {
	return r.db.Close()
}

// GetVerse returns a single verse or ErrVerseNotFound.
func (r *VerseRepository) GetVerse(ctx context.Context, surah, ayah int) (*entities.Verse, error) {
	query := `
		SELECT surah_number, ayah_number, text, COALESCE(translation, '') AS translation
		FROM verses
		WHERE surah_number = ? AND ayah_number = ?
		LIMIT 1
	`

	var v entities.Verse
	if err := r.db.GetContext(ctx, &v, query, surah, ayah); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerseNotFound
		}
		return nil, fmt.Errorf("get verse %d:%d: %w", surah, ayah, err)
	}

	return &v, nil
}

// CountVerses returns the number of verses stored for a surah.
func (r *VerseRepository) CountVerses(ctx context.Context, surah int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM verses WHERE surah_number = ?", surah)
	if err != nil {
		return 0, fmt.Errorf("count verses of surah %d: %w", surah, err)
	}
	return count, nil
}

// GetSurahVerses returns all verses of a surah ordered by ayah number.
func (r *VerseRepository) GetSurahVerses(ctx context.Context, surah int) ([]entities.Verse, error) {
	query := `
		SELECT surah_number, ayah_number, text, COALESCE(translation, '') AS translation
		FROM verses
		WHERE surah_number = ?
		ORDER BY ayah_number
	`

	var verses []entities.Verse
	if err := r.db.SelectContext(ctx, &verses, query, surah); err != nil {
		return nil, fmt.Errorf("get verses of surah %d: %w", surah, err)
	}
	return verses, nil
}

// Upsert inserts or replaces verses in a single transaction.
func (r *VerseRepository) Upsert(ctx context.Context, verses []entities.Verse) error {
	query := `
		INSERT INTO verses (surah_number, ayah_number, text, translation)
		VALUES (:surah_number, :ayah_number, :text, :translation)
		ON CONFLICT (surah_number, ayah_number) DO UPDATE SET
			text = excluded.text,
			translation = excluded.translation
	`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range verses {
		if _, err := tx.NamedExecContext(ctx, query, v); err != nil {
			return fmt.Errorf("upsert verse %s: %w", v.Key(), err)
		}
	}

	return tx.Commit()
}
