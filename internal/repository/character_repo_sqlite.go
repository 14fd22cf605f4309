package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"villager-registry/internal/domain"
)

// SQLiteCharacterRepository persiste personajes en un archivo SQLite local.
type SQLiteCharacterRepository struct {
	db *sql.DB
}

func NewSQLiteCharacterRepository(db *sql.DB) *SQLiteCharacterRepository {
	return &SQLiteCharacterRepository{db: db}
}

func (r *SQLiteCharacterRepository) Create(ctx context.Context, character domain.Character) error {
	const query = `
		INSERT INTO characters (name, birthday_season, birthday_day, is_bachelor, best_gift)
		VALUES (?, ?, ?, ?, ?)
	`
	args, err := insertArgs(character)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *SQLiteCharacterRepository) FindByName(ctx context.Context, name string) (domain.Character, error) {
	const query = `
		SELECT ` + characterColumns + `
		FROM characters
		WHERE name = ?
	`
	c, err := scanCharacter(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Character{}, ErrNotFound
	}
	return c, err
}

func (r *SQLiteCharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	const query = `
		SELECT ` + characterColumns + `
		FROM characters
		ORDER BY name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chars := []domain.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chars, nil
}

func (r *SQLiteCharacterRepository) UpdateField(ctx context.Context, name string, update domain.FieldUpdate) error {
	query, value, err := buildUpdate(update, "?", "?")
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, value, name)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func isSQLiteUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ CharacterRepository = (*SQLiteCharacterRepository)(nil)
