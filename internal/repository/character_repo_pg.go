package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"villager-registry/internal/domain"
)

const pgUniqueViolation = "23505"

// PgCharacterRepository implementa CharacterRepository usando pgxpool.
type PgCharacterRepository struct {
	pool *pgxpool.Pool
}

func NewPgCharacterRepository(pool *pgxpool.Pool) *PgCharacterRepository {
	return &PgCharacterRepository{pool: pool}
}

func (r *PgCharacterRepository) Create(ctx context.Context, character domain.Character) error {
	const query = `
		INSERT INTO characters (name, birthday_season, birthday_day, is_bachelor, best_gift)
		VALUES ($1, $2, $3, $4, $5)
	`
	args, err := insertArgs(character)
	if err != nil {
		return err
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		if isPgUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (r *PgCharacterRepository) FindByName(ctx context.Context, name string) (domain.Character, error) {
	const query = `
		SELECT ` + characterColumns + `
		FROM characters
		WHERE name = $1
	`
	c, err := scanCharacter(r.pool.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Character{}, ErrNotFound
	}
	return c, err
}

func (r *PgCharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	const query = `
		SELECT ` + characterColumns + `
		FROM characters
		ORDER BY name ASC
	`
	rows, err := r.pool.Query(ctx, query)
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

func (r *PgCharacterRepository) UpdateField(ctx context.Context, name string, update domain.FieldUpdate) error {
	query, value, err := buildUpdate(update, "$1", "$2")
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, query, value, name)
	if err != nil {
		if isPgUniqueViolation(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ CharacterRepository = (*PgCharacterRepository)(nil)
