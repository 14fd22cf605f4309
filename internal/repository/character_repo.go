package repository

import (
	"context"
	"errors"
	"fmt"

	"villager-registry/internal/domain"
)

var (
	ErrNotFound     = errors.New("character not found")
	ErrDuplicateKey = errors.New("character already exists")
	// ErrCorruptRow indica una fila que viola las restricciones de dominio.
	ErrCorruptRow = errors.New("stored character violates field constraints")
)

// CharacterRepository define el contrato de persistencia para personajes.
type CharacterRepository interface {
	Create(ctx context.Context, character domain.Character) error
	FindByName(ctx context.Context, name string) (domain.Character, error)
	List(ctx context.Context) ([]domain.Character, error)
	UpdateField(ctx context.Context, name string, update domain.FieldUpdate) error
}

const characterColumns = "name, birthday_season, birthday_day, is_bachelor, best_gift"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (domain.Character, error) {
	var (
		c      domain.Character
		season string
		day    int64
	)
	if err := row.Scan(&c.Name, &season, &day, &c.IsBachelor, &c.BestGift); err != nil {
		return domain.Character{}, err
	}

	parsed, err := domain.ParseSeason(season)
	if err != nil {
		return domain.Character{}, fmt.Errorf("%w: %q: %v", ErrCorruptRow, c.Name, err)
	}
	if day < 0 || day > domain.MaxBirthdayDay {
		return domain.Character{}, fmt.Errorf("%w: %q: birthday_day %d", ErrCorruptRow, c.Name, day)
	}
	c.BirthdaySeason = parsed
	c.BirthdayDay = uint8(day)
	return c, nil
}

func insertArgs(c domain.Character) ([]any, error) {
	if !c.BirthdaySeason.Valid() {
		return nil, fmt.Errorf("%w: season %d", domain.ErrInvalidEnumeration, int(c.BirthdaySeason))
	}
	return []any{c.Name, c.BirthdaySeason.String(), int32(c.BirthdayDay), c.IsBachelor, c.BestGift}, nil
}

// buildUpdate arma el UPDATE de un solo campo. La columna sale de
// domain.Field; el valor y el nombre se enlazan con los placeholders dados.
func buildUpdate(update domain.FieldUpdate, valuePlaceholder, namePlaceholder string) (string, any, error) {
	column, ok := update.Field.Column()
	if !ok {
		return "", nil, fmt.Errorf("%w: field %d", domain.ErrInvalidEnumeration, int(update.Field))
	}
	value, err := update.Value()
	if err != nil {
		return "", nil, err
	}
	query := "UPDATE characters SET " + column + " = " + valuePlaceholder + " WHERE name = " + namePlaceholder
	return query, value, nil
}
