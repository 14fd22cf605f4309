package domain

import (
	"fmt"
	"strings"
)

// Field identifica una columna de characters. Es la unica fuente de
// identificadores SQL: los valores siempre viajan como parametros.
type Field int

const (
	FieldName Field = iota + 1
	FieldBirthdaySeason
	FieldBirthdayDay
	FieldIsBachelor
	FieldBestGift
)

// Fields esta en el orden de prioridad del despachador de cambios.
var Fields = []Field{FieldName, FieldBirthdaySeason, FieldBirthdayDay, FieldIsBachelor, FieldBestGift}

// Column devuelve el nombre literal de la columna.
func (f Field) Column() (string, bool) {
	switch f {
	case FieldName:
		return "name", true
	case FieldBirthdaySeason:
		return "birthday_season", true
	case FieldBirthdayDay:
		return "birthday_day", true
	case FieldIsBachelor:
		return "is_bachelor", true
	case FieldBestGift:
		return "best_gift", true
	default:
		return "", false
	}
}

func (f Field) String() string {
	if col, ok := f.Column(); ok {
		return col
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField resuelve el nombre de columna escrito por el usuario.
func ParseField(text string) (Field, error) {
	text = strings.TrimSpace(text)
	for _, f := range Fields {
		if col, _ := f.Column(); equalFoldASCII(text, col) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: field %q", ErrInvalidEnumeration, text)
}

// FieldUpdate es el reemplazo de un unico campo ya validado.
// Solo el slot correspondiente a Field es significativo.
type FieldUpdate struct {
	Field    Field
	Text     string
	Season   Season
	Day      uint8
	Bachelor bool
}

// Value devuelve el valor a enlazar como parametro en la sentencia UPDATE.
func (u FieldUpdate) Value() (any, error) {
	switch u.Field {
	case FieldName, FieldBestGift:
		return u.Text, nil
	case FieldBirthdaySeason:
		if !u.Season.Valid() {
			return nil, fmt.Errorf("%w: season %d", ErrInvalidEnumeration, int(u.Season))
		}
		return u.Season.String(), nil
	case FieldBirthdayDay:
		return int32(u.Day), nil
	case FieldIsBachelor:
		return u.Bachelor, nil
	default:
		return nil, fmt.Errorf("%w: field %d", ErrInvalidEnumeration, int(u.Field))
	}
}

// Apply devuelve una copia de c con el cambio aplicado.
func (u FieldUpdate) Apply(c Character) Character {
	switch u.Field {
	case FieldName:
		c.Name = u.Text
	case FieldBirthdaySeason:
		c.BirthdaySeason = u.Season
	case FieldBirthdayDay:
		c.BirthdayDay = u.Day
	case FieldIsBachelor:
		c.IsBachelor = u.Bachelor
	case FieldBestGift:
		c.BestGift = u.Text
	}
	return c
}
