package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"villager-registry/internal/domain"
)

// ErrInvalidInput agrupa todos los rechazos de validacion de campos.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describe el valor rechazado y el dominio permitido.
type ValidationError struct {
	Field   domain.Field
	Value   string
	Allowed string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Allowed)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

const (
	allowedSeasons  = "only spring, summer, fall or winter allowed"
	allowedDays     = "provide a whole number from 0 to 28, seasons only have 28 days"
	allowedBachelor = "only true or false allowed"
	allowedText     = "must not be empty or only spaces"
)

// ParseSeason valida el texto de una estacion sin distinguir mayusculas.
func ParseSeason(text string) (domain.Season, error) {
	s, err := domain.ParseSeason(text)
	if err != nil {
		return 0, &ValidationError{Field: domain.FieldBirthdaySeason, Value: text, Allowed: allowedSeasons}
	}
	return s, nil
}

// ParseDay acepta enteros no negativos hasta 28, incluido el 0.
func ParseDay(text string) (uint8, error) {
	n, err := strconv.ParseUint(text, 10, 8)
	if err != nil || n > domain.MaxBirthdayDay {
		return 0, &ValidationError{Field: domain.FieldBirthdayDay, Value: text, Allowed: allowedDays}
	}
	return uint8(n), nil
}

// ParseBachelor solo acepta "true" o "false" (sin importar mayusculas).
func ParseBachelor(text string) (bool, error) {
	switch strings.ToLower(text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, &ValidationError{Field: domain.FieldIsBachelor, Value: text, Allowed: allowedBachelor}
	}
}

func ParseName(text string) (string, error) {
	return parseText(domain.FieldName, text)
}

func ParseGift(text string) (string, error) {
	return parseText(domain.FieldBestGift, text)
}

// parseText rechaza texto vacio o solo espacios; el resto se guarda tal cual.
func parseText(field domain.Field, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &ValidationError{Field: field, Value: text, Allowed: allowedText}
	}
	return text, nil
}

// CharacterInput son los cinco campos crudos de un alta.
type CharacterInput struct {
	Name           string
	BirthdaySeason string
	BirthdayDay    string
	IsBachelor     string
	BestGift       string
}

// ValidateCharacter convierte la entrada cruda en un Character tipado,
// devolviendo el primer rechazo en orden de columnas.
func ValidateCharacter(in CharacterInput) (domain.Character, error) {
	name, err := ParseName(in.Name)
	if err != nil {
		return domain.Character{}, err
	}
	season, err := ParseSeason(in.BirthdaySeason)
	if err != nil {
		return domain.Character{}, err
	}
	day, err := ParseDay(in.BirthdayDay)
	if err != nil {
		return domain.Character{}, err
	}
	bachelor, err := ParseBachelor(in.IsBachelor)
	if err != nil {
		return domain.Character{}, err
	}
	gift, err := ParseGift(in.BestGift)
	if err != nil {
		return domain.Character{}, err
	}
	return domain.Character{
		Name:           name,
		BirthdaySeason: season,
		BirthdayDay:    day,
		IsBachelor:     bachelor,
		BestGift:       gift,
	}, nil
}
