package service

import (
	"errors"

	"villager-registry/internal/domain"
)

var ErrNoChangeRequested = errors.New("no change requested")

// ChangeRequest apunta a un personaje por nombre; se espera un solo slot poblado.
type ChangeRequest struct {
	Name                 string
	ChangeName           *string
	ChangeBirthdaySeason *string
	ChangeBirthdayDay    *string
	ChangeIsBachelor     *string
	ChangeBestGift       *string
}

// slot devuelve el valor pedido para f, o nil si no fue poblado.
func (r ChangeRequest) slot(f domain.Field) *string {
	switch f {
	case domain.FieldName:
		return r.ChangeName
	case domain.FieldBirthdaySeason:
		return r.ChangeBirthdaySeason
	case domain.FieldBirthdayDay:
		return r.ChangeBirthdayDay
	case domain.FieldIsBachelor:
		return r.ChangeIsBachelor
	case domain.FieldBestGift:
		return r.ChangeBestGift
	default:
		return nil
	}
}

// Populated lista los campos con slot poblado, en orden de prioridad.
func (r ChangeRequest) Populated() []domain.Field {
	var out []domain.Field
	for _, f := range domain.Fields {
		if r.slot(f) != nil {
			out = append(out, f)
		}
	}
	return out
}

// ResolveChange elige el primer slot poblado segun domain.Fields
// (name, season, day, bachelor, gift) y lo valida. Un slot invalido corta
// la busqueda: no se prueba el siguiente.
func ResolveChange(req ChangeRequest) (domain.FieldUpdate, error) {
	for _, f := range domain.Fields {
		raw := req.slot(f)
		if raw == nil {
			continue
		}
		return parseFieldValue(f, *raw)
	}
	return domain.FieldUpdate{}, ErrNoChangeRequested
}

func parseFieldValue(f domain.Field, raw string) (domain.FieldUpdate, error) {
	update := domain.FieldUpdate{Field: f}
	var err error
	switch f {
	case domain.FieldName:
		update.Text, err = ParseName(raw)
	case domain.FieldBirthdaySeason:
		update.Season, err = ParseSeason(raw)
	case domain.FieldBirthdayDay:
		update.Day, err = ParseDay(raw)
	case domain.FieldIsBachelor:
		update.Bachelor, err = ParseBachelor(raw)
	case domain.FieldBestGift:
		update.Text, err = ParseGift(raw)
	default:
		return domain.FieldUpdate{}, domain.ErrInvalidEnumeration
	}
	if err != nil {
		return domain.FieldUpdate{}, err
	}
	return update, nil
}

// SingleFieldChange arma un ChangeRequest con un solo slot, como lo usa la CLI.
func SingleFieldChange(name string, f domain.Field, value string) ChangeRequest {
	req := ChangeRequest{Name: name}
	switch f {
	case domain.FieldName:
		req.ChangeName = &value
	case domain.FieldBirthdaySeason:
		req.ChangeBirthdaySeason = &value
	case domain.FieldBirthdayDay:
		req.ChangeBirthdayDay = &value
	case domain.FieldIsBachelor:
		req.ChangeIsBachelor = &value
	case domain.FieldBestGift:
		req.ChangeBestGift = &value
	}
	return req
}
