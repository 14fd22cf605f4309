package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidEnumeration indica un texto que no corresponde a ningun valor del enum.
var ErrInvalidEnumeration = errors.New("invalid enumeration value")

// Season es la estacion del cumpleanos de un personaje.
type Season int

const (
	SeasonSpring Season = iota + 1
	SeasonSummer
	SeasonFall
	SeasonWinter
)

// Seasons lista las estaciones en orden de calendario.
var Seasons = []Season{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// String devuelve la forma canonica, usada para persistir y para mostrar.
func (s Season) String() string {
	switch s {
	case SeasonSpring:
		return "Spring"
	case SeasonSummer:
		return "Summer"
	case SeasonFall:
		return "Fall"
	case SeasonWinter:
		return "Winter"
	default:
		return fmt.Sprintf("Season(%d)", int(s))
	}
}

// Valid reporta si s es una de las cuatro estaciones.
func (s Season) Valid() bool {
	return s >= SeasonSpring && s <= SeasonWinter
}

// ParseSeason acepta el nombre canonico sin distinguir mayusculas (solo ASCII).
// No hay coincidencia por prefijo.
func ParseSeason(text string) (Season, error) {
	for _, s := range Seasons {
		if equalFoldASCII(text, s.String()) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: season %q", ErrInvalidEnumeration, text)
}

func (s Season) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: season %d", ErrInvalidEnumeration, int(s))
	}
	return json.Marshal(s.String())
}

func (s *Season) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := ParseSeason(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Character es una fila de la tabla characters; Name es la clave.
type Character struct {
	Name           string `json:"name"`
	BirthdaySeason Season `json:"birthday_season"`
	BirthdayDay    uint8  `json:"birthday_day"`
	IsBachelor     bool   `json:"is_bachelor"`
	BestGift       string `json:"best_gift"`
}

// MaxBirthdayDay es el ultimo dia de cada estacion.
const MaxBirthdayDay = 28

// equalFoldASCII compara ignorando mayusculas solo en el rango ASCII.
// strings.EqualFold haria coincidir "ſpring" (U+017F) o el signo Kelvin.
func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= utf8.RuneSelf || cb >= utf8.RuneSelf {
			return false
		}
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
