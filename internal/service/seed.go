package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"villager-registry/internal/domain"
	"villager-registry/internal/repository"
)

// DefaultCharacters son los vecinos que se cargan en una base nueva.
func DefaultCharacters() []domain.Character {
	return []domain.Character{
		{Name: "Abigail", BirthdaySeason: domain.SeasonFall, BirthdayDay: 13, IsBachelor: true, BestGift: "Amethyst"},
		{Name: "Caroline", BirthdaySeason: domain.SeasonWinter, BirthdayDay: 7, IsBachelor: false, BestGift: "Fish Taco"},
		{Name: "Haley", BirthdaySeason: domain.SeasonSpring, BirthdayDay: 14, IsBachelor: true, BestGift: "Coconut"},
		{Name: "Lewis", BirthdaySeason: domain.SeasonSpring, BirthdayDay: 7, IsBachelor: false, BestGift: "Autumn's Beauty"},
		{Name: "Leah", BirthdaySeason: domain.SeasonWinter, BirthdayDay: 23, IsBachelor: true, BestGift: "Goat Cheese"},
	}
}

// SeedDefaults inserta DefaultCharacters; los que ya existen se saltean.
// Devuelve cuantos se insertaron.
func (s *CharacterService) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	for _, c := range DefaultCharacters() {
		err := s.characters.Create(ctx, c)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, repository.ErrDuplicateKey):
			continue
		default:
			return inserted, s.storageError("seed characters", err)
		}
	}
	s.logger.Info("default characters seeded", zap.Int("inserted", inserted))
	return inserted, nil
}
