package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"villager-registry/internal/domain"
	"villager-registry/internal/repository"
)

var (
	ErrCharacterNotFound  = errors.New("character not found")
	ErrCharacterExists    = errors.New("character already exists")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrUsage              = errors.New("provide an argument like 'all' or a character's name")
)

// LookupAll es el token que pide la lista completa.
const LookupAll = "all"

// CharacterService coordina validacion, despacho de cambios y persistencia.
type CharacterService struct {
	logger     *zap.Logger
	characters repository.CharacterRepository
}

func NewCharacterService(logger *zap.Logger, characters repository.CharacterRepository) *CharacterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CharacterService{
		logger:     logger,
		characters: characters,
	}
}

// CreateCharacter valida los cinco campos antes de intentar el INSERT.
func (s *CharacterService) CreateCharacter(ctx context.Context, input CharacterInput) (domain.Character, error) {
	character, err := ValidateCharacter(input)
	if err != nil {
		return domain.Character{}, err
	}
	if err := s.characters.Create(ctx, character); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return domain.Character{}, fmt.Errorf("%w: %q", ErrCharacterExists, character.Name)
		}
		return domain.Character{}, s.storageError("create character", err)
	}
	s.logger.Info("character created", zap.String("name", character.Name))
	return character, nil
}

func (s *CharacterService) GetCharacter(ctx context.Context, name string) (domain.Character, error) {
	c, err := s.characters.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Character{}, fmt.Errorf("%w: %q", ErrCharacterNotFound, name)
		}
		return domain.Character{}, s.storageError("get character", err)
	}
	return c, nil
}

func (s *CharacterService) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	chars, err := s.characters.List(ctx)
	if err != nil {
		return nil, s.storageError("list characters", err)
	}
	return chars, nil
}

// Lookup resuelve un token de lectura: "" es un error de uso, "all"
// devuelve todos y cualquier otro texto busca ese nombre.
func (s *CharacterService) Lookup(ctx context.Context, token string) ([]domain.Character, error) {
	token = strings.TrimSpace(token)
	switch token {
	case "":
		return nil, ErrUsage
	case LookupAll:
		return s.ListCharacters(ctx)
	}
	c, err := s.GetCharacter(ctx, token)
	if err != nil {
		return nil, err
	}
	return []domain.Character{c}, nil
}

// ChangeCharacter confirma que el personaje existe, resuelve el unico campo
// a cambiar y devuelve el personaje ya actualizado.
// La verificacion y el UPDATE son sentencias separadas; no hay transaccion.
func (s *CharacterService) ChangeCharacter(ctx context.Context, req ChangeRequest) (domain.Character, error) {
	name, err := ParseName(req.Name)
	if err != nil {
		return domain.Character{}, err
	}
	current, err := s.GetCharacter(ctx, name)
	if err != nil {
		return domain.Character{}, err
	}

	update, err := ResolveChange(req)
	if err != nil {
		return domain.Character{}, err
	}
	if populated := req.Populated(); len(populated) > 1 {
		ignored := make([]string, 0, len(populated)-1)
		for _, f := range populated[1:] {
			ignored = append(ignored, f.String())
		}
		s.logger.Warn("change request has several fields, applying the first",
			zap.String("name", name),
			zap.String("applied", update.Field.String()),
			zap.Strings("ignored", ignored),
		)
	}

	if err := s.characters.UpdateField(ctx, name, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return domain.Character{}, fmt.Errorf("%w: %q", ErrCharacterNotFound, name)
		case errors.Is(err, repository.ErrDuplicateKey):
			return domain.Character{}, fmt.Errorf("%w: %q", ErrCharacterExists, update.Text)
		default:
			return domain.Character{}, s.storageError("update character", err)
		}
	}
	s.logger.Info("character changed", zap.String("name", name), zap.String("field", update.Field.String()))

	updated := update.Apply(current)
	if fresh, err := s.characters.FindByName(ctx, updated.Name); err == nil {
		updated = fresh
	} else {
		s.logger.Warn("re-read after change failed", zap.String("name", updated.Name), zap.Error(err))
	}
	return updated, nil
}

func (s *CharacterService) storageError(op string, err error) error {
	s.logger.Error(op+" failed", zap.Error(err))
	return fmt.Errorf("%w: %s: %v", ErrStorageUnavailable, op, err)
}
