package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"villager-registry/internal/domain"
	"villager-registry/internal/repository"
)

type mockCharacterRepo struct {
	chars     map[string]domain.Character
	order     []string
	updates   []domain.FieldUpdate
	creates   int
	findErr   error
	listErr   error
	createErr error
	updateErr error
}

func newMockCharacterRepo(chars ...domain.Character) *mockCharacterRepo {
	m := &mockCharacterRepo{chars: make(map[string]domain.Character)}
	for _, c := range chars {
		m.chars[c.Name] = c
		m.order = append(m.order, c.Name)
	}
	return m
}

func (m *mockCharacterRepo) Create(_ context.Context, c domain.Character) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.chars[c.Name]; ok {
		return repository.ErrDuplicateKey
	}
	m.creates++
	m.chars[c.Name] = c
	m.order = append(m.order, c.Name)
	return nil
}

func (m *mockCharacterRepo) FindByName(_ context.Context, name string) (domain.Character, error) {
	if m.findErr != nil {
		return domain.Character{}, m.findErr
	}
	c, ok := m.chars[name]
	if !ok {
		return domain.Character{}, repository.ErrNotFound
	}
	return c, nil
}

func (m *mockCharacterRepo) List(_ context.Context) ([]domain.Character, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []domain.Character{}
	for _, name := range m.order {
		if c, ok := m.chars[name]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCharacterRepo) UpdateField(_ context.Context, name string, u domain.FieldUpdate) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	c, ok := m.chars[name]
	if !ok {
		return repository.ErrNotFound
	}
	m.updates = append(m.updates, u)
	delete(m.chars, name)
	c = u.Apply(c)
	m.chars[c.Name] = c
	for i, n := range m.order {
		if n == name {
			m.order[i] = c.Name
		}
	}
	return nil
}

func pennyInput() CharacterInput {
	return CharacterInput{Name: "Penny", BirthdaySeason: "Spring", BirthdayDay: "2", IsBachelor: "false", BestGift: "Pomegranate"}
}

func pennyCharacter() domain.Character {
	return domain.Character{Name: "Penny", BirthdaySeason: domain.SeasonSpring, BirthdayDay: 2, IsBachelor: false, BestGift: "Pomegranate"}
}

func TestCharacterService_CreateThenGet(t *testing.T) {
	repo := newMockCharacterRepo()
	svc := NewCharacterService(zap.NewNop(), repo)
	ctx := context.Background()

	created, err := svc.CreateCharacter(ctx, pennyInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created != pennyCharacter() {
		t.Fatalf("created %+v", created)
	}
	got, err := svc.GetCharacter(ctx, "Penny")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != pennyCharacter() {
		t.Fatalf("got %+v, want %+v", got, pennyCharacter())
	}
}

func TestCharacterService_CreateValidatesBeforeInsert(t *testing.T) {
	repo := newMockCharacterRepo()
	svc := NewCharacterService(zap.NewNop(), repo)

	in := pennyInput()
	in.BirthdayDay = "29"
	if _, err := svc.CreateCharacter(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.creates != 0 {
		t.Fatalf("expected no insert, got %d", repo.creates)
	}
}

func TestCharacterService_CreateDuplicate(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)
	if _, err := svc.CreateCharacter(context.Background(), pennyInput()); !errors.Is(err, ErrCharacterExists) {
		t.Fatalf("expected ErrCharacterExists, got %v", err)
	}
}

func TestCharacterService_CreateStorageFailure(t *testing.T) {
	repo := newMockCharacterRepo()
	repo.createErr = errors.New("connection refused")
	svc := NewCharacterService(zap.NewNop(), repo)
	if _, err := svc.CreateCharacter(context.Background(), pennyInput()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestCharacterService_Lookup(t *testing.T) {
	abigail := DefaultCharacters()[0]
	repo := newMockCharacterRepo(abigail, pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)
	ctx := context.Background()

	if _, err := svc.Lookup(ctx, ""); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected ErrUsage, got %v", err)
	}
	all, err := svc.Lookup(ctx, "all")
	if err != nil || len(all) != 2 {
		t.Fatalf("lookup all = %+v, %v", all, err)
	}
	one, err := svc.Lookup(ctx, "Penny")
	if err != nil || len(one) != 1 || one[0] != pennyCharacter() {
		t.Fatalf("lookup Penny = %+v, %v", one, err)
	}
	if _, err := svc.Lookup(ctx, "Ghost"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestCharacterService_ChangeAppliesOnlyHighestPriority(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)

	got, err := svc.ChangeCharacter(context.Background(), ChangeRequest{
		Name:              "Penny",
		ChangeBirthdayDay: strPtr("5"),
		ChangeBestGift:    strPtr("Diamond"),
	})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if len(repo.updates) != 1 || repo.updates[0].Field != domain.FieldBirthdayDay {
		t.Fatalf("expected a single birthday_day update, got %+v", repo.updates)
	}
	want := pennyCharacter()
	want.BirthdayDay = 5
	if got != want || repo.chars["Penny"] != want {
		t.Fatalf("got %+v, stored %+v, want %+v", got, repo.chars["Penny"], want)
	}
}

func TestCharacterService_ChangeRenameReturnsRenamed(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)

	got, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Penny", ChangeName: strPtr("Pam")})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if got.Name != "Pam" || got.BestGift != "Pomegranate" {
		t.Fatalf("unexpected renamed character %+v", got)
	}
}

func TestCharacterService_ChangeMissingCharacter(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)

	_, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Ghost", ChangeBestGift: strPtr("Diamond")})
	if !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
	if len(repo.updates) != 0 || repo.chars["Penny"] != pennyCharacter() {
		t.Fatalf("store was modified: %+v", repo.updates)
	}
}

func TestCharacterService_TextValuesAreKeptAsSent(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)
	ctx := context.Background()

	in := pennyInput()
	in.Name = "Mr. Qi "
	in.BestGift = " Solar Essence"
	created, err := svc.CreateCharacter(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Name != "Mr. Qi " || created.BestGift != " Solar Essence" {
		t.Fatalf("values were altered: %+v", created)
	}

	_, err = svc.ChangeCharacter(ctx, ChangeRequest{Name: " Penny", ChangeBestGift: strPtr("Diamond")})
	if !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("expected lookup by the exact name to miss, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("store was modified: %+v", repo.updates)
	}
}

func TestCharacterService_ChangeNothingRequested(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)

	_, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Penny"})
	if !errors.Is(err, ErrNoChangeRequested) {
		t.Fatalf("expected ErrNoChangeRequested, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no mutation, got %+v", repo.updates)
	}
}

func TestCharacterService_ChangeInvalidValue(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	svc := NewCharacterService(zap.NewNop(), repo)

	_, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Penny", ChangeIsBachelor: strPtr("yes")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no mutation, got %+v", repo.updates)
	}
}

func TestCharacterService_ChangeLookupStorageFailureIsDistinct(t *testing.T) {
	repo := newMockCharacterRepo(pennyCharacter())
	repo.findErr = errors.New("connection reset")
	svc := NewCharacterService(zap.NewNop(), repo)

	_, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Penny", ChangeBestGift: strPtr("Diamond")})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
	if errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("storage failure must not look like not found")
	}
}

func TestCharacterService_ChangeUpdateErrors(t *testing.T) {
	cases := []struct {
		name    string
		repoErr error
		want    error
	}{
		{"vanished between check and update", repository.ErrNotFound, ErrCharacterNotFound},
		{"rename collision", repository.ErrDuplicateKey, ErrCharacterExists},
		{"storage", errors.New("timeout"), ErrStorageUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMockCharacterRepo(pennyCharacter())
			repo.updateErr = tc.repoErr
			svc := NewCharacterService(zap.NewNop(), repo)
			_, err := svc.ChangeCharacter(context.Background(), ChangeRequest{Name: "Penny", ChangeName: strPtr("Abigail")})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCharacterService_SeedDefaultsSkipsExisting(t *testing.T) {
	repo := newMockCharacterRepo(DefaultCharacters()[0])
	svc := NewCharacterService(zap.NewNop(), repo)
	ctx := context.Background()

	n, err := svc.SeedDefaults(ctx)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(DefaultCharacters())-1 {
		t.Fatalf("expected %d inserted, got %d", len(DefaultCharacters())-1, n)
	}
	n, err = svc.SeedDefaults(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second seed = %d, %v", n, err)
	}
}

func TestCharacterService_SeedDefaultsStorageFailure(t *testing.T) {
	repo := newMockCharacterRepo()
	repo.createErr = errors.New("down")
	svc := NewCharacterService(zap.NewNop(), repo)
	if _, err := svc.SeedDefaults(context.Background()); !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}
