package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"villager-registry/internal/domain"
)

const (
	defaultCacheTTL     = time.Minute
	redisCommandTimeout = 500 * time.Millisecond
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedCharacterRepository cachea lecturas en Redis delante de otro
// repositorio. Si Redis falla se lee del repositorio subyacente.
type CachedCharacterRepository struct {
	next   CharacterRepository
	client redisKV
	ttl    time.Duration
	prefix string
}

// NewCachedCharacterRepository devuelve next sin envolver cuando no hay cliente.
func NewCachedCharacterRepository(next CharacterRepository, client *redis.Client, ttl time.Duration) CharacterRepository {
	if client == nil {
		return next
	}
	return newCachedCharacterRepository(next, client, ttl)
}

func newCachedCharacterRepository(next CharacterRepository, client redisKV, ttl time.Duration) *CachedCharacterRepository {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedCharacterRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		prefix: "characters:",
	}
}

func (r *CachedCharacterRepository) Create(ctx context.Context, character domain.Character) error {
	if err := r.next.Create(ctx, character); err != nil {
		return err
	}
	r.invalidate(ctx, r.nameKey(character.Name))
	return nil
}

func (r *CachedCharacterRepository) FindByName(ctx context.Context, name string) (domain.Character, error) {
	key := r.nameKey(name)
	var cached domain.Character
	if r.load(ctx, key, &cached) {
		return cached, nil
	}
	c, err := r.next.FindByName(ctx, name)
	if err != nil {
		return domain.Character{}, err
	}
	r.store(ctx, key, c)
	return c, nil
}

func (r *CachedCharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	key := r.allKey()
	var cached []domain.Character
	if r.load(ctx, key, &cached) {
		return cached, nil
	}
	chars, err := r.next.List(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, chars)
	return chars, nil
}

func (r *CachedCharacterRepository) UpdateField(ctx context.Context, name string, update domain.FieldUpdate) error {
	if err := r.next.UpdateField(ctx, name, update); err != nil {
		return err
	}
	keys := []string{r.nameKey(name)}
	if update.Field == domain.FieldName {
		keys = append(keys, r.nameKey(update.Text))
	}
	r.invalidate(ctx, keys...)
	return nil
}

func (r *CachedCharacterRepository) nameKey(name string) string {
	return r.prefix + "name:" + name
}

func (r *CachedCharacterRepository) allKey() string {
	return r.prefix + "all"
}

func (r *CachedCharacterRepository) load(ctx context.Context, key string, dst any) bool {
	ctx, cancel := context.WithTimeout(ctx, redisCommandTimeout)
	defer cancel()
	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func (r *CachedCharacterRepository) store(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, redisCommandTimeout)
	defer cancel()
	_ = r.client.Set(ctx, key, payload, r.ttl).Err()
}

// invalidate borra las claves dadas y siempre la lista completa.
func (r *CachedCharacterRepository) invalidate(ctx context.Context, keys ...string) {
	ctx, cancel := context.WithTimeout(ctx, redisCommandTimeout)
	defer cancel()
	_ = r.client.Del(ctx, append(keys, r.allKey())...).Err()
}

var _ CharacterRepository = (*CachedCharacterRepository)(nil)
