package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisLimiterTimeout = 500 * time.Millisecond

// redisScripter es el subconjunto de *redis.Client que usa el contador.
type redisScripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisWindowScript incrementa el contador de la ventana y le pone TTL de una
// ventana; la clave ya incluye el indice, asi que nunca se reutiliza.
const redisWindowScript = `
local n = redis.call("INCR", KEYS[1])
redis.call("PEXPIRE", KEYS[1], ARGV[1])
return n
`

// RedisWindowCounter comparte los contadores entre instancias del API.
type RedisWindowCounter struct {
	client redisScripter
	prefix string
	now    func() time.Time
}

func NewRedisWindowCounter(client redisScripter) *RedisWindowCounter {
	return &RedisWindowCounter{
		client: client,
		prefix: "characters:writes:",
		now:    time.Now,
	}
}

func (c *RedisWindowCounter) key(clientKey string, window time.Duration) string {
	var b strings.Builder
	b.WriteString(c.prefix)
	b.WriteString(clientKey)
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(windowIndex(c.now(), window), 10))
	return b.String()
}

func (c *RedisWindowCounter) Incr(ctx context.Context, clientKey string, window time.Duration) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, redisLimiterTimeout)
	defer cancel()
	return c.client.Eval(ctx, redisWindowScript, []string{c.key(clientKey, window)}, window.Milliseconds()).Int64()
}

var (
	_ WindowCounter = (*RedisWindowCounter)(nil)
	_ WindowCounter = (*MemoryWindowCounter)(nil)
)
