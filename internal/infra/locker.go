package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrRecursoOcupado = errors.New("el recurso está siendo modificado por otra operación, intente de nuevo")

// Locker hands out short-lived redis locks. The database row locks remain the
// source of truth; this keeps concurrent manual edits from piling up on them.
type Locker struct {
	client *redislock.Client
	ttl    time.Duration
	// intentos bounds how long Bloquear waits for a busy lock.
	intentos int
}

func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: redislock.New(rdb), ttl: ttl, intentos: 30}
}

// Bloquear obtains lock:<clave>, retrying for about three seconds.
func (l *Locker) Bloquear(ctx context.Context, clave string) (func(), error) {
	lock, err := l.client.Obtain(ctx, "lock:"+clave, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), l.intentos),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrRecursoOcupado
	}
	if err != nil {
		return nil, fmt.Errorf("locker: %w", err)
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("clave", clave).Msg("locker: no se pudo liberar")
		}
	}, nil
}
