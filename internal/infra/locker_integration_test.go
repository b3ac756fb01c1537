//go:build integration

package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestLocker(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := NewRedis(url)
	require.NoError(t, err)

	l := NewLocker(rdb, 5*time.Second)
	l.intentos = 1

	liberar, err := l.Bloquear(ctx, "caja_fuerte:test")
	require.NoError(t, err)

	_, err = l.Bloquear(ctx, "caja_fuerte:test")
	assert.ErrorIs(t, err, ErrRecursoOcupado)

	otra, err := l.Bloquear(ctx, "caja:apertura")
	require.NoError(t, err)
	otra()

	liberar()
	liberar2, err := l.Bloquear(ctx, "caja_fuerte:test")
	require.NoError(t, err)
	liberar2()
}
