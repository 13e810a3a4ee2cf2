package memory

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client)
}

func TestRedisStoreAndLookup(t *testing.T) {
	ctx := context.Background()
	mem := newTestRedis(t)

	_, hit, err := mem.Lookup(ctx, "Hello world", "en", "es")
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, mem.Store(ctx, []string{"Hello world"}, []string{"Hola mundo"}, "en", "es"))

	translated, hit, err := mem.Lookup(ctx, "Hello world", "en", "es")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "Hola mundo", translated)

	// Normalized variants share the key.
	translated, hit, err = mem.Lookup(ctx, "  HELLO WORLD ", "en", "es")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "Hola mundo", translated)
}

func TestRedisUsageCounters(t *testing.T) {
	ctx := context.Background()
	mem := newTestRedis(t)

	require.NoError(t, mem.Store(ctx, []string{"Hello world"}, []string{"Hola mundo"}, "en", "es"))

	for range 2 {
		_, hit, err := mem.Lookup(ctx, "Hello world", "en", "es")
		require.NoError(t, err)
		require.True(t, hit)
	}

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.Entries)
	require.EqualValues(t, 2, stats.TotalHits)
}

func TestRedisExportImportClear(t *testing.T) {
	ctx := context.Background()
	mem := newTestRedis(t)

	require.NoError(t, mem.Store(ctx,
		[]string{"Hello world", "Goodbye"},
		[]string{"Hola mundo", "Adios"},
		"en", "es",
	))

	entries, err := mem.Export(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	other := newTestRedis(t)
	require.NoError(t, other.Import(ctx, entries))
	translated, hit, err := other.Lookup(ctx, "Goodbye", "en", "es")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "Adios", translated)

	require.NoError(t, mem.Clear(ctx))
	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Entries)
}

func TestRedisStoreLengthMismatch(t *testing.T) {
	mem := newTestRedis(t)
	require.Error(t, mem.Store(context.Background(), []string{"a", "b"}, []string{"x"}, "en", "es"))
}
