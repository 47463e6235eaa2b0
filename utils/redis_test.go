package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions("localhost:6379", "secret", 2)
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions("redis://cache.internal:6380/3", "fallback", 0)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, "fallback", opts.Password)

	opts, err = redisOptions("redis://:inline@cache.internal:6380/0", "fallback", 0)
	require.NoError(t, err)
	assert.Equal(t, "inline", opts.Password)

	_, err = redisOptions("redis://cache.internal:6380/notadb", "", 0)
	assert.Error(t, err)
}
