package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.provider", "gemini"))
	require.NoError(t, store.Set("llm.provider", "openai"))

	val, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "openai", val)
	assert.Equal(t, "openai", store.GetString("llm.provider"))

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_Numbers(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantInt   int
		wantFloat float64
	}{
		{"int", 4, 4, 4},
		{"int64", int64(8), 8, 8},
		{"float", 2.5, 2, 2.5},
		{"numeric string", "1.5", 1, 1.5},
		{"junk string", "fast", 0, 0},
		{"bool", true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewConfigStore()
			require.NoError(t, store.Set("k", tt.value))
			assert.Equal(t, tt.wantInt, store.GetInt("k"))
			assert.InDelta(t, tt.wantFloat, store.GetFloat("k"), 1e-9)
		})
	}
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("n", 3))
	require.NoError(t, store.Set("b", true))

	assert.Empty(t, store.GetString("n"))
	assert.False(t, store.GetBool("n"))
	assert.True(t, store.GetBool("b"))
	assert.Zero(t, store.GetInt("missing"))
}

func TestConfigStore_PersistenceNoops(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("extraction.concurrency", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("extraction.concurrency")
		}()
	}
	wg.Wait()
}

func TestConfigStore_SeedIsCopied(t *testing.T) {
	seed := map[string]any{"llm.provider": "gemini", "extraction.concurrency": int64(2)}
	store := NewConfigStoreWith(seed)
	seed["llm.provider"] = "openai"

	assert.Equal(t, "gemini", store.GetString("llm.provider"))
	assert.Equal(t, 2, store.GetInt("extraction.concurrency"))
	assert.Equal(t, []string{"extraction.concurrency", "llm.provider"}, store.Keys())
}

func TestConfigStore_BoolStrings(t *testing.T) {
	store := NewConfigStoreWith(map[string]any{
		"a": "true",
		"b": " 1 ",
		"c": "nope",
	})
	assert.True(t, store.GetBool("a"))
	assert.True(t, store.GetBool("b"))
	assert.False(t, store.GetBool("c"))
}
