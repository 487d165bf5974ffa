package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"pentacore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(id string) model.GenerationResult {
	return model.GenerationResult{
		ID:             id,
		ContentKind:    model.ContentKindPoem,
		EffectiveTheme: "Nature",
		Tone:           model.ToneHopeful,
		Body:           "text " + id,
		ElapsedSeconds: 1.5,
	}
}

func ids(results []model.GenerationResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestMemoryResultRepository_AddGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(10)

	in := result("a")
	in.Saved = true
	require.NoError(t, repo.Add(ctx, in))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "text a", got.Body)
	assert.False(t, got.Saved, "флаг Saved выставляется только через MarkSaved")

	assert.ErrorIs(t, repo.Add(ctx, result("a")), ErrDuplicateID)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryResultRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(10)
	require.NoError(t, repo.Add(ctx, result("a")))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	got.Body = "mutated"
	got.Saved = true

	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "text a", again.Body)
	assert.False(t, again.Saved)
}

func TestMemoryResultRepository_MarkSaved(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(10)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Add(ctx, result(id)))
	}

	saved, err := repo.MarkSaved(ctx, "a")
	require.NoError(t, err)
	assert.True(t, saved.Saved)

	_, err = repo.MarkSaved(ctx, "c")
	require.NoError(t, err)

	t.Run("idempotent", func(t *testing.T) {
		again, err := repo.MarkSaved(ctx, "a")
		require.NoError(t, err)
		assert.True(t, again.Saved)

		list, err := repo.ListSaved(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a"}, ids(list))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.MarkSaved(ctx, "zzz")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("get reflects saved", func(t *testing.T) {
		got, err := repo.Get(ctx, "c")
		require.NoError(t, err)
		assert.True(t, got.Saved)
	})
}

func TestMemoryResultRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(10)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Add(ctx, result(id)))
	}

	list, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(list))
}

func TestMemoryResultRepository_EvictsOldestUnsaved(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(2)

	require.NoError(t, repo.Add(ctx, result("a")))
	_, err := repo.MarkSaved(ctx, "a")
	require.NoError(t, err)

	for _, id := range []string{"b", "c", "d"} {
		require.NoError(t, repo.Add(ctx, result(id)))
	}

	// "a" сохранен и не вытесняется, "b" - самый старый несохраненный
	_, err = repo.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, id := range []string{"a", "c", "d"} {
		_, err := repo.Get(ctx, id)
		assert.NoError(t, err, id)
	}

	list, err := repo.ListRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "a"}, ids(list))
}

func TestMemoryResultRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryResultRepository(1000)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("r-%d", i)
			assert.NoError(t, repo.Add(ctx, result(id)))
			_, err := repo.MarkSaved(ctx, id)
			assert.NoError(t, err)
			_, err = repo.ListSaved(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := repo.ListSaved(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
