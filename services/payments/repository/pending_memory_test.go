package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scynett/momopay/services/payments/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPendingRepo_AddIsInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, "T1", "ref1", first))
	require.NoError(t, repo.Add(ctx, "t1", "ref-other", first.Add(time.Hour)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "T1", all[0].TransactionID)
	assert.Equal(t, "ref1", all[0].ClientReference)
	assert.Equal(t, first, all[0].CreatedAt)
}

func TestMemoryPendingRepo_BlankIDIgnored(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()

	require.NoError(t, repo.Add(ctx, "  ", "ref1", time.Now()))
	require.NoError(t, repo.Remove(ctx, ""))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryPendingRepo_RemoveIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()

	require.NoError(t, repo.Add(ctx, "AbC", "ref", time.Now()))
	require.NoError(t, repo.Remove(ctx, "abc"))
	require.NoError(t, repo.Remove(ctx, "missing"))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryPendingRepo_GetAllOldestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, "T3", "r3", base.Add(2*time.Minute)))
	require.NoError(t, repo.Add(ctx, "T1", "r1", base))
	require.NoError(t, repo.Add(ctx, "T2", "r2", base.Add(time.Minute)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"T1", "T2", "T3"}, []string{all[0].TransactionID, all[1].TransactionID, all[2].TransactionID})
}

func TestMemoryPendingRepo_RemoveOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()
	now := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Add(ctx, "old", "r1", now.Add(-31*24*time.Hour)))
	require.NoError(t, repo.Add(ctx, "edge", "r2", now.Add(-30*24*time.Hour)))
	require.NoError(t, repo.Add(ctx, "new", "r3", now.Add(-time.Hour)))

	removed, err := repo.RemoveOlderThan(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryPendingRepo_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryPendingRepo()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.Add(ctx, "T1", "ref", now)
			_ = repo.Add(ctx, fmt.Sprintf("T-%d", i), "ref", now)
		}(i)
	}
	wg.Wait()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 51)
}
