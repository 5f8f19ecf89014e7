package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/buildops/internal/db"
	"github.com/alexanderramin/buildops/internal/domain"
	"github.com/alexanderramin/buildops/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFileStore creates a file-backed store. Unlike :memory:, a file-backed
// DB runs with a real connection pool, which is what concurrent writers hit.
func newFileStore(t *testing.T) *Store[domain.Client, *domain.Client] {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Seed(context.Background(), database))
	return NewStore[domain.Client](domain.KindClients, db.NewSQLiteUnitOfWork(database))
}

func TestConcurrentCreates_UniqueIDs(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	const n = 20
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := s.Create(ctx, testutil.NewTestClient("Concurrent"))
			ids[i], errs[i] = c.ID, err
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range ids {
		require.NoError(t, errs[i])
		assert.False(t, seen[ids[i]], "duplicate id %s", ids[i])
		seen[ids[i]] = true
	}

	all, err := s.List(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 5+n)
}

func TestConcurrentReadsDuringWrites(t *testing.T) {
	s := newFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, testutil.NewTestClient("Writer"))
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			list, err := s.List(ctx, domain.Filter{})
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, len(list), 5)
		}()
	}
	wg.Wait()
}
