package repository_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/persistence"
	"github.com/fmht/buzon-service/internal/repository"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("BUZON_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BUZON_TEST_POSTGRES_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	return pool
}

func TestCommunicationCreate_ConcurrentFoliosAreUnique(t *testing.T) {
	pool := testPool(t)
	repo := repository.NewCommunicationRepository(pool)
	ctx := context.Background()

	const workers = 25
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		folios = map[string]*domain.Communication{}
		errs   []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			comm := &domain.Communication{Kind: domain.KindSuggestion, Description: "prueba de concurrencia", Channel: domain.ChannelDigital}
			err := repo.Create(ctx, comm)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			folios[comm.Folio] = comm
		}()
	}
	wg.Wait()

	t.Cleanup(func() {
		for _, comm := range folios {
			_ = repo.Delete(context.Background(), comm.ID)
		}
	})

	require.Empty(t, errs)
	assert.Len(t, folios, workers)
	// Sequences must form one gap-free run; earlier rows may already hold the low numbers.
	lowest, highest := 0, 0
	for folio, comm := range folios {
		parsed, err := domain.ParseFolio(folio)
		require.NoError(t, err, folio)
		assert.Equal(t, domain.ChannelDigital, parsed.Channel)
		assert.Equal(t, folio, domain.FormatFolio(parsed.Channel, parsed.Sequence, comm.ReceivedAt))
		if lowest == 0 || parsed.Sequence < lowest {
			lowest = parsed.Sequence
		}
		if parsed.Sequence > highest {
			highest = parsed.Sequence
		}
	}
	assert.Equal(t, workers-1, highest-lowest)
}

func TestCommunicationRepository_NotFound(t *testing.T) {
	pool := testPool(t)
	repo := repository.NewCommunicationRepository(pool)

	_, err := repo.GetByID(context.Background(), -1)
	assert.Error(t, err)
	assert.Error(t, repo.Delete(context.Background(), -1))
}
