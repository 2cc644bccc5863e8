package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

func TestQuoteAdd_PrependsNewest(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryQuoteRepository(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q1", CustomerName: "Ali"}))
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q2", CustomerName: "Vali"}))

	quotes, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "q2", quotes[0].ID)
	assert.Equal(t, "q1", quotes[1].ID)
}

func TestQuoteDelete(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryQuoteRepository(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q1"}))
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q2"}))

	require.NoError(t, repo.Delete(ctx, "q1"))

	quotes, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "q2", quotes[0].ID)

	quote, err := repo.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Nil(t, quote)
}

func TestSearchByCustomer_CaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryQuoteRepository(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q1", CustomerName: "Karim aka"}))
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q2", CustomerName: "Salim"}))

	results, err := repo.SearchByCustomer(ctx, "KARIM")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "q1", results[0].ID)

	// Bo'sh so'rov hammasini qaytaradi
	all, err := repo.SearchByCustomer(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuoteClear(t *testing.T) {
	ctx := context.Background()
	repo, err := NewMemoryQuoteRepository(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, entity.Quote{ID: "q1"}))

	require.NoError(t, repo.Clear(ctx))

	quotes, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestQuoteRepository_PersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKVStore()

	repo1, err := NewMemoryQuoteRepository(ctx, kv)
	require.NoError(t, err)
	created := entity.Quote{
		ID:           "q1",
		CustomerName: "Karim aka",
		Date:         time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Items: []entity.QuoteItem{
			{ID: "i1", ProductID: "1", Quantity: 2, UnitName: "شوال", Factor: 50, PricePerUnit: 175},
		},
	}
	require.NoError(t, repo1.Add(ctx, created))

	repo2, err := NewMemoryQuoteRepository(ctx, kv)
	require.NoError(t, err)

	quote, err := repo2.GetByID(ctx, "q1")
	require.NoError(t, err)
	require.NotNil(t, quote)
	assert.Equal(t, "Karim aka", quote.CustomerName)
	require.Len(t, quote.Items, 1)
	assert.Equal(t, 50.0, quote.Items[0].Factor)
	assert.True(t, quote.Date.Equal(created.Date))
}
