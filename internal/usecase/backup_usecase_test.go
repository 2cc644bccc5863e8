package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

func TestBackupExport_Format(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 100)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1", CustomerName: "Karim aka"}))
	uc := NewBackupUseCase(quoteRepo, productRepo)

	data, filename, err := uc.Export(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "savdo_zahira_"))
	assert.True(t, strings.HasSuffix(filename, ".json"))

	var backup entity.Backup
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, "1.0", backup.Version)
	assert.Len(t, backup.Quotes, 1)
	assert.Len(t, backup.Products, 1)
	assert.False(t, backup.ExportDate.IsZero())
}

func TestBackupImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 100)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1", CustomerName: "Karim aka"}))
	uc := NewBackupUseCase(quoteRepo, productRepo)

	data, _, err := uc.Export(ctx)
	require.NoError(t, err)

	// Boshqa holatdagi bazaga tiklaymiz
	quoteRepo2, productRepo2 := newTestRepos(t)
	require.NoError(t, quoteRepo2.Add(ctx, entity.Quote{ID: "eski", CustomerName: "Salim"}))
	uc2 := NewBackupUseCase(quoteRepo2, productRepo2)

	stats, err := uc2.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Quotes)
	assert.Equal(t, 1, stats.Products)

	quotes, err := quoteRepo2.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "q1", quotes[0].ID)

	products, err := productRepo2.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestBackupImport_MissingKeyRejected(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1", CustomerName: "Karim aka"}))
	addLentils(t, productRepo, 100)
	uc := NewBackupUseCase(quoteRepo, productRepo)

	cases := []string{
		`{"quotes": []}`,
		`{"products": []}`,
		`{"quotes": null, "products": []}`,
		`{"quotes": [], "products": null}`,
		`{}`,
		`not json`,
	}
	for _, payload := range cases {
		_, err := uc.Import(ctx, []byte(payload))
		assert.Error(t, err, payload)
	}

	// Mavjud ma'lumotlar o'zgarmaydi
	quotes, err := quoteRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
	products, err := productRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestBackupImport_EmptyListsAccepted(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1"}))
	addLentils(t, productRepo, 100)
	uc := NewBackupUseCase(quoteRepo, productRepo)

	stats, err := uc.Import(ctx, []byte(`{"quotes": [], "products": []}`))
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Quotes)
	assert.Equal(t, 0, stats.Products)

	quotes, err := quoteRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestBackupWipe_ClearsQuotesKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 42)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1"}))
	uc := NewBackupUseCase(quoteRepo, productRepo)

	require.NoError(t, uc.Wipe(ctx))

	quotes, err := quoteRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, quotes)

	// Katalog va qoldiqlar joyida qoladi
	product, err := productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 42.0, product.CurrentStock)
}

func TestBackupStats(t *testing.T) {
	ctx := context.Background()
	quoteRepo, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 100)
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q1"}))
	require.NoError(t, quoteRepo.Add(ctx, entity.Quote{ID: "q2"}))
	uc := NewBackupUseCase(quoteRepo, productRepo)

	stats, err := uc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Quotes)
	assert.Equal(t, 1, stats.Products)
}
