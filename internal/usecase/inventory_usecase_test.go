package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

type fakeVision struct {
	rows []entity.StockRow
	err  error
}

func (f *fakeVision) AnalyzeStockReport(ctx context.Context, image []byte, mimeType string) ([]entity.StockRow, error) {
	return f.rows, f.err
}

func (f *fakeVision) Close() error { return nil }

func TestAnalyzeReport_MatchesCatalog(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	require.NoError(t, productRepo.AddMany(ctx, []entity.Product{
		{ID: "p1", Name: "عدس احمر", BaseUnit: "كيلو"},
		{ID: "p2", Name: "لوبيا", BaseUnit: "كيلو"},
	}))

	vision := &fakeVision{rows: []entity.StockRow{
		{ProductName: "عدس", Quantity: 2, UnitName: "شوال"},         // karta nomining qismi
		{ProductName: "لوبيا بيضاء", Quantity: 5, UnitName: "كيلو"}, // karta nomini o'z ichiga oladi
		{ProductName: "برغل", Quantity: 1, UnitName: "كيلو"},        // katalogda yo'q
	}}
	uc := NewInventoryUseCase(vision, productRepo)

	rows, err := uc.AnalyzeReport(ctx, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "p1", rows[0].MatchedProductID)
	assert.Equal(t, "p2", rows[1].MatchedProductID)
	assert.Equal(t, "", rows[2].MatchedProductID)
}

// Moslashtirish harf registriga sezgir
func TestAnalyzeReport_MatchIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	require.NoError(t, productRepo.Add(ctx, entity.Product{ID: "p1", Name: "Red Lentils"}))

	vision := &fakeVision{rows: []entity.StockRow{
		{ProductName: "red lentils", Quantity: 1, UnitName: "kg"},
	}}
	uc := NewInventoryUseCase(vision, productRepo)

	rows, err := uc.AnalyzeReport(ctx, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "", rows[0].MatchedProductID)
}

// Nom AI qaytargan ko'rinishida, tozalanmasdan solishtiriladi
func TestAnalyzeReport_NameComparedVerbatim(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	require.NoError(t, productRepo.Add(ctx, entity.Product{ID: "p1", Name: "لوبيا"}))

	vision := &fakeVision{rows: []entity.StockRow{
		// qisqartirilgan nom + ortiqcha bo'sh joy: tozalansa mos kelardi
		{ProductName: "لوبي ", Quantity: 1, UnitName: "كيلو"},
		{ProductName: "لوبي", Quantity: 1, UnitName: "كيلو"},
	}}
	uc := NewInventoryUseCase(vision, productRepo)

	rows, err := uc.AnalyzeReport(ctx, []byte("img"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "", rows[0].MatchedProductID)
	assert.Equal(t, "p1", rows[1].MatchedProductID)
}

func TestAnalyzeReport_EmptyResult(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	uc := NewInventoryUseCase(&fakeVision{}, productRepo)

	_, err := uc.AnalyzeReport(ctx, []byte("img"), "image/jpeg")
	assert.Error(t, err)
}

func TestConfirmStockAdd_AppliesWithUnitFactor(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 10)
	uc := NewInventoryUseCase(&fakeVision{}, productRepo)

	applied, err := uc.ConfirmStockAdd(ctx, []entity.StockRow{
		{ProductName: "عدس", Quantity: 2, UnitName: "شوال", MatchedProductID: "p1"},
		{ProductName: "برغل", Quantity: 1, UnitName: "كيلو"}, // mos kelmagan, o'tkazib yuboriladi
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	product, err := productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	// 10 + 2*50
	assert.Equal(t, 110.0, product.CurrentStock)
}

func TestConfirmStockAdd_UnknownUnitUsesBase(t *testing.T) {
	ctx := context.Background()
	_, productRepo := newTestRepos(t)
	addLentils(t, productRepo, 10)
	uc := NewInventoryUseCase(&fakeVision{}, productRepo)

	applied, err := uc.ConfirmStockAdd(ctx, []entity.StockRow{
		{ProductName: "عدس", Quantity: 7, UnitName: "qop", MatchedProductID: "p1"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	product, err := productRepo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 17.0, product.CurrentStock)
}
