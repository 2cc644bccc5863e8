package telegram

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/infrastructure/storage"
	"github.com/yourusername/savdo-bot/internal/usecase"
)

// newFlowHandler xabar yubormaydigan sessiya metodlarini sinash uchun handler
func newFlowHandler(t *testing.T) *BotHandler {
	t.Helper()
	ctx := context.Background()
	productRepo, err := storage.NewMemoryProductRepository(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, productRepo.Add(ctx, entity.Product{
		ID:        "p1",
		Name:      "عدس",
		BaseUnit:  "كيلو",
		SalePrice: 3.5,
		Units:     []entity.SubUnit{{Name: "شوال", Factor: 50}},
	}))
	return &BotHandler{
		catalogUseCase:  usecase.NewCatalogUseCase(productRepo, nil),
		quoteSessions:   make(map[int64]*quoteSession),
		productSessions: make(map[int64]*productSession),
	}
}

func TestApplyQuoteInput_StagedFlow(t *testing.T) {
	ctx := context.Background()
	h := newFlowHandler(t)
	h.startQuoteSession(7)

	reply, done := h.applyQuoteInput(ctx, 7, "")
	assert.Nil(t, done)
	assert.Contains(t, reply, "bo'sh bo'lmasligi")

	reply, done = h.applyQuoteInput(ctx, 7, "Karim aka")
	assert.Nil(t, done)
	assert.Contains(t, reply, "qatorlarni yozing")

	reply, done = h.applyQuoteInput(ctx, 7, "mavjud emas; 2")
	assert.Nil(t, done)
	assert.Contains(t, reply, "❌")

	reply, done = h.applyQuoteInput(ctx, 7, "عدس; 2; شوال")
	assert.Nil(t, done)
	assert.Contains(t, reply, "✅")

	_, done = h.applyQuoteInput(ctx, 7, "tayyor")
	require.NotNil(t, done)
	assert.Equal(t, "Karim aka", done.CustomerName)
	require.Len(t, done.Lines, 1)
	assert.Equal(t, 2.0, done.Lines[0].Quantity)
	assert.False(t, h.hasQuoteSession(7))
}

// Har bir update alohida goroutine da keladi; parallel kiritishda
// qatorlar yo'qolmasligi kerak
func TestApplyQuoteInput_ConcurrentLines(t *testing.T) {
	ctx := context.Background()
	h := newFlowHandler(t)
	h.startQuoteSession(7)
	_, done := h.applyQuoteInput(ctx, 7, "Karim aka")
	require.Nil(t, done)

	const n = 30
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			h.applyQuoteInput(ctx, 7, "عدس; 1; كيلو")
		}()
	}
	wg.Wait()

	_, done = h.applyQuoteInput(ctx, 7, "tayyor")
	require.NotNil(t, done)
	assert.Len(t, done.Lines, n)
	assert.Len(t, done.Preview, n)
}

func TestApplyProductInput_StagedFlow(t *testing.T) {
	h := newFlowHandler(t)
	h.startProductSession(7)

	steps := []string{"برغل", "كيلو", "5", "-", "Don", "شوال:25"}
	for i, text := range steps[:len(steps)-1] {
		reply, done := h.applyProductInput(7, text)
		require.Nil(t, done, "bosqich %d da tugamasligi kerak", i)
		assert.NotEmpty(t, reply)
	}

	_, done := h.applyProductInput(7, steps[len(steps)-1])
	require.NotNil(t, done)
	assert.Equal(t, "برغل", done.Name)
	assert.Equal(t, "كيلو", done.BaseUnit)
	assert.Equal(t, 5.0, done.SalePrice)
	assert.Equal(t, 0.0, done.PurchasePrice)
	assert.Equal(t, "Don", done.Category)
	require.Len(t, done.Units, 1)
	assert.Equal(t, 25.0, done.Units[0].Factor)
	assert.False(t, h.hasProductSession(7))
}

func TestApplyProductInput_BadPriceRetries(t *testing.T) {
	h := newFlowHandler(t)
	h.startProductSession(7)

	_, _ = h.applyProductInput(7, "برغل")
	_, _ = h.applyProductInput(7, "كيلو")

	reply, done := h.applyProductInput(7, "abc")
	assert.Nil(t, done)
	assert.Contains(t, reply, "noto'g'ri")
	assert.True(t, h.hasProductSession(7))
}

func TestParseUnitsInput(t *testing.T) {
	units := parseUnitsInput("شوال:50; قفص:12")
	require.Len(t, units, 2)
	assert.Equal(t, "شوال", units[0].Name)
	assert.Equal(t, 50.0, units[0].Factor)
	assert.Equal(t, 12.0, units[1].Factor)
}

func TestParseUnitsInput_SkipsBadParts(t *testing.T) {
	units := parseUnitsInput("شوال:50; bo'sh; nom:abc; salbiy:-3")
	require.Len(t, units, 1)
	assert.Equal(t, "شوال", units[0].Name)
}

func TestFormatNumberText(t *testing.T) {
	assert.Equal(t, "120", formatNumberText(120))
	assert.Equal(t, "2.5", formatNumberText(2.5))
}
