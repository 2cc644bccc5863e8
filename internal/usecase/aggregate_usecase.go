package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

// AggregateUseCase barcha takliflar bo'yicha jamlama hisobot
type AggregateUseCase interface {
	// Aggregate har bir mahsulot bo'yicha umumiy miqdor va summani hisoblash.
	// Tartib: mahsulot birinchi uchragan taklif qatoriga qarab.
	Aggregate(ctx context.Context) ([]entity.AggregatedItem, error)

	// RenderReport jamlamani matn ko'rinishida tayyorlash
	RenderReport(ctx context.Context, showPrices bool) (string, error)

	// ExportExcel jamlamani Excel fayl sifatida tayyorlash
	ExportExcel(ctx context.Context) ([]byte, string, error)
}

type aggregateUseCase struct {
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

// NewAggregateUseCase yangi AggregateUseCase yaratish
func NewAggregateUseCase(quoteRepo repository.QuoteRepository, productRepo repository.ProductRepository) AggregateUseCase {
	return &aggregateUseCase{
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
	}
}

// Aggregate har bir mahsulot bo'yicha umumiy miqdor va summani hisoblash
func (u *aggregateUseCase) Aggregate(ctx context.Context) ([]entity.AggregatedItem, error) {
	quotes, err := u.quoteRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*entity.AggregatedItem)
	order := make([]string, 0)

	for _, quote := range quotes {
		for _, item := range quote.Items {
			bucket, ok := buckets[item.ProductID]
			if !ok {
				// Katalogdan o'chirilgan mahsulot qatorlari hisobga olinmaydi
				product, err := u.productRepo.GetByID(ctx, item.ProductID)
				if err != nil {
					return nil, err
				}
				if product == nil {
					continue
				}
				bucket = &entity.AggregatedItem{
					ProductID:   item.ProductID,
					ProductName: product.Name,
					Category:    product.Category,
					BaseUnit:    product.BaseUnit,
				}
				buckets[item.ProductID] = bucket
				order = append(order, item.ProductID)
			}
			base := entity.ToBaseQuantity(item.Quantity, item.Factor)
			bucket.TotalInBaseUnit += base
			bucket.TotalPrice += item.Quantity * item.PricePerUnit
		}
	}

	result := make([]entity.AggregatedItem, 0, len(order))
	for _, id := range order {
		result = append(result, *buckets[id])
	}
	return result, nil
}

// RenderReport jamlamani matn ko'rinishida tayyorlash
func (u *aggregateUseCase) RenderReport(ctx context.Context, showPrices bool) (string, error) {
	items, err := u.Aggregate(ctx)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "📊 Jamlama bo'sh — hali takliflar yo'q.", nil
	}

	var sb strings.Builder
	sb.WriteString("📊 *Jamlama hisobot*\n\n")

	var grandTotal float64
	for i, item := range items {
		product, err := u.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s)\n", i+1, item.ProductName, item.Category))
		sb.WriteString(fmt.Sprintf("   Miqdor: %s\n", entity.FormatQuantity(item, product)))
		if showPrices {
			sb.WriteString(fmt.Sprintf("   Summa: %s\n", FormatMoney(item.TotalPrice)))
		}
		sb.WriteString("\n")
		grandTotal += item.TotalPrice
	}

	if showPrices {
		sb.WriteString(fmt.Sprintf("💰 *Umumiy summa:* %s", FormatMoney(grandTotal)))
	}
	return sb.String(), nil
}

// ExportExcel jamlamani Excel fayl sifatida tayyorlash
func (u *aggregateUseCase) ExportExcel(ctx context.Context) ([]byte, string, error) {
	items, err := u.Aggregate(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"№", "Mahsulot", "Kategoriya", "Miqdor", "Birlik", "Summa"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", fmt.Errorf("failed to write header: %w", err)
	}

	var grandTotal float64
	for i, item := range items {
		product, err := u.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, "", err
		}
		row := []interface{}{
			i + 1,
			item.ProductName,
			item.Category,
			entity.FormatQuantity(item, product),
			item.BaseUnit,
			item.TotalPrice,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", fmt.Errorf("failed to write row: %w", err)
		}
		grandTotal += item.TotalPrice
	}

	totalRow := []interface{}{"", "", "", "", "Jami:", grandTotal}
	cell := fmt.Sprintf("A%d", len(items)+2)
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, "", fmt.Errorf("failed to write total row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to build excel file: %w", err)
	}
	return buf.Bytes(), "jamlama_hisobot.xlsx", nil
}

// FormatMoney summani bo'sh joylar bilan guruhlash
func FormatMoney(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		out = "-" + out
	}
	return out
}
