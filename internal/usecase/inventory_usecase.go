package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

// InventoryUseCase rasmdan ombor qoldig'ini kiritish
type InventoryUseCase interface {
	// AnalyzeReport rasmni AI orqali o'qish va qatorlarni katalogdagi
	// mahsulotlarga moslashtirish
	AnalyzeReport(ctx context.Context, image []byte, mimeType string) ([]entity.StockRow, error)

	// ConfirmStockAdd tasdiqlangan qatorlarni qoldiqqa qo'shish.
	// Nechta qator qo'llanganini qaytaradi.
	ConfirmStockAdd(ctx context.Context, rows []entity.StockRow) (int, error)
}

type inventoryUseCase struct {
	visionRepo  repository.VisionRepository
	productRepo repository.ProductRepository
}

// NewInventoryUseCase yangi InventoryUseCase yaratish
func NewInventoryUseCase(visionRepo repository.VisionRepository, productRepo repository.ProductRepository) InventoryUseCase {
	return &inventoryUseCase{
		visionRepo:  visionRepo,
		productRepo: productRepo,
	}
}

// AnalyzeReport rasmni AI orqali o'qish va mahsulotlarga moslashtirish
func (u *inventoryUseCase) AnalyzeReport(ctx context.Context, image []byte, mimeType string) ([]entity.StockRow, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := u.visionRepo.AnalyzeStockReport(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze image: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("rasmdan hech qanday qator o'qilmadi")
	}

	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].MatchedProductID = matchProduct(rows[i].ProductName, products)
	}
	return rows, nil
}

// ConfirmStockAdd tasdiqlangan qatorlarni qoldiqqa qo'shish
func (u *inventoryUseCase) ConfirmStockAdd(ctx context.Context, rows []entity.StockRow) (int, error) {
	applied := 0
	for _, row := range rows {
		if row.MatchedProductID == "" {
			continue
		}
		product, err := u.productRepo.GetByID(ctx, row.MatchedProductID)
		if err != nil {
			return applied, err
		}
		if product == nil {
			continue
		}
		factor, _ := product.ResolveUnit(row.UnitName)
		if err := u.productRepo.ApplyStockDelta(ctx, product.ID, entity.ToBaseQuantity(row.Quantity, factor)); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// matchProduct hujjatdagi nomni katalogdan topish: nom ikkala yo'nalishda
// qismiy mos kelsa birinchi topilgani olinadi. Nom aynan AI qaytargan
// ko'rinishida solishtiriladi; bo'sh nom hech narsaga mos kelmaydi.
func matchProduct(name string, products []entity.Product) string {
	if name == "" {
		return ""
	}
	for _, p := range products {
		if strings.Contains(p.Name, name) || strings.Contains(name, p.Name) {
			return p.ID
		}
	}
	return ""
}
