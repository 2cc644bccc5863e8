package repository

import (
	"context"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

// ExcelParser katalog Excel fayllarini parse qilish uchun interface
type ExcelParser interface {
	// ParseProducts Excel fayldan mahsulot kartalarini o'qish
	ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error)

	// ParseProductsFromBytes byte array dan parse qilish
	ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error)
}
