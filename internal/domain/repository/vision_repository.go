package repository

import (
	"context"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

// VisionRepository ombor hisoboti rasmini tahlil qilish uchun interface
type VisionRepository interface {
	// AnalyzeStockReport rasmdan mahsulot qatorlarini ajratib olish.
	// Qatorlar hisobotdagi tartibda qaytadi; moslashtirish keyin qilinadi.
	AnalyzeStockReport(ctx context.Context, image []byte, mimeType string) ([]entity.StockRow, error)

	// Close client ni yopish
	Close() error
}
