package repository

import (
	"context"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

// ProductRepository mahsulot katalogi bilan ishlash uchun interface.
// Tartib muhim: mahsulotlar kiritilgan tartibda saqlanadi.
type ProductRepository interface {
	// GetAll barcha mahsulotlarni olish
	GetAll(ctx context.Context) ([]entity.Product, error)

	// GetByID ID bo'yicha mahsulotni olish; topilmasa nil qaytadi
	GetByID(ctx context.Context, id string) (*entity.Product, error)

	// Add yangi mahsulot qo'shish
	Add(ctx context.Context, product entity.Product) error

	// AddMany ko'p mahsulotlarni birdaniga qo'shish
	AddMany(ctx context.Context, products []entity.Product) error

	// Delete mahsulotni o'chirish (takliflardagi qatorlar tegilmaydi)
	Delete(ctx context.Context, id string) error

	// AdjustStock qoldiqni qo'lda o'zgartirish; natija noldan pastga tushmaydi
	AdjustStock(ctx context.Context, id string, delta float64) (*entity.Product, error)

	// ApplyStockDelta taklif yaratish/o'chirishdagi qoldiq o'zgarishi.
	// Chegara qo'yilmaydi - qoldiq manfiy bo'lishi mumkin. Mahsulot
	// topilmasa indamay o'tkazib yuboriladi.
	ApplyStockDelta(ctx context.Context, id string, delta float64) error

	// Search nom bo'yicha qidirish (katta-kichik harf farqlanmaydi)
	Search(ctx context.Context, query string) ([]entity.Product, error)

	// ReplaceAll butun katalogni almashtirish (import uchun)
	ReplaceAll(ctx context.Context, products []entity.Product) error
}
