package repository

import (
	"context"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
)

// QuoteRepository narx takliflari bilan ishlash uchun interface
type QuoteRepository interface {
	// GetAll barcha takliflarni olish (eng yangisi birinchi)
	GetAll(ctx context.Context) ([]entity.Quote, error)

	// GetByID ID bo'yicha taklifni olish; topilmasa nil qaytadi
	GetByID(ctx context.Context, id string) (*entity.Quote, error)

	// Add yangi taklifni ro'yxat boshiga qo'shish
	Add(ctx context.Context, quote entity.Quote) error

	// Delete taklifni o'chirish
	Delete(ctx context.Context, id string) error

	// SearchByCustomer mijoz nomi bo'yicha qidirish
	SearchByCustomer(ctx context.Context, query string) ([]entity.Quote, error)

	// ReplaceAll barcha takliflarni almashtirish (import uchun)
	ReplaceAll(ctx context.Context, quotes []entity.Quote) error

	// Clear barcha takliflarni o'chirish
	Clear(ctx context.Context) error
}
