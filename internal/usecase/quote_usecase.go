package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

// QuoteLine taklif yaratishda kiritiladigan bitta qator
type QuoteLine struct {
	ProductID string
	Quantity  float64
	UnitName  string
}

// QuoteUseCase narx takliflari bilan bog'liq business logic
type QuoteUseCase interface {
	// Create yangi taklif yaratish: birlik koeffitsienti va narx shu
	// paytda qotiriladi, mahsulot qoldig'idan kamaytiriladi
	Create(ctx context.Context, customerName string, lines []QuoteLine) (*entity.Quote, error)

	// Delete taklifni o'chirish va qoldiqlarni qaytarish
	Delete(ctx context.Context, id string) error

	// Get ID bo'yicha taklifni olish
	Get(ctx context.Context, id string) (*entity.Quote, error)

	// List barcha takliflar (eng yangisi birinchi)
	List(ctx context.Context) ([]entity.Quote, error)

	// Search mijoz nomi bo'yicha qidirish
	Search(ctx context.Context, customer string) ([]entity.Quote, error)
}

type quoteUseCase struct {
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

// NewQuoteUseCase yangi QuoteUseCase yaratish
func NewQuoteUseCase(quoteRepo repository.QuoteRepository, productRepo repository.ProductRepository) QuoteUseCase {
	return &quoteUseCase{
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
	}
}

// Create yangi taklif yaratish
func (u *quoteUseCase) Create(ctx context.Context, customerName string, lines []QuoteLine) (*entity.Quote, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, fmt.Errorf("mijoz nomi bo'sh bo'lmasligi kerak")
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("taklifda kamida bitta qator bo'lishi kerak")
	}

	items := make([]entity.QuoteItem, 0, len(lines))
	for _, line := range lines {
		product, err := u.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("mahsulot topilmadi: %s", line.ProductID)
		}

		// Koeffitsient va narx hozirgi kartadan olinadi va qotiriladi
		factor, pricePerUnit := product.ResolveUnit(line.UnitName)
		items = append(items, entity.QuoteItem{
			ID:           uuid.New().String(),
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			UnitName:     line.UnitName,
			Factor:       factor,
			PricePerUnit: pricePerUnit,
		})
	}

	quote := entity.Quote{
		ID:           uuid.New().String(),
		CustomerName: customerName,
		Date:         time.Now(),
		Items:        items,
	}

	if err := u.quoteRepo.Add(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	// Qoldiqdan kamaytirish: chegara qo'yilmaydi, manfiyga tushishi mumkin
	for _, item := range items {
		_ = u.productRepo.ApplyStockDelta(ctx, item.ProductID, -entity.ToBaseQuantity(item.Quantity, item.Factor))
	}

	return &quote, nil
}

// Delete taklifni o'chirish va qoldiqlarni qaytarish
func (u *quoteUseCase) Delete(ctx context.Context, id string) error {
	quote, err := u.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quote == nil {
		return fmt.Errorf("taklif topilmadi: %s", id)
	}

	// Qoldiqlarni qaytarish: har doim to'liq qaytadi, oradagi qo'lda
	// o'zgartirishlar hisobga olinmaydi. O'chirilgan mahsulot qatori
	// o'tkazib yuboriladi.
	for _, item := range quote.Items {
		_ = u.productRepo.ApplyStockDelta(ctx, item.ProductID, entity.ToBaseQuantity(item.Quantity, item.Factor))
	}

	return u.quoteRepo.Delete(ctx, id)
}

// Get ID bo'yicha taklifni olish
func (u *quoteUseCase) Get(ctx context.Context, id string) (*entity.Quote, error) {
	return u.quoteRepo.GetByID(ctx, id)
}

// List barcha takliflar
func (u *quoteUseCase) List(ctx context.Context) ([]entity.Quote, error) {
	return u.quoteRepo.GetAll(ctx)
}

// Search mijoz nomi bo'yicha qidirish
func (u *quoteUseCase) Search(ctx context.Context, customer string) ([]entity.Quote, error) {
	return u.quoteRepo.SearchByCustomer(ctx, customer)
}
