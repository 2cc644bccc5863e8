package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

// BackupStats bazadagi yozuvlar soni
type BackupStats struct {
	Quotes   int
	Products int
}

// BackupUseCase to'liq bazani JSON ga chiqarish va qaytarish
type BackupUseCase interface {
	// Export barcha ma'lumotlarni JSON fayl sifatida tayyorlash
	Export(ctx context.Context) ([]byte, string, error)

	// Import JSON fayldan to'liq tiklash. Fayl yaroqsiz bo'lsa mavjud
	// ma'lumotlar o'zgarmaydi.
	Import(ctx context.Context, data []byte) (BackupStats, error)

	// Wipe barcha takliflarni o'chirish. Katalog saqlanib qoladi.
	Wipe(ctx context.Context) error

	// Stats hozirgi yozuvlar soni
	Stats(ctx context.Context) (BackupStats, error)
}

type backupUseCase struct {
	quoteRepo   repository.QuoteRepository
	productRepo repository.ProductRepository
}

// NewBackupUseCase yangi BackupUseCase yaratish
func NewBackupUseCase(quoteRepo repository.QuoteRepository, productRepo repository.ProductRepository) BackupUseCase {
	return &backupUseCase{
		quoteRepo:   quoteRepo,
		productRepo: productRepo,
	}
}

// Export barcha ma'lumotlarni JSON fayl sifatida tayyorlash
func (u *backupUseCase) Export(ctx context.Context) ([]byte, string, error) {
	quotes, err := u.quoteRepo.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return nil, "", err
	}

	backup := entity.Backup{
		Quotes:     quotes,
		Products:   products,
		ExportDate: time.Now(),
		Version:    entity.BackupVersion,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal backup: %w", err)
	}

	filename := fmt.Sprintf("savdo_zahira_%s.json", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

// importPayload ikkala kalit ham mavjudligini tekshirish uchun pointer
// maydonlar ishlatiladi: kalit yo'q yoki null bo'lsa nil qoladi
type importPayload struct {
	Quotes   *[]entity.Quote   `json:"quotes"`
	Products *[]entity.Product `json:"products"`
}

// Import JSON fayldan to'liq tiklash
func (u *backupUseCase) Import(ctx context.Context, data []byte) (BackupStats, error) {
	var payload importPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return BackupStats{}, fmt.Errorf("fayl formati noto'g'ri: %w", err)
	}
	if payload.Quotes == nil || payload.Products == nil {
		return BackupStats{}, fmt.Errorf("fayl formati noto'g'ri: quotes va products maydonlari bo'lishi shart")
	}

	if err := u.quoteRepo.ReplaceAll(ctx, *payload.Quotes); err != nil {
		return BackupStats{}, err
	}
	if err := u.productRepo.ReplaceAll(ctx, *payload.Products); err != nil {
		return BackupStats{}, err
	}
	return BackupStats{Quotes: len(*payload.Quotes), Products: len(*payload.Products)}, nil
}

// Wipe barcha takliflarni o'chirish
func (u *backupUseCase) Wipe(ctx context.Context) error {
	return u.quoteRepo.Clear(ctx)
}

// Stats hozirgi yozuvlar soni
func (u *backupUseCase) Stats(ctx context.Context) (BackupStats, error) {
	quotes, err := u.quoteRepo.GetAll(ctx)
	if err != nil {
		return BackupStats{}, err
	}
	products, err := u.productRepo.GetAll(ctx)
	if err != nil {
		return BackupStats{}, err
	}
	return BackupStats{Quotes: len(quotes), Products: len(products)}, nil
}
