package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/yourusername/savdo-bot/config"
	"github.com/yourusername/savdo-bot/internal/delivery/telegram"
	"github.com/yourusername/savdo-bot/internal/infrastructure/gemini"
	"github.com/yourusername/savdo-bot/internal/infrastructure/parser"
	"github.com/yourusername/savdo-bot/internal/infrastructure/storage"
	"github.com/yourusername/savdo-bot/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Konfiguratsiyani yuklab bo'lmadi: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := storage.NewSQLiteKVStore(cfg.DataDBPath)
	if err != nil {
		log.Fatalf("Bazani ochib bo'lmadi: %v", err)
	}
	defer kv.Close()

	productRepo, err := storage.NewMemoryProductRepository(ctx, kv)
	if err != nil {
		log.Fatalf("Mahsulotlarni yuklab bo'lmadi: %v", err)
	}
	quoteRepo, err := storage.NewMemoryQuoteRepository(ctx, kv)
	if err != nil {
		log.Fatalf("Takliflarni yuklab bo'lmadi: %v", err)
	}

	visionRepo, err := gemini.NewVisionClient(cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Gemini clientni yaratib bo'lmadi: %v", err)
	}
	defer visionRepo.Close()

	excelParser := parser.NewExcelParser()

	quoteUC := usecase.NewQuoteUseCase(quoteRepo, productRepo)
	catalogUC := usecase.NewCatalogUseCase(productRepo, excelParser)
	aggregateUC := usecase.NewAggregateUseCase(quoteRepo, productRepo)
	inventoryUC := usecase.NewInventoryUseCase(visionRepo, productRepo)
	backupUC := usecase.NewBackupUseCase(quoteRepo, productRepo)

	handler, err := telegram.NewBotHandler(
		cfg.TelegramToken,
		cfg.OwnerChatID,
		quoteUC,
		catalogUC,
		aggregateUC,
		inventoryUC,
		backupUC,
	)
	if err != nil {
		log.Fatalf("Bot handlerni yaratib bo'lmadi: %v", err)
	}

	if err := handler.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot xato bilan to'xtadi: %v", err)
	}
	log.Println("Bot to'xtadi.")
}
