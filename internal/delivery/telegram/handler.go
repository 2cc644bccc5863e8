package telegram

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/usecase"
)

type quoteStage int

const (
	quoteStageNeedCustomer quoteStage = iota
	quoteStageNeedLines
)

type quoteSession struct {
	Stage        quoteStage
	CustomerName string
	Lines        []usecase.QuoteLine
	Preview      []string
	StartedAt    time.Time
}

type productStage int

const (
	productStageNeedName productStage = iota
	productStageNeedBaseUnit
	productStageNeedSalePrice
	productStageNeedPurchasePrice
	productStageNeedCategory
	productStageNeedUnits
)

type productSession struct {
	Stage   productStage
	Product entity.Product
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot             *tgbotapi.BotAPI
	ownerChatID     int64
	quoteUseCase    usecase.QuoteUseCase
	catalogUseCase  usecase.CatalogUseCase
	aggregateUC     usecase.AggregateUseCase
	inventoryUC     usecase.InventoryUseCase
	backupUseCase   usecase.BackupUseCase
	quoteMu         sync.RWMutex
	quoteSessions   map[int64]*quoteSession
	productMu       sync.RWMutex
	productSessions map[int64]*productSession
	stockMu         sync.RWMutex
	pendingStock    map[int64][]entity.StockRow
	adjustMu        sync.RWMutex
	awaitingAdjust  map[int64]string
	priceMu         sync.RWMutex
	showPrices      bool
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(
	token string,
	ownerChatID int64,
	quoteUseCase usecase.QuoteUseCase,
	catalogUseCase usecase.CatalogUseCase,
	aggregateUC usecase.AggregateUseCase,
	inventoryUC usecase.InventoryUseCase,
	backupUseCase usecase.BackupUseCase,
) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:             bot,
		ownerChatID:     ownerChatID,
		quoteUseCase:    quoteUseCase,
		catalogUseCase:  catalogUseCase,
		aggregateUC:     aggregateUC,
		inventoryUC:     inventoryUC,
		backupUseCase:   backupUseCase,
		quoteSessions:   make(map[int64]*quoteSession),
		productSessions: make(map[int64]*productSession),
		pendingStock:    make(map[int64][]entity.StockRow),
		awaitingAdjust:  make(map[int64]string),
		showPrices:      true,
	}, nil
}

// Start botni ishga tushirish
func (h *BotHandler) Start(ctx context.Context) error {
	log.Printf("Bot @%s ishga tushdi!", h.bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			log.Println("Bot to'xtatilmoqda...")
			return ctx.Err()
		case update := <-updates:
			if update.CallbackQuery != nil {
				go h.handleCallback(ctx, update.CallbackQuery)
				continue
			}

			if update.Message == nil {
				continue
			}

			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	// Shaxsiy vosita: faqat egasi ishlatadi
	if h.ownerChatID != 0 && userID != h.ownerChatID {
		h.sendMessage(message.Chat.ID, "⛔ Bu bot shaxsiy savdo vositasi. Kirish yopiq.")
		return
	}

	// Rasm yuborilgan bo'lsa - ombor hisoboti
	if len(message.Photo) > 0 {
		h.handlePhotoMessage(ctx, message)
		return
	}

	// Fayl yuborilgan bo'lsa
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	// Komandalarni qayta ishlash
	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	if message.Text == "" {
		return
	}

	// Ochiq sessiyalar matnni oladi
	if h.hasQuoteSession(userID) {
		h.handleQuoteFlow(ctx, userID, message.Text, message.Chat.ID)
		return
	}
	if h.hasProductSession(userID) {
		h.handleProductFlow(ctx, userID, message.Text, message.Chat.ID)
		return
	}
	if productID, ok := h.popAwaitingAdjust(userID); ok {
		h.handleAdjustInput(ctx, productID, message.Text, message.Chat.ID)
		return
	}

	h.sendMessage(message.Chat.ID, "Komandalar ro'yxati uchun /help ni bosing.")
}

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, h.getWelcomeMessage())
	case "help":
		h.sendMessage(message.Chat.ID, h.getHelpMessage())
	case "takliflar":
		h.handleQuotesCommand(ctx, message)
	case "yangi":
		h.startQuoteSession(message.From.ID)
		h.sendMessage(message.Chat.ID, "🧾 Yangi taklif. Mijoz nomini yozing (bekor qilish: \"bekor\"):")
	case "ombor":
		h.handleStockCommand(ctx, message)
	case "jamlama":
		h.handleAggregateCommand(ctx, message)
	case "katalog":
		h.handleCatalogCommand(ctx, message)
	case "yangisanf":
		h.startProductSession(message.From.ID)
		h.sendMessage(message.Chat.ID, "📦 Yangi mahsulot. Nomini yozing (bekor qilish: \"bekor\"):")
	case "baza":
		h.handleBackupCommand(ctx, message)
	case "narxlar":
		h.handlePricesCommand(message)
	default:
		h.sendMessage(message.Chat.ID, "Noma'lum komanda. /help yordam uchun.")
	}
}

// --- Takliflar ---

// handleQuotesCommand takliflar ro'yxati, ixtiyoriy mijoz qidiruvi bilan
func (h *BotHandler) handleQuotesCommand(ctx context.Context, message *tgbotapi.Message) {
	query := strings.TrimSpace(message.CommandArguments())

	var quotes []entity.Quote
	var err error
	if query != "" {
		quotes, err = h.quoteUseCase.Search(ctx, query)
	} else {
		quotes, err = h.quoteUseCase.List(ctx)
	}
	if err != nil {
		log.Printf("Takliflarni olishda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Takliflarni yuklab bo'lmadi.")
		return
	}

	if len(quotes) == 0 {
		if query != "" {
			h.sendMessage(message.Chat.ID, fmt.Sprintf("\"%s\" bo'yicha taklif topilmadi.", query))
		} else {
			h.sendMessage(message.Chat.ID, "Hali takliflar yo'q. /yangi bilan boshlang.")
		}
		return
	}

	showPrices := h.pricesVisible()
	var rows [][]tgbotapi.InlineKeyboardButton
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧾 Takliflar: %d ta\n\n", len(quotes)))
	for i, quote := range quotes {
		sb.WriteString(fmt.Sprintf("%d. %s — %s", i+1, quote.CustomerName, quote.Date.Format("2006-01-02")))
		if showPrices {
			sb.WriteString(fmt.Sprintf(" (%s)", usecase.FormatMoney(quote.TotalPrice())))
		}
		sb.WriteString("\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("👁 %d", i+1), "qview:"+quote.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), "qdel:"+quote.ID),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.bot.Send(msg)
}

// handleQuoteFlow taklif sessiyasidagi matnlarni qayta ishlash
func (h *BotHandler) handleQuoteFlow(ctx context.Context, userID int64, text string, chatID int64) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "bekor") {
		h.clearQuoteSession(userID)
		h.sendMessage(chatID, "Taklif bekor qilindi.")
		return
	}

	reply, done := h.applyQuoteInput(ctx, userID, text)
	if done != nil {
		h.finishQuoteSession(ctx, chatID, done)
		return
	}
	if reply != "" {
		h.sendMessage(chatID, reply)
	}
}

// applyQuoteInput sessiya holatini qulf ostida yangilash. Har bir update
// alohida goroutine da kelgani uchun mutatsiya to'liq qulf ichida bajariladi;
// xabar yuborish qulfdan tashqarida qoladi. Sessiya yakunlanganda nusxasi
// qaytadi va sessiya o'chiriladi.
func (h *BotHandler) applyQuoteInput(ctx context.Context, userID int64, text string) (reply string, done *quoteSession) {
	h.quoteMu.Lock()
	defer h.quoteMu.Unlock()

	session := h.quoteSessions[userID]
	if session == nil {
		return "", nil
	}

	switch session.Stage {
	case quoteStageNeedCustomer:
		if text == "" {
			return "Mijoz nomi bo'sh bo'lmasligi kerak. Qayta yozing:", nil
		}
		session.CustomerName = text
		session.Stage = quoteStageNeedLines
		return "Endi qatorlarni yozing: \"mahsulot; miqdor; birlik\" (birlik ixtiyoriy).\nTugatish: \"tayyor\", bekor qilish: \"bekor\".", nil

	case quoteStageNeedLines:
		if strings.EqualFold(text, "tayyor") {
			finished := *session
			delete(h.quoteSessions, userID)
			return "", &finished
		}
		line, preview, err := h.parseQuoteLine(ctx, text)
		if err != nil {
			return fmt.Sprintf("❌ %v\nQayta yozing yoki \"tayyor\" deb tugating.", err), nil
		}
		session.Lines = append(session.Lines, line)
		session.Preview = append(session.Preview, preview)
		return fmt.Sprintf("✅ Qo'shildi: %s\nJami %d qator. Yana qator yozing yoki \"tayyor\".", preview, len(session.Lines)), nil
	}
	return "", nil
}

// parseQuoteLine "mahsulot; miqdor; birlik" formatini o'qish
func (h *BotHandler) parseQuoteLine(ctx context.Context, text string) (usecase.QuoteLine, string, error) {
	parts := strings.Split(text, ";")
	if len(parts) < 2 {
		return usecase.QuoteLine{}, "", fmt.Errorf("format: \"mahsulot; miqdor; birlik\"")
	}

	name := strings.TrimSpace(parts[0])
	products, err := h.catalogUseCase.Search(ctx, name)
	if err != nil {
		return usecase.QuoteLine{}, "", fmt.Errorf("katalogda qidirishda xatolik")
	}
	if len(products) == 0 {
		return usecase.QuoteLine{}, "", fmt.Errorf("mahsulot topilmadi: %s", name)
	}
	product := products[0]

	quantity, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || quantity <= 0 {
		return usecase.QuoteLine{}, "", fmt.Errorf("miqdor noto'g'ri: %s", strings.TrimSpace(parts[1]))
	}

	unitName := product.BaseUnit
	if len(parts) >= 3 && strings.TrimSpace(parts[2]) != "" {
		unitName = strings.TrimSpace(parts[2])
	}

	line := usecase.QuoteLine{
		ProductID: product.ID,
		Quantity:  quantity,
		UnitName:  unitName,
	}
	preview := fmt.Sprintf("%s — %s %s", product.Name, formatNumberText(quantity), unitName)
	return line, preview, nil
}

// finishQuoteSession yakunlangan sessiyadan taklif yaratish
func (h *BotHandler) finishQuoteSession(ctx context.Context, chatID int64, session *quoteSession) {
	if len(session.Lines) == 0 {
		h.sendMessage(chatID, "Hech qanday qator kiritilmadi, taklif yaratilmadi.")
		return
	}

	quote, err := h.quoteUseCase.Create(ctx, session.CustomerName, session.Lines)
	if err != nil {
		log.Printf("Taklif yaratishda xatolik: %v", err)
		h.sendMessage(chatID, fmt.Sprintf("❌ Taklif yaratilmadi: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Taklif saqlandi!\n\n👤 Mijoz: %s\n", quote.CustomerName))
	for i, p := range session.Preview {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, p))
	}
	if h.pricesVisible() {
		sb.WriteString(fmt.Sprintf("\n💰 Jami: %s", usecase.FormatMoney(quote.TotalPrice())))
	}
	h.sendMessage(chatID, sb.String())
}

// sendQuoteDetail bitta taklifning to'liq ko'rinishi
func (h *BotHandler) sendQuoteDetail(ctx context.Context, chatID int64, quoteID string) {
	quote, err := h.quoteUseCase.Get(ctx, quoteID)
	if err != nil || quote == nil {
		h.sendMessage(chatID, "❌ Taklif topilmadi.")
		return
	}

	showPrices := h.pricesVisible()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🧾 %s — %s\n\n", quote.CustomerName, quote.Date.Format("2006-01-02 15:04")))
	for i, item := range quote.Items {
		name := item.ProductID
		if product, err := h.catalogUseCase.Get(ctx, item.ProductID); err == nil && product != nil {
			name = product.Name
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %s %s", i+1, name, formatNumberText(item.Quantity), item.UnitName))
		if showPrices {
			sb.WriteString(fmt.Sprintf(" × %s = %s", usecase.FormatMoney(item.PricePerUnit), usecase.FormatMoney(item.Quantity*item.PricePerUnit)))
		}
		sb.WriteString("\n")
	}
	if showPrices {
		sb.WriteString(fmt.Sprintf("\n💰 Jami: %s", usecase.FormatMoney(quote.TotalPrice())))
	}
	h.sendMessage(chatID, sb.String())
}

// --- Ombor ---

// handleStockCommand qoldiqlar ro'yxati
func (h *BotHandler) handleStockCommand(ctx context.Context, message *tgbotapi.Message) {
	query := strings.TrimSpace(message.CommandArguments())

	var products []entity.Product
	var err error
	if query != "" {
		products, err = h.catalogUseCase.Search(ctx, query)
	} else {
		products, err = h.catalogUseCase.List(ctx)
	}
	if err != nil {
		log.Printf("Qoldiqlarni olishda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Qoldiqlarni yuklab bo'lmadi.")
		return
	}

	if len(products) == 0 {
		h.sendMessage(message.Chat.ID, "Mahsulot topilmadi.")
		return
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	var sb strings.Builder
	sb.WriteString("🏬 Ombor qoldiqlari:\n\n")
	for i, p := range products {
		marker := ""
		if p.CurrentStock <= 5 {
			marker = " ❗"
		} else if p.CurrentStock <= 10 {
			marker = " ⚠️"
		}
		sb.WriteString(fmt.Sprintf("%d. %s: %s %s%s\n", i+1, p.Name, formatNumberText(p.CurrentStock), p.BaseUnit, marker))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("± %d", i+1), "padj:"+p.ID),
		))
	}
	sb.WriteString("\n📷 Qog'oz hisobot rasmini yuborsangiz, qoldiqqa AI orqali qo'shaman.")

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.bot.Send(msg)
}

// handlePhotoMessage rasm orqali ombor hisobotini o'qish
func (h *BotHandler) handlePhotoMessage(ctx context.Context, message *tgbotapi.Message) {
	// Eng katta o'lchamdagi variantni olamiz
	photo := message.Photo[len(message.Photo)-1]

	h.sendMessage(message.Chat.ID, "⏳ Rasm o'qilmoqda...")

	data, err := h.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Rasmni yuklashda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Rasmni yuklab bo'lmadi.")
		return
	}

	h.analyzeStockImage(ctx, message.From.ID, message.Chat.ID, data, "image/jpeg")
}

// analyzeStockImage rasmni AI ga yuborish va natijani tasdiqqa chiqarish
func (h *BotHandler) analyzeStockImage(ctx context.Context, userID, chatID int64, data []byte, mimeType string) {
	rows, err := h.inventoryUC.AnalyzeReport(ctx, data, mimeType)
	if err != nil {
		log.Printf("Rasmni tahlil qilishda xatolik: %v", err)
		h.sendMessage(chatID, fmt.Sprintf("❌ Rasmni o'qib bo'lmadi: %v", err))
		return
	}

	h.setPendingStock(userID, rows)

	var sb strings.Builder
	sb.WriteString("📷 Rasmdan o'qilgan qatorlar:\n\n")
	matched := 0
	for i, row := range rows {
		if row.MatchedProductID != "" {
			sb.WriteString(fmt.Sprintf("%d. ✅ %s — %s %s\n", i+1, row.ProductName, formatNumberText(row.Quantity), row.UnitName))
			matched++
		} else {
			sb.WriteString(fmt.Sprintf("%d. ❓ %s — %s %s (katalogda yo'q)\n", i+1, row.ProductName, formatNumberText(row.Quantity), row.UnitName))
		}
	}
	sb.WriteString(fmt.Sprintf("\n%d ta qator katalogga mos keldi. Qoldiqqa qo'shaymi?", matched))

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ha ✅", "stock_yes"),
			tgbotapi.NewInlineKeyboardButtonData("Yo'q ❌", "stock_no"),
		),
	)
	h.bot.Send(msg)
}

// --- Jamlama ---

// handleAggregateCommand jamlama hisobot
func (h *BotHandler) handleAggregateCommand(ctx context.Context, message *tgbotapi.Message) {
	report, err := h.aggregateUC.RenderReport(ctx, h.pricesVisible())
	if err != nil {
		log.Printf("Jamlama hisoblashda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Jamlama hisobotni tayyorlab bo'lmadi.")
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, report)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Excel yuklab olish", "agg_excel"),
		),
	)
	h.bot.Send(msg)
}

// sendAggregateExcel jamlamani Excel fayl sifatida yuborish
func (h *BotHandler) sendAggregateExcel(ctx context.Context, chatID int64) {
	data, filename, err := h.aggregateUC.ExportExcel(ctx)
	if err != nil {
		log.Printf("Excel tayyorlashda xatolik: %v", err)
		h.sendMessage(chatID, "❌ Excel faylni tayyorlab bo'lmadi.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("Excel yuborishda xatolik: %v", err)
		h.sendMessage(chatID, "❌ Faylni yuborib bo'lmadi.")
	}
}

// --- Katalog ---

// handleCatalogCommand mahsulotlar ro'yxati
func (h *BotHandler) handleCatalogCommand(ctx context.Context, message *tgbotapi.Message) {
	query := strings.TrimSpace(message.CommandArguments())

	var products []entity.Product
	var err error
	if query != "" {
		products, err = h.catalogUseCase.Search(ctx, query)
	} else {
		products, err = h.catalogUseCase.List(ctx)
	}
	if err != nil {
		log.Printf("Katalogni olishda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Katalogni yuklab bo'lmadi.")
		return
	}

	if len(products) == 0 {
		h.sendMessage(message.Chat.ID, "Katalog bo'sh. /yangisanf bilan mahsulot qo'shing yoki Excel fayl yuboring.")
		return
	}

	showPrices := h.pricesVisible()
	var rows [][]tgbotapi.InlineKeyboardButton
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📦 Katalog: %d ta mahsulot\n\n", len(products)))
	for i, p := range products {
		sb.WriteString(fmt.Sprintf("%d. %s (%s), birlik: %s", i+1, p.Name, p.Category, p.BaseUnit))
		if showPrices {
			sb.WriteString(fmt.Sprintf(", narx: %s", usecase.FormatMoney(p.SalePrice)))
		}
		for _, sub := range p.Units {
			sb.WriteString(fmt.Sprintf("\n   • %s = %s %s", sub.Name, formatNumberText(sub.Factor), p.BaseUnit))
		}
		sb.WriteString("\n")
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("± %d", i+1), "padj:"+p.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🗑 %d", i+1), "pdel:"+p.ID),
		))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	h.bot.Send(msg)
}

// handleProductFlow mahsulot sessiyasidagi matnlarni qayta ishlash
func (h *BotHandler) handleProductFlow(ctx context.Context, userID int64, text string, chatID int64) {
	text = strings.TrimSpace(text)
	if strings.EqualFold(text, "bekor") {
		h.clearProductSession(userID)
		h.sendMessage(chatID, "Mahsulot qo'shish bekor qilindi.")
		return
	}

	reply, done := h.applyProductInput(userID, text)
	if done != nil {
		product, err := h.catalogUseCase.AddProduct(ctx, *done)
		if err != nil {
			log.Printf("Mahsulot qo'shishda xatolik: %v", err)
			h.sendMessage(chatID, fmt.Sprintf("❌ Mahsulot qo'shilmadi: %v", err))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ \"%s\" katalogga qo'shildi. /katalog bilan ko'ring.", product.Name))
		return
	}
	if reply != "" {
		h.sendMessage(chatID, reply)
	}
}

// applyProductInput sessiya holatini qulf ostida yangilash; oxirgi bosqichda
// tayyor mahsulot nusxasi qaytadi va sessiya o'chiriladi
func (h *BotHandler) applyProductInput(userID int64, text string) (reply string, done *entity.Product) {
	h.productMu.Lock()
	defer h.productMu.Unlock()

	session := h.productSessions[userID]
	if session == nil {
		return "", nil
	}

	switch session.Stage {
	case productStageNeedName:
		if text == "" {
			return "Nom bo'sh bo'lmasligi kerak. Qayta yozing:", nil
		}
		session.Product.Name = text
		session.Stage = productStageNeedBaseUnit
		return "Asosiy o'lchov birligi (masalan: كيلو):", nil

	case productStageNeedBaseUnit:
		session.Product.BaseUnit = text
		session.Stage = productStageNeedSalePrice
		return "Sotish narxi (asosiy birlik uchun):", nil

	case productStageNeedSalePrice:
		price, err := strconv.ParseFloat(text, 64)
		if err != nil || price < 0 {
			return "Narx noto'g'ri. Raqam yozing:", nil
		}
		session.Product.SalePrice = price
		session.Stage = productStageNeedPurchasePrice
		return "Olish narxi (o'tkazib yuborish: \"-\"):", nil

	case productStageNeedPurchasePrice:
		if text != "-" {
			price, err := strconv.ParseFloat(text, 64)
			if err != nil || price < 0 {
				return "Narx noto'g'ri. Raqam yoki \"-\" yozing:", nil
			}
			session.Product.PurchasePrice = price
		}
		session.Stage = productStageNeedCategory
		return "Kategoriya (o'tkazib yuborish: \"-\"):", nil

	case productStageNeedCategory:
		if text != "-" {
			session.Product.Category = text
		}
		session.Stage = productStageNeedUnits
		return "Qo'shimcha birliklar \"nom:koeffitsient\" ko'rinishida, nuqtali vergul bilan (masalan: شوال:50). O'tkazib yuborish: \"-\"", nil

	case productStageNeedUnits:
		if text != "-" {
			units := parseUnitsInput(text)
			if len(units) == 0 {
				return "Birliklar o'qilmadi. Format: \"شوال:50; قفص:12\" yoki \"-\":", nil
			}
			session.Product.Units = units
		}
		finished := session.Product
		delete(h.productSessions, userID)
		return "", &finished
	}
	return "", nil
}

// handleAdjustInput qoldiqni qo'lda o'zgartirish qiymatini o'qish
func (h *BotHandler) handleAdjustInput(ctx context.Context, productID, text string, chatID int64) {
	delta, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		h.sendMessage(chatID, "❌ Raqam o'qilmadi. Qaytadan ± tugmasini bosing.")
		return
	}

	product, err := h.catalogUseCase.AdjustStock(ctx, productID, delta)
	if err != nil {
		log.Printf("Qoldiqni o'zgartirishda xatolik: %v", err)
		h.sendMessage(chatID, "❌ Qoldiqni o'zgartirib bo'lmadi.")
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ %s: yangi qoldiq %s %s", product.Name, formatNumberText(product.CurrentStock), product.BaseUnit))
}

// parseUnitsInput "شوال:50; قفص:12" ko'rinishini o'qish
func parseUnitsInput(raw string) []entity.SubUnit {
	var units []entity.SubUnit
	for _, part := range strings.Split(raw, ";") {
		pieces := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(pieces) != 2 {
			continue
		}
		name := strings.TrimSpace(pieces[0])
		factor, err := strconv.ParseFloat(strings.TrimSpace(pieces[1]), 64)
		if err != nil || name == "" || factor <= 0 {
			continue
		}
		units = append(units, entity.SubUnit{Name: name, Factor: factor})
	}
	return units
}

// --- Baza ---

// handleBackupCommand zahira nusxa menyusi
func (h *BotHandler) handleBackupCommand(ctx context.Context, message *tgbotapi.Message) {
	stats, err := h.backupUseCase.Stats(ctx)
	if err != nil {
		log.Printf("Statistikani olishda xatolik: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Ma'lumotlarni yuklab bo'lmadi.")
		return
	}

	text := fmt.Sprintf(`🗄 Ma'lumotlar bazasi

🧾 Takliflar: %d ta
📦 Mahsulotlar: %d ta

📥 Tiklash uchun zahira .json faylini yuboring.
📤 Excel katalog import uchun .xlsx faylini yuboring.`, stats.Quotes, stats.Products)

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💾 Zahira olish", "backup_export"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Takliflarni tozalash", "backup_wipe"),
		),
	)
	h.bot.Send(msg)
}

// handleDocumentMessage yuborilgan faylni turiga qarab qayta ishlash
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document

	// Fayl hajmini tekshirish (5MB)
	if doc.FileSize > 5*1024*1024 {
		h.sendMessage(message.Chat.ID, "❌ Fayl hajmi 5MB dan oshmasligi kerak!")
		return
	}

	switch {
	case strings.HasSuffix(doc.FileName, ".json"):
		h.handleBackupImport(ctx, message)
	case strings.HasSuffix(doc.FileName, ".xlsx") || strings.HasSuffix(doc.FileName, ".xls"):
		h.handleExcelImport(ctx, message)
	case strings.HasPrefix(doc.MimeType, "image/"):
		h.sendMessage(message.Chat.ID, "⏳ Rasm o'qilmoqda...")
		data, err := h.downloadFile(doc.FileID)
		if err != nil {
			log.Printf("Rasmni yuklashda xatolik: %v", err)
			h.sendMessage(message.Chat.ID, "❌ Rasmni yuklab bo'lmadi.")
			return
		}
		h.analyzeStockImage(ctx, message.From.ID, message.Chat.ID, data, doc.MimeType)
	default:
		h.sendMessage(message.Chat.ID, "❌ Faqat .json zahira, .xlsx katalog yoki rasm fayllari qabul qilinadi.")
	}
}

// handleBackupImport zahira JSON fayldan tiklash
func (h *BotHandler) handleBackupImport(ctx context.Context, message *tgbotapi.Message) {
	h.sendMessage(message.Chat.ID, "⏳ Zahira fayli o'qilmoqda...")

	data, err := h.downloadFile(message.Document.FileID)
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}

	stats, err := h.backupUseCase.Import(ctx, data)
	if err != nil {
		log.Printf("Import error: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Tiklab bo'lmadi: %v\nMavjud ma'lumotlar o'zgarmadi.", err))
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Baza tiklandi!\n\n🧾 Takliflar: %d ta\n📦 Mahsulotlar: %d ta", stats.Quotes, stats.Products))
}

// handleExcelImport Excel fayldan katalog import
func (h *BotHandler) handleExcelImport(ctx context.Context, message *tgbotapi.Message) {
	doc := message.Document
	h.sendMessage(message.Chat.ID, "⏳ Fayl yuklanmoqda va qayta ishlanmoqda...")

	data, err := h.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("File download error: %v", err)
		h.sendMessage(message.Chat.ID, "❌ Faylni yuklashda xatolik yuz berdi.")
		return
	}

	count, err := h.catalogUseCase.ImportExcel(ctx, data, doc.FileName)
	if err != nil {
		log.Printf("Excel import error: %v", err)
		h.sendMessage(message.Chat.ID, fmt.Sprintf("❌ Katalogni yangilashda xatolik: %v", err))
		return
	}

	h.sendMessage(message.Chat.ID, fmt.Sprintf("✅ Katalog yangilandi!\n\n📦 Qo'shilgan mahsulotlar: %d ta\n📄 Fayl: %s", count, doc.FileName))
}

// sendBackupFile zahira faylini yuborish
func (h *BotHandler) sendBackupFile(ctx context.Context, chatID int64) {
	data, filename, err := h.backupUseCase.Export(ctx)
	if err != nil {
		log.Printf("Export error: %v", err)
		h.sendMessage(chatID, "❌ Zahira faylini tayyorlab bo'lmadi.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	if _, err := h.bot.Send(doc); err != nil {
		log.Printf("Zahira yuborishda xatolik: %v", err)
		h.sendMessage(chatID, "❌ Faylni yuborib bo'lmadi.")
	}
}

// --- Narxlar ---

// handlePricesCommand narxlar ko'rinishini almashtirish
func (h *BotHandler) handlePricesCommand(message *tgbotapi.Message) {
	h.priceMu.Lock()
	h.showPrices = !h.showPrices
	on := h.showPrices
	h.priceMu.Unlock()

	if on {
		h.sendMessage(message.Chat.ID, "👁 Narxlar endi ko'rinadi.")
	} else {
		h.sendMessage(message.Chat.ID, "🙈 Narxlar yashirildi. Ro'yxatlarda summalar chiqmaydi.")
	}
}

func (h *BotHandler) pricesVisible() bool {
	h.priceMu.RLock()
	defer h.priceMu.RUnlock()
	return h.showPrices
}

// --- Callback ---

func (h *BotHandler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	userID := cq.From.ID
	data := cq.Data
	chatID := cq.Message.Chat.ID

	if h.ownerChatID != 0 && userID != h.ownerChatID {
		return
	}

	// Callback ga javob (spinnerni to'xtatish)
	callback := tgbotapi.NewCallback(cq.ID, "")
	if _, err := h.bot.Request(callback); err != nil {
		log.Printf("Callback javobida xatolik: %v", err)
	}

	if strings.HasPrefix(data, "qview:") {
		h.sendQuoteDetail(ctx, chatID, strings.TrimPrefix(data, "qview:"))
		return
	}
	// O'chirishlar tasdiqdan keyin bajariladi
	if strings.HasPrefix(data, "qdel:") {
		h.sendConfirm(chatID, "⚠️ Taklif o'chiriladi va qoldiqlar qaytariladi. Davom etaymi?", "qdelok:"+strings.TrimPrefix(data, "qdel:"))
		return
	}
	if strings.HasPrefix(data, "qdelok:") {
		quoteID := strings.TrimPrefix(data, "qdelok:")
		if err := h.quoteUseCase.Delete(ctx, quoteID); err != nil {
			log.Printf("Taklifni o'chirishda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Taklif topilmadi yoki allaqachon o'chirilgan.")
			return
		}
		h.sendMessage(chatID, "🗑 Taklif o'chirildi, qoldiqlar qaytarildi.")
		return
	}
	if strings.HasPrefix(data, "pdel:") {
		h.sendConfirm(chatID, "⚠️ Mahsulot katalogdan o'chiriladi. Eski takliflardagi summalar saqlanib qoladi. Davom etaymi?", "pdelok:"+strings.TrimPrefix(data, "pdel:"))
		return
	}
	if strings.HasPrefix(data, "pdelok:") {
		productID := strings.TrimPrefix(data, "pdelok:")
		if err := h.catalogUseCase.DeleteProduct(ctx, productID); err != nil {
			log.Printf("Mahsulotni o'chirishda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Mahsulotni o'chirib bo'lmadi.")
			return
		}
		h.sendMessage(chatID, "🗑 Mahsulot katalogdan o'chirildi.")
		return
	}
	if strings.HasPrefix(data, "padj:") {
		productID := strings.TrimPrefix(data, "padj:")
		h.setAwaitingAdjust(userID, productID)
		h.sendMessage(chatID, "± O'zgarishni yozing (masalan: 25 yoki -10). Qoldiq 0 dan pastga tushmaydi.")
		return
	}

	switch data {
	case "agg_excel":
		h.sendAggregateExcel(ctx, chatID)
	case "backup_export":
		h.sendBackupFile(ctx, chatID)
	case "backup_wipe":
		h.sendConfirm(chatID, "⚠️ Barcha takliflar o'chiriladi. Katalog va qoldiqlar saqlanib qoladi. Davom etaymi?", "wipe_yes")
	case "wipe_yes":
		if err := h.backupUseCase.Wipe(ctx); err != nil {
			log.Printf("Tozalashda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Tozalab bo'lmadi.")
			return
		}
		h.sendMessage(chatID, "🗑 Barcha takliflar o'chirildi.")
	case "confirm_no":
		h.sendMessage(chatID, "Bekor qilindi.")
	case "stock_yes":
		rows, ok := h.popPendingStock(userID)
		if !ok {
			h.sendMessage(chatID, "❌ Tasdiqlanadigan qatorlar topilmadi.")
			return
		}
		applied, err := h.inventoryUC.ConfirmStockAdd(ctx, rows)
		if err != nil {
			log.Printf("Qoldiqqa qo'shishda xatolik: %v", err)
			h.sendMessage(chatID, "❌ Qoldiqqa qo'shishda xatolik yuz berdi.")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ %d ta qator qoldiqqa qo'shildi. /ombor bilan tekshiring.", applied))
	case "stock_no":
		h.popPendingStock(userID)
		h.sendMessage(chatID, "Bekor qilindi, qoldiqlar o'zgarmadi.")
	}
}

// --- Sessiyalar ---

func (h *BotHandler) startQuoteSession(userID int64) {
	h.quoteMu.Lock()
	defer h.quoteMu.Unlock()
	h.quoteSessions[userID] = &quoteSession{
		Stage:     quoteStageNeedCustomer,
		StartedAt: time.Now(),
	}
}

func (h *BotHandler) hasQuoteSession(userID int64) bool {
	h.quoteMu.RLock()
	defer h.quoteMu.RUnlock()
	_, ok := h.quoteSessions[userID]
	return ok
}

func (h *BotHandler) clearQuoteSession(userID int64) {
	h.quoteMu.Lock()
	defer h.quoteMu.Unlock()
	delete(h.quoteSessions, userID)
}

func (h *BotHandler) startProductSession(userID int64) {
	h.productMu.Lock()
	defer h.productMu.Unlock()
	h.productSessions[userID] = &productSession{Stage: productStageNeedName}
}

func (h *BotHandler) hasProductSession(userID int64) bool {
	h.productMu.RLock()
	defer h.productMu.RUnlock()
	_, ok := h.productSessions[userID]
	return ok
}

func (h *BotHandler) clearProductSession(userID int64) {
	h.productMu.Lock()
	defer h.productMu.Unlock()
	delete(h.productSessions, userID)
}

func (h *BotHandler) setPendingStock(userID int64, rows []entity.StockRow) {
	h.stockMu.Lock()
	defer h.stockMu.Unlock()
	h.pendingStock[userID] = rows
}

func (h *BotHandler) popPendingStock(userID int64) ([]entity.StockRow, bool) {
	h.stockMu.Lock()
	defer h.stockMu.Unlock()
	rows, ok := h.pendingStock[userID]
	if ok {
		delete(h.pendingStock, userID)
	}
	return rows, ok
}

func (h *BotHandler) setAwaitingAdjust(userID int64, productID string) {
	h.adjustMu.Lock()
	defer h.adjustMu.Unlock()
	h.awaitingAdjust[userID] = productID
}

func (h *BotHandler) popAwaitingAdjust(userID int64) (string, bool) {
	h.adjustMu.Lock()
	defer h.adjustMu.Unlock()
	productID, ok := h.awaitingAdjust[userID]
	if ok {
		delete(h.awaitingAdjust, userID)
	}
	return productID, ok
}

// --- Yordamchilar ---

// downloadFile Telegram dan faylni yuklash
func (h *BotHandler) downloadFile(fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	fileURL := file.Link(h.bot.Token)
	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// sendConfirm "Ha/Yo'q" tugmalari bilan tasdiq so'rash
func (h *BotHandler) sendConfirm(chatID int64, text, yesData string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ha ✅", yesData),
			tgbotapi.NewInlineKeyboardButtonData("Yo'q ❌", "confirm_no"),
		),
	)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Tasdiq so'rovini yuborishda xatolik: %v", err)
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.Printf("Xabar yuborishda xatolik: %v", err)
	}
}

// formatNumberText sonni ortiqcha nollarsiz yozish
func formatNumberText(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *BotHandler) getWelcomeMessage() string {
	return `👋 Assalomu alaykum!

Bu bot savdo takliflari, mahsulot katalogi va ombor qoldiqlarini yuritish uchun shaxsiy vosita.

🧾 /yangi - yangi narx taklifi
📦 /katalog - mahsulotlar
🏬 /ombor - qoldiqlar (rasm yuborib AI bilan to'ldirish mumkin)
📊 /jamlama - umumiy hisobot

To'liq ro'yxat: /help`
}

func (h *BotHandler) getHelpMessage() string {
	return `📖 Komandalar:

🧾 Takliflar:
/takliflar [mijoz] - ro'yxat va qidiruv
/yangi - yangi taklif yaratish

📦 Katalog:
/katalog [nom] - mahsulotlar ro'yxati
/yangisanf - yangi mahsulot qo'shish
Excel fayl yuborilsa katalogga import qilinadi.

🏬 Ombor:
/ombor [nom] - qoldiqlar ro'yxati
Qog'oz hisobot rasmini yuborsangiz, AI o'qib qoldiqqa qo'shadi.

📊 Hisobot:
/jamlama - barcha takliflar bo'yicha jamlama (Excel export bor)

🗄 Baza:
/baza - zahira olish va tozalash
.json zahira fayli yuborilsa baza tiklanadi.

👁 /narxlar - narxlarni ko'rsatish/yashirish`
}

// GetBotUsername bot username ni olish
func (h *BotHandler) GetBotUsername() string {
	return h.bot.Self.UserName
}
