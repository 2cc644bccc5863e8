package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
	"google.golang.org/api/option"
)

type visionClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	mu     sync.Mutex
	last   time.Time
	delay  time.Duration
}

// NewVisionClient ombor hisobotlarini o'qiydigan Gemini client yaratish
func NewVisionClient(apiKey string) (repository.VisionRepository, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash-exp")

	// Model konfiguratsiyasi - jadvalni aniq o'qish uchun
	model.SetTemperature(0.1)
	model.SetTopK(20)
	model.SetTopP(0.9)
	model.SetMaxOutputTokens(2048)

	// Javob qat'iy JSON massiv ko'rinishida qaytadi
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"productName": {Type: genai.TypeString},
				"quantity":    {Type: genai.TypeNumber},
				"unitName":    {Type: genai.TypeString},
			},
			Required: []string{"productName", "quantity", "unitName"},
		},
	}

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{
			genai.Text(`Sen ombor hisobotlarini o'qiydigan yordamchisisan.
Rasmda qo'lda yoki chop etilgan mahsulotlar ro'yxati bo'ladi.

QOIDALAR:
1. Har bir qatordan mahsulot nomi, miqdor va birlik nomini ajratib ol
2. Nomlarni rasmdagi yozilishida qoldir - tarjima qilma, to'g'irlama
3. Miqdor raqam bo'lishi shart; o'qib bo'lmasa qatorni tashlab ket
4. Qatorlar tartibini o'zgartirma
5. Rasmda ro'yxat bo'lmasa bo'sh massiv qaytar`),
		},
	}

	return &visionClient{
		client: client,
		model:  model,
		delay:  350 * time.Millisecond, // minimal interval
	}, nil
}

// AnalyzeStockReport rasmdan mahsulot qatorlarini ajratib olish
func (g *visionClient) AnalyzeStockReport(ctx context.Context, image []byte, mimeType string) ([]entity.StockRow, error) {
	g.throttle()

	parts := []genai.Part{
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text("Ushbu hisobotdagi mahsulot nomlari, miqdorlari va birlik nomlarini ajratib ol. Faqat JSON qaytar."),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze report: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no response candidates")
	}

	raw := extractText(resp)
	var rows []entity.StockRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}

	return rows, nil
}

// imageFormat mime turidan genai format nomini olish ("image/png" -> "png")
func imageFormat(mimeType string) string {
	if strings.HasPrefix(mimeType, "image/") {
		return strings.TrimPrefix(mimeType, "image/")
	}
	return "jpeg"
}

// extractText javobdan textni ajratib olish
func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				result.WriteString(fmt.Sprintf("%v", part))
			}
		}
	}
	return result.String()
}

// throttle so'rovlar orasida minimal interval saqlash
func (g *visionClient) throttle() {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.last.IsZero() {
		if sleep := g.delay - now.Sub(g.last); sleep > 0 {
			time.Sleep(sleep)
			now = time.Now()
		}
	}
	g.last = now
}

// Close client ni yopish
func (g *visionClient) Close() error {
	return g.client.Close()
}
