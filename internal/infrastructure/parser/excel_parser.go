package parser

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/savdo-bot/internal/domain/entity"
	"github.com/yourusername/savdo-bot/internal/domain/repository"
)

type excelParser struct{}

// NewExcelParser katalog uchun yangi Excel parser yaratish
func NewExcelParser() repository.ExcelParser {
	return &excelParser{}
}

// ParseProducts Excel fayldan mahsulot kartalarini o'qish
func (e *excelParser) ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// ParseProductsFromBytes byte array dan parse qilish
func (e *excelParser) ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error) {
	reader := bytes.NewReader(data)
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel from bytes: %w", err)
	}
	defer f.Close()

	return e.parseExcelFile(f)
}

// parseExcelFile Excel faylni parse qilish.
// Kutilgan ustunlar: nom, kategoriya, asosiy birlik, olish narxi,
// sotish narxi, qoldiq, qo'shimcha birliklar ("qop:50; karobka:12").
func (e *excelParser) parseExcelFile(f *excelize.File) ([]entity.Product, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	columnMap := e.mapColumns(rows[0])
	log.Printf("Katalog ustunlari: %v", columnMap)

	nameCol, ok := columnMap["name"]
	if !ok {
		return nil, fmt.Errorf("name column not found in header")
	}

	var products []entity.Product
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) || len(row) <= nameCol {
			continue
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}

		product := entity.Product{
			ID:       uuid.New().String(),
			Name:     name,
			BaseUnit: "كيلو",
			Category: "عام",
		}

		if v := cell(row, columnMap, "category"); v != "" {
			product.Category = v
		}
		if v := cell(row, columnMap, "baseUnit"); v != "" {
			product.BaseUnit = v
		}
		if v := cell(row, columnMap, "purchasePrice"); v != "" {
			if n, err := parseNumber(v); err == nil {
				product.PurchasePrice = n
			}
		}
		if v := cell(row, columnMap, "salePrice"); v != "" {
			if n, err := parseNumber(v); err == nil {
				product.SalePrice = n
			}
		}
		if v := cell(row, columnMap, "stock"); v != "" {
			if n, err := parseNumber(v); err == nil {
				product.CurrentStock = n
			}
		}
		if v := cell(row, columnMap, "units"); v != "" {
			product.Units = parseSubUnits(v)
		}

		products = append(products, product)
	}

	log.Printf("Kataloqdan o'qildi: %d ta mahsulot", len(products))

	if len(products) == 0 {
		return nil, fmt.Errorf("no valid products found in excel file")
	}
	return products, nil
}

// mapColumns header qatoridan column mapping yaratish
func (e *excelParser) mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int)

	for i, col := range header {
		colName := strings.ToLower(strings.TrimSpace(col))

		switch {
		case contains(colName, "nomi", "nom", "name", "mahsulot", "الصنف", "اسم"):
			columnMap["name"] = i
		case contains(colName, "kategoriya", "category", "tur", "التصنيف"):
			columnMap["category"] = i
		// "birliklar" ni "birlik" dan oldin tekshirish kerak
		case contains(colName, "birliklar", "units", "qadoq", "التعبئة"):
			columnMap["units"] = i
		case contains(colName, "asosiy birlik", "birlik", "unit", "الوحدة"):
			columnMap["baseUnit"] = i
		case contains(colName, "olish", "purchase", "الشراء"):
			columnMap["purchasePrice"] = i
		case contains(colName, "sotish", "narx", "sale", "price", "البيع"):
			columnMap["salePrice"] = i
		case contains(colName, "qoldiq", "stock", "soni", "الرصيد"):
			columnMap["stock"] = i
		}
	}

	return columnMap
}

// parseSubUnits "qop:50; karobka:12" ko'rinishidagi katakni o'qish
func parseSubUnits(raw string) []entity.SubUnit {
	var units []entity.SubUnit
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == ',' }) {
		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimSpace(fields[0])
		factor, err := parseNumber(fields[1])
		if err != nil || name == "" || factor <= 0 {
			continue
		}
		units = append(units, entity.SubUnit{Name: name, Factor: factor})
	}
	return units
}

// parseNumber raqamni o'qish; probel va ming ajratkichlari olib tashlanadi
func parseNumber(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}

func cell(row []string, columnMap map[string]int, key string) string {
	idx, ok := columnMap[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow qator bo'sh yoki yo'qligini tekshirish
func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// contains nom variantlaridan biri mos kelishini tekshirish
func contains(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
