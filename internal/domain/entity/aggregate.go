package entity

import (
	"fmt"
	"math"
	"strconv"
)

// AggregatedItem barcha takliflar bo'yicha bitta mahsulotning jami miqdori
// va qiymati. Saqlanmaydi - har safar qayta hisoblanadi. Nom, kategoriya va
// birlik joriy mahsulot kartasidan olinadi.
type AggregatedItem struct {
	ProductID       string
	ProductName     string
	BaseUnit        string
	Category        string
	TotalInBaseUnit float64
	TotalPrice      float64
}

// FormatQuantity jami miqdorni "to'liq qo'shimcha birlik + qoldiq asosiy
// birlik" ko'rinishida yozish. Har doim ro'yxatdagi birinchi qo'shimcha
// birlik olinadi. Qismlar hujjatlardagi kabi arabcha "va" bilan bog'lanadi.
func FormatQuantity(item AggregatedItem, product *Product) string {
	if product == nil || len(product.Units) == 0 {
		return fmt.Sprintf("%s %s", formatNumber(item.TotalInBaseUnit), item.BaseUnit)
	}

	sub := product.Units[0]
	fullUnits := math.Floor(item.TotalInBaseUnit / sub.Factor)
	remainder := item.TotalInBaseUnit - sub.Factor*fullUnits

	var parts []string
	if fullUnits > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatNumber(fullUnits), sub.Name))
	}
	if remainder > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", formatNumber(remainder), item.BaseUnit))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("0 %s", item.BaseUnit)
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " و " + p
	}
	return out
}

// formatNumber sonni ortiqcha nollarsiz yozish (120 -> "120", 2.5 -> "2.5")
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
