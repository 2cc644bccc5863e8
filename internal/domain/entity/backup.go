package entity

import "time"

// BackupVersion eksport hujjatining versiyasi
const BackupVersion = "1.0"

// Backup eksport/import uchun to'liq zahira hujjati
type Backup struct {
	Quotes     []Quote   `json:"quotes"`
	Products   []Product `json:"products"`
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}
