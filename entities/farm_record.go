package entities

import "time"

// RecordID is the constant key of the single stored row per browser.
const RecordID uint = 1

type FarmRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement:false" json:"id"`
	BrowserID   string    `gorm:"primaryKey;size:64" json:"-"`
	Yield       float64   `json:"yield"` // t/ha
	Risk        float64   `json:"risk"`  // percent, >= 0 after derivation
	Water       float64   `json:"water"`
	Suggestions []string  `gorm:"serializer:json" json:"suggestions"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a copy that shares no backing array with r.
func (r FarmRecord) Clone() FarmRecord {
	out := r
	if r.Suggestions != nil {
		out.Suggestions = append([]string(nil), r.Suggestions...)
	}
	return out
}
