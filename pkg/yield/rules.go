package yield

import (
	"math"

	"farmdash/entities"
)

// Hunches is the canned suggestion table. Derive always returns its first two entries.
var Hunches = [3]string{
	"Switch to drip irrigation on the east plots to cut water use.",
	"Plant a legume cover crop after harvest to rebuild soil nitrogen.",
	"Scout for stem borer after the next rain and log pest pressure.",
}

// WaterPerUnit is the water saved per unit of adjustment.
const WaterPerUnit = 50

const welcome = "Enter an adjustment and commit to get AI hunches."

// Seed is the record every session starts from when nothing is stored.
func Seed() entities.FarmRecord {
	return entities.FarmRecord{
		ID:          entities.RecordID,
		Yield:       12,
		Risk:        25,
		Water:       0,
		Suggestions: []string{welcome},
	}
}

// Derive computes the record that follows rec for the given adjustment.
// rec is not modified; NaN and Inf propagate.
func Derive(rec entities.FarmRecord, adjustment float64) entities.FarmRecord {
	return entities.FarmRecord{
		ID:          rec.ID,
		BrowserID:   rec.BrowserID,
		Yield:       rec.Yield + adjustment,
		Risk:        math.Max(0, rec.Risk-math.Abs(adjustment)*2),
		Water:       rec.Water + adjustment*WaterPerUnit,
		Suggestions: []string{Hunches[0], Hunches[1]},
		UpdatedAt:   rec.UpdatedAt,
	}
}

// Finite reports whether every metric of rec is a finite number. Records
// that fail it cannot be encoded as JSON.
func Finite(rec entities.FarmRecord) bool {
	for _, v := range [...]float64{rec.Yield, rec.Risk, rec.Water} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
