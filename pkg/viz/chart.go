// Package viz renders the secondary metrics chart. Its templates are
// parsed on first use through Load.
package viz

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math"

	"farmdash/entities"
)

//go:embed templates/*.tmpl
var files embed.FS

const (
	width  = 300
	height = 160
	labelH = 20
)

type Chart struct{ tmpl *template.Template }

type Bar struct {
	Key, Label string
	X, Y, W, H float64
	LabelX     float64
}

// Load parses the chart templates.
func Load(ctx context.Context) (*Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := template.ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse chart templates: %w", err)
	}
	return &Chart{tmpl: t}, nil
}

// Bars scales the three metrics against the largest magnitude. Negative and
// non-finite values draw as empty bars.
func Bars(rec entities.FarmRecord) []Bar {
	vals := []struct {
		key, label string
		v          float64
	}{
		{"yield", "Yield", rec.Yield},
		{"risk", "Risk", rec.Risk},
		{"water", "Water", rec.Water},
	}
	top := 0.0
	for _, v := range vals {
		if finite(v.v) && v.v > top {
			top = v.v
		}
	}
	slot := float64(width) / float64(len(vals))
	out := make([]Bar, 0, len(vals))
	for i, v := range vals {
		h := 0.0
		if top > 0 && finite(v.v) && v.v > 0 {
			h = (v.v / top) * (height - labelH)
		}
		x := float64(i)*slot + slot*0.2
		out = append(out, Bar{
			Key: v.key, Label: v.label,
			X: x, W: slot * 0.6,
			Y: height - labelH - h, H: h,
			LabelX: x,
		})
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Render draws rec. version identifies the record revision being drawn.
func (c *Chart) Render(rec entities.FarmRecord, version uint64) (template.HTML, error) {
	var buf bytes.Buffer
	err := c.tmpl.ExecuteTemplate(&buf, "chart", map[string]any{
		"Width":   width,
		"Height":  height,
		"Bars":    Bars(rec),
		"Version": version,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
