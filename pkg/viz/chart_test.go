package viz

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmdash/entities"
)

func TestBars_ScaleToLargest(t *testing.T) {
	bs := Bars(entities.FarmRecord{Yield: 14, Risk: 21, Water: 100})
	require.Len(t, bs, 3)
	assert.Equal(t, float64(height-labelH), bs[2].H)
	assert.InDelta(t, float64(height-labelH)*0.14, bs[0].H, 1e-9)
	for _, b := range bs {
		assert.InDelta(t, float64(height-labelH), b.Y+b.H, 1e-9)
	}
}

func TestBars_NegativeAndNaNAreEmpty(t *testing.T) {
	bs := Bars(entities.FarmRecord{Yield: math.NaN(), Risk: 0, Water: -250})
	for _, b := range bs {
		assert.Zero(t, b.H, b.Key)
	}
}

func TestChart_Render(t *testing.T) {
	c, err := Load(context.Background())
	require.NoError(t, err)

	out, err := c.Render(entities.FarmRecord{Yield: 12, Risk: 25}, 3)
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Find("g.bar").Length())
	v, _ := doc.Find("figure.viz").Attr("data-version")
	assert.Equal(t, "3", v)
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
