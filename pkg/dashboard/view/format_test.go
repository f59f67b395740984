package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormatter_Rejects(t *testing.T) {
	_, err := NewFormatter("Mars/Olympus", "en-US", "USD")
	assert.Error(t, err)
	_, err = NewFormatter("UTC", "en-US", "XYZW")
	assert.Error(t, err)
}

func TestFormatter_Money(t *testing.T) {
	f, err := NewFormatter("UTC", "en-US", "USD")
	require.NoError(t, err)
	assert.Equal(t, "USD 14,000.00", f.Money(14000))

	jp, err := NewFormatter("UTC", "en-US", "JPY")
	require.NoError(t, err)
	assert.Equal(t, "JPY 1,500", jp.Money(1500))
}

func TestFormatter_Number(t *testing.T) {
	f, err := NewFormatter("UTC", "en-US", "USD")
	require.NoError(t, err)
	assert.Equal(t, "-250.0", f.Number(-250))
	assert.Equal(t, "1,000.0", f.Number(1000))
}

func TestFormatter_StampUsesFixedZone(t *testing.T) {
	f, err := NewFormatter("Asia/Bangkok", "th-TH", "THB")
	require.NoError(t, err)

	ts := time.Date(2024, 3, 1, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "02 Mar 2024 00:30 +07", f.Stamp(ts))
	assert.Equal(t, "—", f.Stamp(time.Time{}))
}

func TestFormatter_MoneyFollowsLocale(t *testing.T) {
	f, err := NewFormatter("UTC", "de-DE", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "EUR 1.234.567,89", f.Money(1234567.89))
}
