package datex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Normalizes(t *testing.T) {
	assert.Equal(t, MustParse("2024-03-01"), New(2024, time.February, 30))
	assert.Equal(t, MustParse("2023-12-31"), New(2024, time.January, 0))
}

func TestLastOfMonth_LeapYear(t *testing.T) {
	assert.Equal(t, MustParse("2024-02-29"), MustParse("2024-02-15").LastOfMonth())
	assert.Equal(t, MustParse("2023-02-28"), MustParse("2023-02-15").LastOfMonth())
	assert.Equal(t, MustParse("2024-12-31"), MustParse("2024-12-01").LastOfMonth())
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     int
	}{
		{"same day", "2024-03-09", "2024-03-09", 0},
		{"one day", "2024-03-09", "2024-03-10", 1},
		{"backwards", "2024-03-10", "2024-03-09", -1},
		{"across DST in spring", "2024-03-09", "2024-03-11", 2},
		{"across leap day", "2024-02-28", "2024-03-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(MustParse(tt.from), MustParse(tt.to)))
		})
	}
}

func TestToday_UsesLocation(t *testing.T) {
	now := time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC)
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	assert.Equal(t, MustParse("2024-03-10"), Today(now, time.UTC))
	assert.Equal(t, MustParse("2024-03-09"), Today(now, la))
	assert.Equal(t, MustParse("2024-03-10"), Today(now, nil))
}

func TestCompareAndBetween(t *testing.T) {
	a := MustParse("2024-03-04")
	b := MustParse("2024-03-10")

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, MustParse("2024-03-04").Between(a, b))
	assert.True(t, MustParse("2024-03-10").Between(a, b))
	assert.False(t, MustParse("2024-03-11").Between(a, b))
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}

	b, err := json.Marshal(wrapper{D: MustParse("2024-02-29")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-02-29"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-03-06"}`), &w))
	assert.Equal(t, MustParse("2024-03-06"), w.D)

	require.NoError(t, json.Unmarshal([]byte(`{"d":""}`), &w))
	assert.True(t, w.D.IsZero())

	require.Error(t, json.Unmarshal([]byte(`{"d":"03/06/2024"}`), &w))
}

func TestScan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MustParse("2024-03-06"), d)

	require.NoError(t, d.Scan([]byte("2024-03-07")))
	assert.Equal(t, MustParse("2024-03-07"), d)

	require.NoError(t, d.Scan("2024-03-08T00:00:00Z"))
	assert.Equal(t, MustParse("2024-03-08"), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	require.Error(t, d.Scan(42))
}

func TestValue(t *testing.T) {
	v, err := MustParse("2024-03-06").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
