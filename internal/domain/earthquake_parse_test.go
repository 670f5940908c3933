package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuakeDateTime(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		timeStr  string
		expected time.Time
	}{
		{"WIB", "16 Feb 2026", "13:15:30 WIB", time.Date(2026, 2, 16, 6, 15, 30, 0, time.UTC)},
		{"WITA", "16 Feb 2026", "13:15:30 WITA", time.Date(2026, 2, 16, 5, 15, 30, 0, time.UTC)},
		{"WIT", "16 Feb 2026", "13:15:30 WIT", time.Date(2026, 2, 16, 4, 15, 30, 0, time.UTC)},
		{"missing zone defaults to WIB", "16 Feb 2026", "13:15:30", time.Date(2026, 2, 16, 6, 15, 30, 0, time.UTC)},
		{"unknown zone defaults to WIB", "16 Feb 2026", "13:15:30 UTC", time.Date(2026, 2, 16, 6, 15, 30, 0, time.UTC)},
		{"crosses midnight", "1 Jan 2026", "03:00:00 WIT", time.Date(2025, 12, 31, 18, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQuakeDateTime(tt.date, tt.timeStr)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("malformed date", func(t *testing.T) {
		_, err := ParseQuakeDateTime("Feb 2026", "13:15:30 WIB")
		require.Error(t, err)
	})

	t.Run("malformed time", func(t *testing.T) {
		_, err := ParseQuakeDateTime("16 Feb 2026", "13:15 WIB")
		require.Error(t, err)
	})
}

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"south negates", "6.89 LS", -6.89},
		{"north stays positive", "6.89 LU", 6.89},
		{"east stays positive", "109.67 BT", 109.67},
		{"west negates", "109.67 BB", -109.67},
		{"missing hemisphere defaults positive", "6.89", 6.89},
		{"unknown hemisphere defaults positive", "6.89 XX", 6.89},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("empty coordinate", func(t *testing.T) {
		_, err := ParseCoordinate("")
		require.Error(t, err)
	})

	t.Run("non-numeric magnitude", func(t *testing.T) {
		_, err := ParseCoordinate("abc LS")
		require.Error(t, err)
	})
}

func TestParseQuakeFeed(t *testing.T) {
	t.Run("single event", func(t *testing.T) {
		data := []byte(`{"Infogempa":{"gempa":{
			"Tanggal":"16 Feb 2026","Jam":"13:15:30 WIB",
			"Lintang":"6.89 LS","Bujur":"109.67 BT",
			"Magnitude":"5.4","Kedalaman":"10 km",
			"Wilayah":"18 km TimurLaut Pekalongan",
			"Potensi":"Tidak berpotensi tsunami",
			"Shakemap":"20260216131530.mmi.jpg"}}}`)

		quakes, err := ParseQuakeFeed(data)
		require.NoError(t, err)
		require.Len(t, quakes, 1)

		eq := quakes[0]
		assert.Equal(t, time.Date(2026, 2, 16, 6, 15, 30, 0, time.UTC), eq.OccurredAt)
		assert.Equal(t, -6.89, eq.Lat)
		assert.Equal(t, 109.67, eq.Lon)
		assert.Equal(t, 5.4, eq.Magnitude)
		assert.Equal(t, 10.0, eq.DepthKm)
		assert.Equal(t, "18 km TimurLaut Pekalongan", eq.Region)
		require.NotNil(t, eq.TsunamiPotential)
		assert.Equal(t, "Tidak berpotensi tsunami", *eq.TsunamiPotential)
		require.NotNil(t, eq.ShakemapURL)
		assert.Equal(t, "https://data.bmkg.go.id/DataMKG/TEWS/20260216131530.mmi.jpg", *eq.ShakemapURL)
		assert.Nil(t, eq.FeltReport)
	})

	t.Run("list feed with unit suffixes", func(t *testing.T) {
		data := []byte(`{"Infogempa":{"gempa":[
			{"Tanggal":"16 Feb 2026","Jam":"13:15:30 WIB","Lintang":"6.89 LS","Bujur":"109.67 BT","Magnitude":"5.4 SR","Kedalaman":"10 km","Wilayah":"A"},
			{"Tanggal":"15 Feb 2026","Jam":"01:02:03 WITA","Lintang":"1.20 LU","Bujur":"120.00 BT","Magnitude":"6.1","Kedalaman":"35 km","Wilayah":"B"}
		]}}`)

		quakes, err := ParseQuakeFeed(data)
		require.NoError(t, err)
		require.Len(t, quakes, 2)
		assert.Equal(t, 5.4, quakes[0].Magnitude)
		assert.Equal(t, 1.2, quakes[1].Lat)
	})

	t.Run("malformed record skipped, rest kept", func(t *testing.T) {
		data := []byte(`{"Infogempa":{"gempa":[
			{"Tanggal":"bogus","Jam":"13:15:30 WIB","Lintang":"6.89 LS","Bujur":"109.67 BT","Magnitude":"5.4","Kedalaman":"10 km"},
			{"Tanggal":"15 Feb 2026","Jam":"01:02:03 WIB","Lintang":"1.20 LU","Bujur":"120.00 BT","Magnitude":"6.1","Kedalaman":"35 km","Wilayah":"B"}
		]}}`)

		quakes, err := ParseQuakeFeed(data)
		require.NoError(t, err)
		require.Len(t, quakes, 1)
		assert.Equal(t, "B", quakes[0].Region)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseQuakeFeed([]byte("{nope"))
		require.ErrorIs(t, err, ErrParse)
	})

	t.Run("empty envelope", func(t *testing.T) {
		quakes, err := ParseQuakeFeed([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, quakes)
	})
}
