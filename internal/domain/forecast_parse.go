package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// forecastTimeLayout matches the feed's datetime text.
const forecastTimeLayout = "2006-01-02 15:04:05"

// rawForecastResponse mirrors the prakiraan-cuaca payload. Numeric fields
// arrive as json.Number because the feed is inconsistent about quoting.
type rawForecastResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Lokasi  *rawLocation       `json:"lokasi"`
	Data    []rawForecastEntry `json:"data"`
}

type rawLocation struct {
	Adm4      string      `json:"adm4"`
	Provinsi  string      `json:"provinsi"`
	Kabkota   string      `json:"kabkota"`
	Kecamatan string      `json:"kecamatan"`
	Deskel    string      `json:"deskel"`
	Lat       json.Number `json:"lat"`
	Lon       json.Number `json:"lon"`
	Timezone  string      `json:"timezone"`
}

type rawForecastEntry struct {
	LocalDatetime string      `json:"local_datetime"`
	UTCDatetime   string      `json:"utc_datetime"`
	T             json.Number `json:"t"`
	Hu            json.Number `json:"hu"`
	Weather       json.Number `json:"weather"`
	Ws            json.Number `json:"ws"`
	Wd            string      `json:"wd"`
	WdDeg         json.Number `json:"wd_deg"`
	Tcc           json.Number `json:"tcc"`
	Vs            json.Number `json:"vs"`
}

func numberToInt(n json.Number) (int, error) {
	if n == "" {
		return 0, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func numberToFloat(n json.Number) (float64, error) {
	if n == "" {
		return 0, nil
	}
	return n.Float64()
}

// parseForecastEntry converts one raw slot. Returns false when a field
// required for a meaningful entry is malformed; the caller drops it.
func parseForecastEntry(raw rawForecastEntry) (ForecastEntry, bool) {
	code, err := numberToInt(raw.Weather)
	if err != nil {
		return ForecastEntry{}, false
	}
	temperature, errT := numberToInt(raw.T)
	humidity, errHu := numberToInt(raw.Hu)
	windSpeed, errWs := numberToFloat(raw.Ws)
	windDeg, errWd := numberToInt(raw.WdDeg)
	cloudCover, errTcc := numberToInt(raw.Tcc)
	visibility, errVs := numberToInt(raw.Vs)
	if errT != nil || errHu != nil || errWs != nil || errWd != nil || errTcc != nil || errVs != nil {
		return ForecastEntry{}, false
	}

	name, nameEn := WeatherCodeNames(code)

	// Day/night for the icon: local hours 06:00-17:59 count as day.
	isDay := true
	if fields := strings.Fields(raw.LocalDatetime); len(fields) == 2 {
		if hour, err := strconv.Atoi(strings.SplitN(fields[1], ":", 2)[0]); err == nil {
			isDay = hour >= 6 && hour < 18
		}
	}

	return ForecastEntry{
		LocalDatetime:    raw.LocalDatetime,
		UTCDatetime:      raw.UTCDatetime,
		TemperatureC:     temperature,
		HumidityPct:      humidity,
		Weather:          name,
		WeatherEn:        nameEn,
		WeatherCode:      code,
		WindSpeedKmh:     windSpeed,
		WindDirection:    raw.Wd,
		WindDirectionDeg: windDeg,
		CloudCoverPct:    cloudCover,
		VisibilityM:      visibility,
		VisibilityText:   VisibilityText(visibility),
		IconURL:          IconURL(code, isDay),
	}, true
}

// GroupForecastByDate buckets entries by the date portion of their local
// datetime and sorts each day's entries by that string. Entries without a
// local datetime are dropped.
func GroupForecastByDate(entries []ForecastEntry) []ForecastDay {
	byDate := make(map[string][]ForecastEntry)
	for _, entry := range entries {
		date := strings.SplitN(entry.LocalDatetime, " ", 2)[0]
		if date == "" {
			continue
		}
		byDate[date] = append(byDate[date], entry)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]ForecastDay, 0, len(dates))
	for _, date := range dates {
		dayEntries := byDate[date]
		sort.Slice(dayEntries, func(i, j int) bool {
			return dayEntries[i].LocalDatetime < dayEntries[j].LocalDatetime
		})
		days = append(days, ForecastDay{Date: date, Entries: dayEntries})
	}
	return days
}

// ParseForecast normalizes a prakiraan-cuaca response. A status=error
// sentinel, a missing location, or zero parseable entries all surface as
// ErrParse: there is nothing meaningful to return without them.
func ParseForecast(data []byte) (Forecast, error) {
	var raw rawForecastResponse
	if err := json.Unmarshal(data, &raw); err != nil {
		return Forecast{}, fmt.Errorf("%w: decode forecast response: %v", ErrParse, err)
	}

	if raw.Status == "error" {
		msg := raw.Message
		if msg == "" {
			msg = "unknown error from BMKG"
		}
		return Forecast{}, fmt.Errorf("%w: %s", ErrParse, msg)
	}
	if raw.Lokasi == nil {
		return Forecast{}, fmt.Errorf("%w: no location data in response", ErrParse)
	}

	lat, _ := numberToFloat(raw.Lokasi.Lat)
	lon, _ := numberToFloat(raw.Lokasi.Lon)
	tz := raw.Lokasi.Timezone
	if tz == "" {
		tz = "+0700"
	}
	location := ForecastLocation{
		Code:        raw.Lokasi.Adm4,
		Province:    raw.Lokasi.Provinsi,
		District:    raw.Lokasi.Kabkota,
		Subdistrict: raw.Lokasi.Kecamatan,
		Village:     raw.Lokasi.Deskel,
		Lat:         lat,
		Lon:         lon,
		Timezone:    tz,
	}

	entries := make([]ForecastEntry, 0, len(raw.Data))
	for _, rawEntry := range raw.Data {
		if entry, ok := parseForecastEntry(rawEntry); ok {
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 {
		return Forecast{}, fmt.Errorf("%w: no forecast entries in response", ErrParse)
	}

	return Forecast{
		Location: location,
		Days:     GroupForecastByDate(entries),
	}, nil
}

// FindCurrentEntry selects the entry whose UTC timestamp is nearest to
// now. When no entry parses it falls back to the first entry of the first
// day; false means the forecast has no days at all.
func FindCurrentEntry(f Forecast) (ForecastEntry, bool) {
	now := clock.Now().UTC()

	best := ForecastEntry{}
	bestDelta := time.Duration(math.MaxInt64)
	found := false

	for _, day := range f.Days {
		for _, entry := range day.Entries {
			t, err := time.Parse(forecastTimeLayout, entry.UTCDatetime)
			if err != nil {
				continue
			}
			delta := now.Sub(t.UTC())
			if delta < 0 {
				delta = -delta
			}
			if delta < bestDelta {
				bestDelta = delta
				best = entry
				found = true
			}
		}
	}
	if found {
		return best, true
	}

	if len(f.Days) > 0 && len(f.Days[0].Entries) > 0 {
		return f.Days[0].Entries[0], true
	}
	return ForecastEntry{}, false
}
