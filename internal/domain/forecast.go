package domain

import "fmt"

// iconBaseURL hosts the BMKG weather condition icons.
const iconBaseURL = "https://api-apps.bmkg.go.id/storage/icon/cuaca/"

// weatherCodeNames maps BMKG condition codes to (Indonesian, English)
// display names. Codes outside the table display as Berawan.
var weatherCodeNames = map[int][2]string{
	0:  {"Cerah", "Clear"},
	1:  {"Cerah Berawan", "Partly Cloudy"},
	2:  {"Berawan", "Mostly Cloudy"},
	3:  {"Berawan Tebal", "Overcast"},
	4:  {"Kabut", "Haze"},
	5:  {"Hujan Ringan", "Light Rain"},
	10: {"Hujan Sedang", "Moderate Rain"},
	45: {"Hujan Lebat", "Heavy Rain"},
	60: {"Hujan Lokal", "Local Rain"},
	95: {"Petir", "Thunderstorm"},
	97: {"Petir dan Hujan Lebat", "Severe Thunderstorm"},
}

// weatherCodeIcons maps condition codes to icon file stems.
var weatherCodeIcons = map[int]string{
	0:  "cerah",
	1:  "cerah-berawan",
	2:  "berawan",
	3:  "berawan-tebal",
	4:  "kabut",
	5:  "hujan-ringan",
	10: "hujan-sedang",
	45: "hujan-lebat",
	60: "hujan-lokal",
	95: "petir",
	97: "petir-hujan-lebat",
}

// WeatherCodeNames returns the (Indonesian, English) display names for a
// BMKG condition code.
func WeatherCodeNames(code int) (string, string) {
	names, ok := weatherCodeNames[code]
	if !ok {
		names = weatherCodeNames[2]
	}
	return names[0], names[1]
}

// IconURL builds the condition icon URL for a code and day/night variant.
func IconURL(code int, isDay bool) string {
	stem, ok := weatherCodeIcons[code]
	if !ok {
		stem = "berawan"
	}
	suffix := "-pm"
	if isDay {
		suffix = "-am"
	}
	return iconBaseURL + stem + suffix + ".svg"
}

// VisibilityText buckets a visibility in meters into display text.
func VisibilityText(meters int) string {
	switch {
	case meters >= 10000:
		return "> 10 km"
	case meters >= 5000:
		return fmt.Sprintf("%d km", meters/1000)
	case meters >= 1000:
		return fmt.Sprintf("%.1f km", float64(meters)/1000)
	default:
		return fmt.Sprintf("%d m", meters)
	}
}

// ForecastLocation identifies the village-level area a forecast covers.
type ForecastLocation struct {
	Code        string  `json:"code"`
	Province    string  `json:"province"`
	District    string  `json:"district"`
	Subdistrict string  `json:"subdistrict"`
	Village     string  `json:"village"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
}

// ForecastEntry is one three-hourly forecast slot. The datetime fields
// stay as "YYYY-MM-DD HH:MM:SS" text and are parsed lazily when needed;
// the zero-padded format sorts correctly as strings.
type ForecastEntry struct {
	LocalDatetime    string  `json:"local_datetime"`
	UTCDatetime      string  `json:"utc_datetime"`
	TemperatureC     int     `json:"temperature_c"`
	HumidityPct      int     `json:"humidity_pct"`
	Weather          string  `json:"weather"`
	WeatherEn        string  `json:"weather_en"`
	WeatherCode      int     `json:"weather_code"`
	WindSpeedKmh     float64 `json:"wind_speed_kmh"`
	WindDirection    string  `json:"wind_direction"`
	WindDirectionDeg int     `json:"wind_direction_deg"`
	CloudCoverPct    int     `json:"cloud_cover_pct"`
	VisibilityM      int     `json:"visibility_m"`
	VisibilityText   string  `json:"visibility_text"`
	IconURL          string  `json:"icon_url"`
}

// ForecastDay groups the entries of one local date, ordered by time.
type ForecastDay struct {
	Date    string          `json:"date"`
	Entries []ForecastEntry `json:"entries"`
}

// Forecast is a complete multi-day forecast for one location.
type Forecast struct {
	Location ForecastLocation `json:"location"`
	Days     []ForecastDay    `json:"forecast"`
}

// CurrentWeather pairs a location with the entry nearest to now.
type CurrentWeather struct {
	Location ForecastLocation `json:"location"`
	Current  ForecastEntry    `json:"current"`
}
