package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// shakemapBaseURL prefixes the Shakemap filename from the feed.
const shakemapBaseURL = "https://data.bmkg.go.id/DataMKG/TEWS/"

// monthAbbr maps the feed's English month abbreviations.
var monthAbbr = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// zoneOffsetHours maps BMKG's named zones to their UTC offsets.
// Unrecognized abbreviations fall back to WIB.
var zoneOffsetHours = map[string]int{
	"WIB":  7,
	"WITA": 8,
	"WIT":  9,
}

// rawQuake mirrors one event object from the TEWS feeds.
type rawQuake struct {
	Tanggal   string `json:"Tanggal"`
	Jam       string `json:"Jam"`
	Lintang   string `json:"Lintang"`
	Bujur     string `json:"Bujur"`
	Magnitude string `json:"Magnitude"`
	Kedalaman string `json:"Kedalaman"`
	Wilayah   string `json:"Wilayah"`
	Potensi   string `json:"Potensi"`
	Dirasakan string `json:"Dirasakan"`
	Shakemap  string `json:"Shakemap"`
}

// rawQuakeFeed mirrors the feed envelope. The "gempa" member is a single
// object in autogempa.json and a list in the other two feeds.
type rawQuakeFeed struct {
	Infogempa struct {
		Gempa json.RawMessage `json:"gempa"`
	} `json:"Infogempa"`
}

// ParseQuakeDateTime reconstructs the UTC occurrence time from the feed's
// "DD Mon YYYY" date and "HH:MM:SS ZZZ" time pair.
func ParseQuakeDateTime(dateStr, timeStr string) (time.Time, error) {
	dateParts := strings.Fields(dateStr)
	if len(dateParts) != 3 {
		return time.Time{}, fmt.Errorf("malformed date %q", dateStr)
	}
	day, err := strconv.Atoi(dateParts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed day in %q", dateStr)
	}
	month, ok := monthAbbr[dateParts[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("unknown month in %q", dateStr)
	}
	year, err := strconv.Atoi(dateParts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed year in %q", dateStr)
	}

	timeParts := strings.Fields(timeStr)
	if len(timeParts) == 0 {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}
	zone := "WIB"
	if len(timeParts) > 1 {
		zone = timeParts[1]
	}
	offset, ok := zoneOffsetHours[zone]
	if !ok {
		offset = zoneOffsetHours["WIB"]
	}

	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}
	hour, errH := strconv.Atoi(hms[0])
	minute, errM := strconv.Atoi(hms[1])
	second, errS := strconv.Atoi(hms[2])
	if errH != nil || errM != nil || errS != nil {
		return time.Time{}, fmt.Errorf("malformed time %q", timeStr)
	}

	local := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	return local.Add(-time.Duration(offset) * time.Hour), nil
}

// ParseCoordinate converts "6.89 LS" / "109.67 BT" style text to a signed
// decimal degree. LS (south) and BB (west) negate; anything else keeps
// the sign.
func ParseCoordinate(s string) (float64, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty coordinate")
	}
	v, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed coordinate %q", s)
	}
	if len(parts) > 1 {
		switch parts[1] {
		case "LS", "BB":
			v = -v
		}
	}
	return v, nil
}

// parseLeadingFloat parses a numeric field that may carry a trailing
// space-separated unit, e.g. "5.4 SR" or "10 km".
func parseLeadingFloat(s string) (float64, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(parts[0], 64)
}

// parseQuake converts one raw feed object into a canonical Earthquake.
func parseQuake(rec rawQuake) (Earthquake, error) {
	occurredAt, err := ParseQuakeDateTime(rec.Tanggal, rec.Jam)
	if err != nil {
		return Earthquake{}, err
	}
	lat, err := ParseCoordinate(rec.Lintang)
	if err != nil {
		return Earthquake{}, err
	}
	lon, err := ParseCoordinate(rec.Bujur)
	if err != nil {
		return Earthquake{}, err
	}
	magnitude, err := parseLeadingFloat(rec.Magnitude)
	if err != nil {
		return Earthquake{}, fmt.Errorf("malformed magnitude %q", rec.Magnitude)
	}
	depth, err := parseLeadingFloat(rec.Kedalaman)
	if err != nil {
		return Earthquake{}, fmt.Errorf("malformed depth %q", rec.Kedalaman)
	}

	eq := Earthquake{
		OccurredAt: occurredAt,
		Magnitude:  magnitude,
		DepthKm:    depth,
		Lat:        lat,
		Lon:        lon,
		LatText:    rec.Lintang,
		LonText:    rec.Bujur,
		Region:     rec.Wilayah,
	}
	if rec.Potensi != "" {
		eq.TsunamiPotential = &rec.Potensi
	}
	if rec.Dirasakan != "" {
		eq.FeltReport = &rec.Dirasakan
	}
	if rec.Shakemap != "" {
		u := shakemapBaseURL + rec.Shakemap
		eq.ShakemapURL = &u
	}
	return eq, nil
}

// ParseQuakeFeed parses a TEWS feed document into canonical earthquakes.
// Records with unparseable required fields are skipped; a document with
// no Infogempa envelope yields an empty slice.
func ParseQuakeFeed(data []byte) ([]Earthquake, error) {
	var feed rawQuakeFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("%w: decode earthquake feed: %v", ErrParse, err)
	}
	if len(feed.Infogempa.Gempa) == 0 {
		return nil, nil
	}

	// autogempa.json carries a single object, the list feeds an array.
	var records []rawQuake
	var single rawQuake
	if err := json.Unmarshal(feed.Infogempa.Gempa, &single); err == nil {
		records = []rawQuake{single}
	} else if err := json.Unmarshal(feed.Infogempa.Gempa, &records); err != nil {
		return nil, fmt.Errorf("%w: decode gempa member: %v", ErrParse, err)
	}

	quakes := make([]Earthquake, 0, len(records))
	for _, rec := range records {
		eq, err := parseQuake(rec)
		if err != nil {
			continue
		}
		quakes = append(quakes, eq)
	}
	return quakes, nil
}
