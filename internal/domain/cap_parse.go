package domain

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// capAlert mirrors a CAP 1.2 alert document. Tags carry local names only,
// so the same decode handles documents with and without the
// urn:oasis:names:tc:emergency:cap:1.2 namespace.
type capAlert struct {
	Identifier string   `xml:"identifier"`
	Sender     string   `xml:"sender"`
	Sent       string   `xml:"sent"`
	Info       *capInfo `xml:"info"`
}

type capInfo struct {
	Event       string   `xml:"event"`
	Urgency     string   `xml:"urgency"`
	Severity    string   `xml:"severity"`
	Certainty   string   `xml:"certainty"`
	Effective   string   `xml:"effective"`
	Expires     string   `xml:"expires"`
	Headline    string   `xml:"headline"`
	Description string   `xml:"description"`
	SenderName  string   `xml:"senderName"`
	Web         string   `xml:"web"`
	Area        *capArea `xml:"area"`
}

type capArea struct {
	AreaDesc string   `xml:"areaDesc"`
	Polygons []string `xml:"polygon"`
}

// capTimeLayouts covers CAP timestamps with a ±HH:MM zone, the compact
// ±HHMM variant, and naive local times without a zone.
var capTimeLayouts = []struct {
	layout  string
	hasZone bool
}{
	{time.RFC3339, true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02T15:04:05", false},
}

// ParseCAPDateTime parses a CAP timestamp. The second return reports
// whether the value carried zone information; naive timestamps never mark
// a warning expired.
func ParseCAPDateTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}
	for _, c := range capTimeLayouts {
		if t, err := time.Parse(c.layout, s); err == nil {
			return t, c.hasZone, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized CAP timestamp %q", s)
}

// ParsePolygon converts a CAP polygon string, a whitespace-separated list
// of "lat,lon" pairs, into points. Malformed pairs are skipped.
func ParsePolygon(s string) [][2]float64 {
	var points [][2]float64
	for _, pair := range strings.Fields(s) {
		coords := strings.Split(pair, ",")
		if len(coords) < 2 {
			continue
		}
		lat, errLat := strconv.ParseFloat(coords[0], 64)
		lon, errLon := strconv.ParseFloat(coords[1], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		points = append(points, [2]float64{lat, lon})
	}
	return points
}

// ParseCAP normalizes a CAP alert document into a Warning.
func ParseCAP(data []byte) (Warning, error) {
	var doc capAlert
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Warning{}, fmt.Errorf("%w: decode CAP document: %v", ErrParse, err)
	}

	warning := Warning{
		Identifier: doc.Identifier,
		Sender:     doc.Sender,
		Severity:   SeverityUnknown,
		Urgency:    UrgencyUnknown,
		Certainty:  CertaintyUnknown,
	}

	info := doc.Info
	if info == nil {
		return warning, nil
	}

	warning.Event = info.Event
	warning.Severity = ParseSeverity(info.Severity)
	warning.Urgency = ParseUrgency(info.Urgency)
	warning.Certainty = ParseCertainty(info.Certainty)
	warning.Headline = info.Headline
	warning.Description = info.Description
	if info.SenderName != "" {
		warning.Sender = info.SenderName
	}
	if info.Web != "" {
		web := info.Web
		warning.InfographicURL = &web
	}

	if t, _, err := ParseCAPDateTime(info.Effective); err == nil {
		warning.Effective = &t
	}
	if t, hasZone, err := ParseCAPDateTime(info.Expires); err == nil {
		warning.Expires = &t
		if hasZone {
			warning.IsExpired = t.Before(clock.Now())
		}
	}

	if area := info.Area; area != nil {
		var polygon [][2]float64
		for _, poly := range area.Polygons {
			polygon = append(polygon, ParsePolygon(poly)...)
		}
		if area.AreaDesc != "" || len(polygon) > 0 {
			warning.Areas = append(warning.Areas, AlertArea{
				Name:    area.AreaDesc,
				Polygon: polygon,
			})
		}
	}

	return warning, nil
}

// RegionNameFromWarning derives a best-effort region name: the first area
// name, else the headline text after " di ", else "Unknown".
func RegionNameFromWarning(w Warning) string {
	if len(w.Areas) > 0 && w.Areas[0].Name != "" {
		return w.Areas[0].Name
	}
	if i := strings.LastIndex(w.Headline, " di "); i >= 0 {
		return w.Headline[i+len(" di "):]
	}
	return "Unknown"
}
