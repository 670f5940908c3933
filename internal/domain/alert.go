package domain

import "time"

// Severity is a CAP severity level.
type Severity string

// CAP severity levels with an Unknown fallback for unparseable values.
const (
	SeverityExtreme  Severity = "Extreme"
	SeveritySevere   Severity = "Severe"
	SeverityModerate Severity = "Moderate"
	SeverityMinor    Severity = "Minor"
	SeverityUnknown  Severity = "Unknown"
)

// ParseSeverity maps free text to a Severity, defaulting to Unknown.
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityExtreme, SeveritySevere, SeverityModerate, SeverityMinor:
		return Severity(s)
	default:
		return SeverityUnknown
	}
}

// Urgency is a CAP urgency level.
type Urgency string

// CAP urgency levels with an Unknown fallback.
const (
	UrgencyImmediate Urgency = "Immediate"
	UrgencyExpected  Urgency = "Expected"
	UrgencyFuture    Urgency = "Future"
	UrgencyPast      Urgency = "Past"
	UrgencyUnknown   Urgency = "Unknown"
)

// ParseUrgency maps free text to an Urgency, defaulting to Unknown.
func ParseUrgency(s string) Urgency {
	switch Urgency(s) {
	case UrgencyImmediate, UrgencyExpected, UrgencyFuture, UrgencyPast:
		return Urgency(s)
	default:
		return UrgencyUnknown
	}
}

// Certainty is a CAP certainty level.
type Certainty string

// CAP certainty levels with an Unknown fallback.
const (
	CertaintyObserved Certainty = "Observed"
	CertaintyLikely   Certainty = "Likely"
	CertaintyPossible Certainty = "Possible"
	CertaintyUnlikely Certainty = "Unlikely"
	CertaintyUnknown  Certainty = "Unknown"
)

// ParseCertainty maps free text to a Certainty, defaulting to Unknown.
func ParseCertainty(s string) Certainty {
	switch Certainty(s) {
	case CertaintyObserved, CertaintyLikely, CertaintyPossible, CertaintyUnlikely:
		return Certainty(s)
	default:
		return CertaintyUnknown
	}
}

// AlertArea is one affected area from a CAP document. Polygon points are
// [lat, lon] pairs in document order; multiple polygon elements under one
// area concatenate into a single list.
type AlertArea struct {
	Name    string       `json:"name"`
	Polygon [][2]float64 `json:"polygon,omitempty"`
}

// Warning is the canonical record for one CAP nowcast document.
type Warning struct {
	Identifier     string      `json:"identifier"`
	Event          string      `json:"event"`
	Severity       Severity    `json:"severity"`
	Urgency        Urgency     `json:"urgency"`
	Certainty      Certainty   `json:"certainty"`
	Effective      *time.Time  `json:"effective"`
	Expires        *time.Time  `json:"expires"`
	Headline       string      `json:"headline"`
	Description    string      `json:"description"`
	Sender         string      `json:"sender"`
	InfographicURL *string     `json:"infographic_url"`
	Areas          []AlertArea `json:"areas"`
	IsExpired      bool        `json:"is_expired"`
}

// ActiveAlert is one RSS item from the nowcast feed: a warning summary
// pointing at its CAP detail document.
type ActiveAlert struct {
	Code        string    `json:"code"`
	Province    string    `json:"province"`
	Description string    `json:"description"`
	PublishedAt time.Time `json:"published_at"`
	DetailURL   string    `json:"detail_url"`
}

// LocationCheckResult lists the active warnings mentioning a location.
type LocationCheckResult struct {
	Location    string    `json:"location"`
	HasWarnings bool      `json:"has_warnings"`
	Warnings    []Warning `json:"warnings"`
}
