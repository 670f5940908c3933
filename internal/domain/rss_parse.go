package domain

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// alertSuffix terminates every CAP detail filename in the feed's links.
const alertSuffix = "_alert.xml"

// maxSummaryLen caps the description carried on an RSS summary.
const maxSummaryLen = 200

// rssDateLayouts covers the pubDate variants BMKG emits: RFC 1123 with a
// numeric zone, single-digit days, and the occasional missing day name.
var rssDateLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// ParseRSSDate parses an RFC-822-style pubDate into UTC.
func ParseRSSDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range rssDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized pubDate %q", s)
}

// AlertCodeFromLink extracts the alert code from an RSS item link: the
// final path segment with the _alert.xml suffix stripped.
func AlertCodeFromLink(link string) string {
	segment := link
	if i := strings.LastIndex(link, "/"); i >= 0 {
		segment = link[i+1:]
	}
	return strings.TrimSuffix(segment, alertSuffix)
}

// ParseAlertFeed parses the nowcast RSS feed into active-alert summaries.
// Items missing a title or link are skipped; an unparseable pubDate
// defaults to the current time rather than dropping the item.
func ParseAlertFeed(data []byte) ([]ActiveAlert, error) {
	var doc rssDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode alert feed: %v", ErrParse, err)
	}

	alerts := make([]ActiveAlert, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		publishedAt, err := ParseRSSDate(item.PubDate)
		if err != nil {
			publishedAt = clock.Now().UTC()
		}

		code := AlertCodeFromLink(link)

		// Titles read "Hujan Lebat disertai Petir di Banten"; the
		// province follows the last " di ".
		province := title
		if i := strings.LastIndex(title, " di "); i >= 0 {
			province = title[i+len(" di "):]
		}

		// Truncate on runes so a multi-byte character at the boundary
		// cannot leave invalid UTF-8 in the summary.
		description := item.Description
		if runes := []rune(description); len(runes) > maxSummaryLen {
			description = string(runes[:maxSummaryLen]) + "..."
		}

		alerts = append(alerts, ActiveAlert{
			Code:        code,
			Province:    province,
			Description: description,
			PublishedAt: publishedAt,
			DetailURL:   "/v1/nowcast/" + code,
		})
	}
	return alerts, nil
}
