// Package domain models data published by BMKG (Badan Meteorologi,
// Klimatologi, dan Geofisika), Indonesia's meteorology and geophysics
// agency, and holds the parsers that normalize its wire formats.
//
// # Data Sources
//
// Earthquake feeds are JSON documents from data.bmkg.go.id/DataMKG/TEWS:
// autogempa.json (latest event), gempaterkini.json (recent M 5.0+), and
// gempadirasakan.json (felt reports). Weather forecasts come from
// api.bmkg.go.id/publik/prakiraan-cuaca keyed by ADM4 village code.
// Severe-weather nowcasts are an RSS feed of active warnings plus one CAP
// (Common Alerting Protocol) XML document per warning.
//
// # BMKG Earthquake Conventions
//
// Timestamps are split across two fields with a named zone:
//
//	"Tanggal": "16 Feb 2026"
//	"Jam":     "13:15:30 WIB"
//
// WIB, WITA, and WIT are Indonesia's three civil time zones at UTC+7,
// UTC+8, and UTC+9. The occurrence time is reconstructed by subtracting
// the zone offset from the local wall clock. Unrecognized zone
// abbreviations fall back to WIB.
//
// Coordinates are "value + hemisphere letter" text:
//
//	"Lintang": "6.89 LS"   LS = Lintang Selatan (south, negated)
//	"Bujur":   "109.67 BT" BT = Bujur Timur (east, positive)
//
// LU (north) and BT (east) keep the sign; LS (south) and BB (west) negate
// it. Unrecognized letters default to north/east.
//
// Magnitude and depth may carry a space-separated unit suffix ("5.4 SR",
// "10 km") which is stripped before the numeric parse.
//
// # Weather Codes
//
// Forecast entries carry a small-integer condition code from the set
// {0,1,2,3,4,5,10,45,60,95,97}, mapped to bilingual display names
// (e.g. 45 = "Hujan Lebat" / "Heavy Rain"). Unknown codes display as
// "Berawan" / "Mostly Cloudy". Icon URLs derive from the code plus a
// day/night suffix; local hours 06:00–17:59 count as day.
//
// # Nowcast Conventions
//
// RSS item links end in "<code>_alert.xml"; the code (e.g.
// "CBT20260216004") keys the CAP detail document. Item titles name the
// affected province after an " di " separator ("Hujan Lebat ... di
// Banten"). CAP documents may or may not carry the
// urn:oasis:names:tc:emergency:cap:1.2 namespace; both forms appear in
// the wild and both must parse. A warning counts as expired only when its
// expiry timestamp carries zone information, so naive local times never
// produce a false positive.
package domain
