// Package prefilter holds the deterministic consultancy detector that runs
// before any oracle call. Its verdict is authoritative: the aggregator can
// never override a positive detection.
package prefilter

import "strings"

// Detection describes the first matching consultancy indicator.
type Detection struct {
	// Pattern is the phrase found in the description, as listed in the table.
	Pattern string
	// Reason is a short English gloss of what the phrase implies.
	Reason string
}

type patternEntry struct {
	pattern string
	reason  string
}

// Table order is the tie-break: the first matching entry wins. Phrases cover
// working at a client site, being deployed/placed at a client, and explicit
// staffing/secondment terminology, in Dutch and English.
var consultancyPatterns = []patternEntry{
	{"bij onze klanten", "works at our clients"},
	{"bij klanten", "works at clients"},
	{"op locatie bij klanten", "on-site at clients"},
	{"bij de klant", "at the client"},
	{"op klantlocatie", "at client location"},
	{"wordt ingezet bij", "deployed at"},
	{"at our clients", "at our clients"},
	{"at client sites", "at client sites"},
	{"at client premises", "at client premises"},
	{"detachering", "secondment/staffing"},
	{"uitzenden", "temp staffing"},
	{"inhuur", "contractor placement"},
}

// Detect scans the description for consultancy indicators. The search is
// case-insensitive and returns on the first hit. An empty description never
// matches.
func Detect(description string) (Detection, bool) {
	if description == "" {
		return Detection{}, false
	}

	lowered := strings.ToLower(description)
	for _, entry := range consultancyPatterns {
		if strings.Contains(lowered, entry.pattern) {
			return Detection{Pattern: entry.pattern, Reason: entry.reason}, true
		}
	}

	return Detection{}, false
}
