/*
Package insurers holds the insurer catalog and its operational defaults.

PURPOSE:
  Insurer-dependent rules live here, out of the core engine: grace period
  defaults and name normalization. The engine takes these as plain values
  or injected functions, so the catalog can grow without touching the
  classification rules.

GRACE PERIODS:
  Most insurers give 30 days after the effective start before the first
  receipt is due. Qualitas gives 14. A policy-level override always wins
  over the catalog default.

SEE ALSO:
  - engine/schedule.go: Consumes GracePeriodDays via GracePeriodFunc
  - factory: Normalizes insurer names on capture payloads
*/
package insurers

import "strings"

// Grace period defaults, in days after the effective start.
const (
	DefaultGraceDays  = 30
	QualitasGraceDays = 14
)

// Known insurer display names, used by scenario seeds and capture pickers.
var Known = []string{
	"Qualitas",
	"GNP",
	"AXA",
	"HDI",
	"Chubb",
	"Mapfre",
	"Zurich",
	"Banorte",
}

// GracePeriodDays returns the default grace period for an insurer.
// Matching is case-insensitive on the normalized name; any insurer whose
// name contains "qualitas" gets the shorter Qualitas window.
func GracePeriodDays(insurer string) int {
	if strings.Contains(Normalize(insurer), "qualitas") {
		return QualitasGraceDays
	}
	return DefaultGraceDays
}

// Normalize lowercases and trims an insurer name for comparisons.
// Display layers keep the original casing; only comparisons normalize.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Canonical returns the catalog display name for an insurer when it is
// known, else the trimmed input unchanged.
func Canonical(name string) string {
	norm := Normalize(name)
	for _, known := range Known {
		if Normalize(known) == norm {
			return known
		}
	}
	return strings.TrimSpace(name)
}
