package insurers_test

import (
	"testing"

	"github.com/warp/policy-engine/insurers"
)

func TestGracePeriodDays(t *testing.T) {
	cases := []struct {
		insurer string
		want    int
	}{
		{"Qualitas", insurers.QualitasGraceDays},
		{"QUALITAS", insurers.QualitasGraceDays},
		{"  Quálitas Seguros  ", insurers.DefaultGraceDays}, // accented form is not matched
		{"Qualitas Seguros", insurers.QualitasGraceDays},
		{"GNP", insurers.DefaultGraceDays},
		{"", insurers.DefaultGraceDays},
	}
	for _, c := range cases {
		if got := insurers.GracePeriodDays(c.insurer); got != c.want {
			t.Errorf("GracePeriodDays(%q) = %d, want %d", c.insurer, got, c.want)
		}
	}
}

func TestCanonical(t *testing.T) {
	if got := insurers.Canonical("  gnp "); got != "GNP" {
		t.Errorf("Canonical(gnp) = %q", got)
	}
	if got := insurers.Canonical("zurich"); got != "Zurich" {
		t.Errorf("Canonical(zurich) = %q", got)
	}
	// Unknown insurers pass through trimmed, casing preserved.
	if got := insurers.Canonical("  Seguros Atlas "); got != "Seguros Atlas" {
		t.Errorf("Canonical(unknown) = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := insurers.Normalize("  HDI Seguros "); got != "hdi seguros" {
		t.Errorf("Normalize = %q", got)
	}
}
