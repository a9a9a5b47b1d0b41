package engine_test

import (
	"testing"

	"github.com/warp/policy-engine/engine"
)

func dupPolicy(id, insurer, number, vin string) engine.Policy {
	return engine.Policy{
		ID:           engine.PolicyID(id),
		Insurer:      insurer,
		PolicyNumber: number,
		VIN:          vin,
	}
}

func flaggedIDs(flags []engine.DuplicateFlag) map[engine.PolicyID]bool {
	ids := make(map[engine.PolicyID]bool, len(flags))
	for _, f := range flags {
		ids[f.PolicyID] = true
	}
	return ids
}

func TestDetectDuplicates_ExactDuplicate(t *testing.T) {
	// GIVEN: two records of the same policy, differing only in casing
	policies := []engine.Policy{
		dupPolicy("a", "Qualitas", "QUA-100", "VIN123"),
		dupPolicy("b", "qualitas ", "QUA-100", "vin123"),
		dupPolicy("c", "GNP", "GNP-200", "VIN999"),
	}

	report := engine.DetectDuplicates(policies)

	// THEN: both sides of the pair are flagged, nothing else
	ids := flaggedIDs(report.ExactDuplicates)
	if len(ids) != 2 || !ids["a"] || !ids["b"] {
		t.Errorf("expected a and b flagged as exact duplicates, got %v", report.ExactDuplicates)
	}
	if len(report.VINCollisions) != 0 || len(report.PolicyVINMismatches) != 0 {
		t.Errorf("unexpected flags in other rules: %+v", report)
	}
}

func TestDetectDuplicates_VINCollision(t *testing.T) {
	// Same vehicle insured under two different policy numbers.
	policies := []engine.Policy{
		dupPolicy("a", "GNP", "GNP-1", "SHARED1"),
		dupPolicy("b", "AXA", "AXA-2", "shared1"),
	}

	report := engine.DetectDuplicates(policies)
	ids := flaggedIDs(report.VINCollisions)
	if len(ids) != 2 || !ids["a"] || !ids["b"] {
		t.Errorf("expected VIN collision on a and b, got %v", report.VINCollisions)
	}
	if len(report.ExactDuplicates) != 0 {
		t.Errorf("exact-duplicate rule must not fire on different numbers: %v", report.ExactDuplicates)
	}
}

func TestDetectDuplicates_PolicyVINMismatch(t *testing.T) {
	// Same policy number and insurer but contradicting VINs.
	policies := []engine.Policy{
		dupPolicy("a", "HDI", "HDI-7", "VINAAA"),
		dupPolicy("b", "HDI", "HDI-7", "VINBBB"),
	}

	report := engine.DetectDuplicates(policies)
	ids := flaggedIDs(report.PolicyVINMismatches)
	if len(ids) != 2 || !ids["a"] || !ids["b"] {
		t.Errorf("expected VIN mismatch on a and b, got %v", report.PolicyVINMismatches)
	}
}

func TestDetectDuplicates_EmptyFieldsNeverFlag(t *testing.T) {
	// Policies without a policy number are skipped entirely; VIN rules
	// additionally require a VIN on both sides. Two same-number records
	// with empty VINs raise nothing.
	policies := []engine.Policy{
		dupPolicy("a", "GNP", "", "VIN123"),
		dupPolicy("b", "GNP", "", "VIN123"),
		dupPolicy("c", "AXA", "AXA-1", ""),
		dupPolicy("d", "AXA", "AXA-1", ""),
	}

	report := engine.DetectDuplicates(policies)
	if len(report.ExactDuplicates)+len(report.VINCollisions)+len(report.PolicyVINMismatches) != 0 {
		t.Errorf("expected no flags, got %+v", report)
	}
}

func TestDetectDuplicates_AtMostOncePerRule(t *testing.T) {
	// GIVEN: three records of the same policy, pairwise all exact
	// duplicates
	policies := []engine.Policy{
		dupPolicy("a", "Zurich", "ZUR-1", "VINZ"),
		dupPolicy("b", "Zurich", "ZUR-1", "VINZ"),
		dupPolicy("c", "Zurich", "ZUR-1", "VINZ"),
	}

	report := engine.DetectDuplicates(policies)

	// THEN: each policy appears once, not once per matching pair
	if len(report.ExactDuplicates) != 3 {
		t.Errorf("expected 3 flags (one per policy), got %d", len(report.ExactDuplicates))
	}
}

func TestDetectDuplicates_OrderIndependent(t *testing.T) {
	forward := []engine.Policy{
		dupPolicy("a", "GNP", "GNP-1", "SHARED"),
		dupPolicy("b", "AXA", "AXA-2", "SHARED"),
		dupPolicy("c", "HDI", "HDI-3", "OTHER"),
	}
	reversed := []engine.Policy{forward[2], forward[1], forward[0]}

	f := flaggedIDs(engine.DetectDuplicates(forward).VINCollisions)
	r := flaggedIDs(engine.DetectDuplicates(reversed).VINCollisions)
	if len(f) != len(r) {
		t.Fatalf("flag counts differ: %d vs %d", len(f), len(r))
	}
	for id := range f {
		if !r[id] {
			t.Errorf("policy %s flagged in one order but not the other", id)
		}
	}
}

func TestDetectDuplicates_MultipleRulesOnePolicy(t *testing.T) {
	// One record can trip different rules against different counterparts:
	// an exact duplicate of b, and a VIN collision with c.
	policies := []engine.Policy{
		dupPolicy("a", "GNP", "GNP-1", "SHARED"),
		dupPolicy("b", "GNP", "GNP-1", "SHARED"),
		dupPolicy("c", "AXA", "AXA-9", "SHARED"),
	}

	report := engine.DetectDuplicates(policies)
	exact := flaggedIDs(report.ExactDuplicates)
	collision := flaggedIDs(report.VINCollisions)
	if !exact["a"] || !exact["b"] {
		t.Errorf("expected exact duplicates a, b: %v", report.ExactDuplicates)
	}
	if !collision["a"] || !collision["b"] || !collision["c"] {
		t.Errorf("expected VIN collisions a, b, c: %v", report.VINCollisions)
	}
}
