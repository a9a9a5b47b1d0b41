/*
duplicates.go - Portfolio duplicate and conflict detection

PURPOSE:
  Scans a whole policy portfolio for three distinct duplicate/conflict
  patterns. Only pairs where BOTH policies carry a policy number are
  considered; the VIN rules additionally require a VIN on both sides.

PATTERNS:
  ExactDuplicate     same policy number, same insurer, same non-empty VIN
  VINCollision       same non-empty VIN, different policy number
  PolicyVINMismatch  same policy number and insurer, both VINs present
                     but different

SEMANTICS:
  - Pairwise scan over every unordered pair (i<j). O(n^2) by design:
    portfolios here are hundreds of policies, not millions.
  - Symmetric: when pair (A,B) matches a rule, BOTH A and B are flagged.
  - A policy is recorded at most once per rule (seen-set keyed by policy
    id) but may appear under multiple distinct rules.
  - The flagged sets are independent of input order.

EQUALITY:
  Insurer names and VINs are compared case-insensitively after trimming;
  capture sources disagree on casing. Policy numbers compare exactly.
*/
package engine

import "strings"

// =============================================================================
// DUPLICATE REPORT
// =============================================================================

// DuplicateFlag identifies one flagged policy within a duplicate rule.
type DuplicateFlag struct {
	PolicyID     PolicyID
	PolicyNumber string
	VIN          string
}

// DuplicateReport lists the policies flagged by each rule, each policy at
// most once per rule.
type DuplicateReport struct {
	ExactDuplicates     []DuplicateFlag
	VINCollisions       []DuplicateFlag
	PolicyVINMismatches []DuplicateFlag
}

// =============================================================================
// DETECTION
// =============================================================================

// DetectDuplicates scans the portfolio for the three duplicate patterns.
func DetectDuplicates(policies []Policy) DuplicateReport {
	var report DuplicateReport
	exact := make(map[PolicyID]bool)
	collision := make(map[PolicyID]bool)
	mismatch := make(map[PolicyID]bool)

	for i := 0; i < len(policies); i++ {
		for j := i + 1; j < len(policies); j++ {
			a, b := policies[i], policies[j]
			if a.PolicyNumber == "" || b.PolicyNumber == "" {
				continue
			}

			sameNumber := a.PolicyNumber == b.PolicyNumber
			sameInsurer := equalFoldTrim(a.Insurer, b.Insurer)
			bothVIN := strings.TrimSpace(a.VIN) != "" && strings.TrimSpace(b.VIN) != ""
			sameVIN := bothVIN && equalFoldTrim(a.VIN, b.VIN)

			switch {
			case sameNumber && sameInsurer && sameVIN:
				flagPair(&report.ExactDuplicates, exact, a, b)
			case sameVIN && !sameNumber:
				flagPair(&report.VINCollisions, collision, a, b)
			case sameNumber && sameInsurer && bothVIN && !sameVIN:
				flagPair(&report.PolicyVINMismatches, mismatch, a, b)
			}
		}
	}
	return report
}

func flagPair(list *[]DuplicateFlag, seen map[PolicyID]bool, a, b Policy) {
	for _, p := range []Policy{a, b} {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		*list = append(*list, DuplicateFlag{PolicyID: p.ID, PolicyNumber: p.PolicyNumber, VIN: p.VIN})
	}
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
