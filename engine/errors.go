/*
errors.go - Centralized error types for the engine boundary

PURPOSE:
  All engine error types in one place. The engine's compute functions never
  return errors: malformed input degrades to a neutral result (empty
  schedule, Unknown status, zero totals) so the surrounding UI can always
  render. These sentinels exist for the BOUNDARY layers - the factory and
  API validate incoming records and report which rule a payload broke.

ERROR CATEGORIES:
  1. Configuration errors - payment type/frequency combinations that can
     never produce a schedule
  2. Missing data errors - records lacking required dates
  3. Receipt-set errors - persisted receipt sets outside their 1..N range

USAGE:
  if err := engine.Schedulable(policy); err != nil {
      if errors.Is(err, engine.ErrInvalidConfiguration) { ... }
  }

SEE ALSO:
  - schedule.go: Degrades silently where these would apply
  - factory/policy.go: Reports these to capture flows
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfiguration is reported for payment type/frequency
	// combinations with no receipt count: the policy is not schedulable.
	// Callers treat this as "no payment UI", not as a fatal error.
	ErrInvalidConfiguration = errors.New("invalid payment configuration")

	// ErrMissingRequiredDate is reported when a policy has no effective
	// start date; schedule generation cannot proceed.
	ErrMissingRequiredDate = errors.New("missing required date")

	// ErrMalformedReceiptSet is reported when persisted receipt numbers fall
	// outside 1..N or are duplicated. The generator truncates/filters such
	// sets defensively instead of failing the whole computation.
	ErrMalformedReceiptSet = errors.New("malformed receipt set")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError details why a policy cannot produce a schedule.
type ConfigurationError struct {
	PolicyID    PolicyID
	PaymentType PaymentType
	Frequency   Frequency
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("policy %s: no schedule for payment type %q with frequency %q",
		e.PolicyID, e.PaymentType, e.Frequency)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// ReceiptSetError details a persisted receipt set that violates its range.
type ReceiptSetError struct {
	PolicyID PolicyID
	Number   int // offending receipt number
	Expected int // schedule length N
}

func (e *ReceiptSetError) Error() string {
	return fmt.Sprintf("policy %s: receipt number %d outside 1..%d",
		e.PolicyID, e.Number, e.Expected)
}

func (e *ReceiptSetError) Unwrap() error { return ErrMalformedReceiptSet }

// =============================================================================
// BOUNDARY VALIDATION
// =============================================================================

// Schedulable reports whether a schedule can be generated for the policy.
// The generator itself never returns these; it just produces an empty
// schedule. Boundary layers call this to explain the empty result.
func Schedulable(p Policy) error {
	if ReceiptCount(p) == 0 {
		return &ConfigurationError{PolicyID: p.ID, PaymentType: p.PaymentType, Frequency: p.Frequency}
	}
	if p.EffectiveStart.IsZero() {
		return fmt.Errorf("policy %s: %w: no effective start", p.ID, ErrMissingRequiredDate)
	}
	return nil
}
