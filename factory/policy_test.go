package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/policy-engine/engine"
	"github.com/warp/policy-engine/factory"
)

func TestParsePolicy_CanonicalPayload(t *testing.T) {
	f := factory.NewPolicyFactory()

	p, receipts, err := f.ParsePolicy(`{
		"id": "pol-001",
		"insurer": "Qualitas",
		"product": "Amplia",
		"policy_number": "POL-100",
		"vin": "3VWSE69M123456789",
		"payment_type": "fractional",
		"frequency": "monthly",
		"effective_start": "2024-01-01",
		"effective_end": "2025-01-01",
		"total_premium": "1200.00",
		"stage": "issued"
	}`)
	require.NoError(t, err)

	assert.Equal(t, engine.PolicyID("pol-001"), p.ID)
	assert.Equal(t, "Qualitas", p.Insurer)
	assert.Equal(t, engine.PaymentFractional, p.PaymentType)
	assert.Equal(t, engine.FreqMonthly, p.Frequency)
	assert.Equal(t, "2024-01-01", p.EffectiveStart.String())
	assert.True(t, p.TotalPremium.Equal(engine.MustParseDecimal("1200.00")))
	assert.Empty(t, receipts)
}

func TestParsePolicy_SpanishAliases(t *testing.T) {
	// The Spanish capture form uses entirely different field names; the
	// factory resolves them to the same canonical shape.
	f := factory.NewPolicyFactory()

	p, receipts, err := f.ParsePolicy(`{
		"id": "pol-002",
		"aseguradora": "gnp",
		"poliza": " GNP-200 ",
		"serie": "VIN200",
		"tipo_pago": "fraccionado",
		"frecuencia": "trimestral",
		"inicio_vigencia": "2024-03-01",
		"prima_total": "$8,400.00",
		"stage": "emitida",
		"receipts": [
			{"recibo": 1, "vencimiento": "2024-03-31", "importe": "2,100.00", "fecha_pago": "2024-03-20"}
		]
	}`)
	require.NoError(t, err)

	assert.Equal(t, "GNP", p.Insurer, "insurer resolves to catalog casing")
	assert.Equal(t, "GNP-200", p.PolicyNumber, "policy number is trimmed")
	assert.Equal(t, engine.FreqQuarterly, p.Frequency)
	assert.Equal(t, engine.StageIssued, p.Stage)
	assert.True(t, p.TotalPremium.Equal(engine.MustParseDecimal("8400.00")), "currency formatting stripped")

	require.Len(t, receipts, 1)
	assert.Equal(t, 1, receipts[0].Number)
	assert.Equal(t, "2024-03-31", receipts[0].DueDate.String())
	assert.True(t, receipts[0].Amount.Equal(engine.MustParseDecimal("2100.00")))
	assert.True(t, receipts[0].Paid())
}

func TestParsePolicy_EffectiveEndDefaults(t *testing.T) {
	f := factory.NewPolicyFactory()

	p, _, err := f.ParsePolicy(`{
		"id": "pol-003",
		"insurer": "AXA",
		"payment_type": "annual",
		"effective_start": "2024-05-15",
		"total_premium": "9000.00"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-15", p.EffectiveEnd.String(), "end defaults to start plus one year")
}

func TestParsePolicy_AnnualDropsFrequency(t *testing.T) {
	f := factory.NewPolicyFactory()

	p, _, err := f.ParsePolicy(`{
		"id": "pol-004",
		"insurer": "HDI",
		"payment_type": "anual",
		"frequency": "monthly",
		"effective_start": "2024-01-01",
		"total_premium": "5000.00"
	}`)
	require.NoError(t, err)
	assert.Equal(t, engine.PaymentAnnual, p.PaymentType)
	assert.Empty(t, string(p.Frequency), "frequency is meaningless on annual policies")
}

func TestParsePolicy_ValidationErrors(t *testing.T) {
	f := factory.NewPolicyFactory()

	t.Run("fractional without frequency", func(t *testing.T) {
		_, _, err := f.ParsePolicy(`{
			"id": "pol-005",
			"insurer": "GNP",
			"payment_type": "fractional",
			"effective_start": "2024-01-01",
			"total_premium": "1200.00"
		}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrInvalidConfiguration)
	})

	t.Run("missing start without receipts", func(t *testing.T) {
		_, _, err := f.ParsePolicy(`{
			"id": "pol-006",
			"insurer": "GNP",
			"payment_type": "fractional",
			"frequency": "monthly",
			"total_premium": "1200.00"
		}`)
		require.Error(t, err)
		assert.ErrorIs(t, err, engine.ErrMissingRequiredDate)
	})

	t.Run("missing start with receipts is acceptable", func(t *testing.T) {
		// Persisted receipts are authoritative; the generation path is
		// never consulted, so the missing date does not block capture.
		p, receipts, err := f.ParsePolicy(`{
			"id": "pol-007",
			"insurer": "GNP",
			"payment_type": "fractional",
			"frequency": "monthly",
			"total_premium": "1200.00",
			"receipts": [{"number": 1, "due_date": "2024-02-01", "amount": "100.00"}]
		}`)
		require.NoError(t, err)
		assert.Equal(t, engine.PolicyID("pol-007"), p.ID)
		assert.Len(t, receipts, 1)
	})

	t.Run("missing id", func(t *testing.T) {
		_, _, err := f.ParsePolicy(`{"insurer": "GNP"}`)
		require.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, _, err := f.ParsePolicy(`{not json`)
		require.Error(t, err)
	})
}

func TestParsePolicy_MalformedDatesDegradeToZero(t *testing.T) {
	f := factory.NewPolicyFactory()

	p, receipts, err := f.ParsePolicy(`{
		"id": "pol-008",
		"insurer": "Zurich",
		"payment_type": "annual",
		"effective_start": "2024-01-01",
		"total_premium": "3000.00",
		"receipts": [{"number": 1, "due_date": "2024-01-31", "amount": "3000.00", "paid_date": "31/01/2024"}]
	}`)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.True(t, receipts[0].PaidDate.IsZero(), "unparseable paid date is the zero sentinel")
	assert.False(t, receipts[0].Paid())
	assert.False(t, p.EffectiveStart.IsZero())
}
