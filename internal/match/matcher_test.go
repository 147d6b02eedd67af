package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

func resident(apartment, code, name string) *entity.Resident {
	return &entity.Resident{
		ID:              uuid.New(),
		ApartmentNumber: apartment,
		PaymentCode:     code,
		FullName:        name,
	}
}

func slipWith(apartment, code, buyer string) *entity.ParsedSlip {
	s := &entity.ParsedSlip{
		InvoiceNumber:   "SF-1",
		ApartmentNumber: apartment,
		BuyerName:       buyer,
	}
	if code != "" {
		s.PaymentCode = &code
	}
	return s
}

func TestBindApartmentTierWinsDespiteDifferentPaymentCode(t *testing.T) {
	target := resident("7", "11111", "Kitas Žmogus")
	roster := []*entity.Resident{
		resident("5", "22222", "Petras Petraitis"),
		target,
	}

	slip := slipWith("07", "98765", "Jonas Jonaitis")
	NewMatcher(nil).Bind(slip, roster)

	require.NotNil(t, slip.ResidentID)
	assert.Equal(t, target.ID, *slip.ResidentID)
	assert.Equal(t, constants.MatchedByApartment, slip.MatchedBy)
	assert.Equal(t, constants.AssignmentMatched, slip.AssignmentStatus)
}

func TestBindLeadingZeroInsensitiveBothWays(t *testing.T) {
	m := NewMatcher(nil)

	t.Run("slip 01 vs roster 1", func(t *testing.T) {
		r := resident("1", "", "")
		slip := slipWith("01", "", "")
		m.Bind(slip, []*entity.Resident{r})
		require.NotNil(t, slip.ResidentID)
		assert.Equal(t, r.ID, *slip.ResidentID)
	})
	t.Run("slip 1 vs roster 01", func(t *testing.T) {
		r := resident("01", "", "")
		slip := slipWith("1", "", "")
		m.Bind(slip, []*entity.Resident{r})
		require.NotNil(t, slip.ResidentID)
		assert.Equal(t, r.ID, *slip.ResidentID)
	})
}

func TestBindPaymentCodeTier(t *testing.T) {
	target := resident("12", "55501", "Ona Onaitė")
	slip := slipWith("99", "55501", "")
	NewMatcher(nil).Bind(slip, []*entity.Resident{target})

	require.NotNil(t, slip.ResidentID)
	assert.Equal(t, constants.MatchedByPaymentCode, slip.MatchedBy)
}

func TestBindFullNameTier(t *testing.T) {
	target := resident("12", "55501", "Ona Onaitė")
	slip := slipWith("99", "00000", "  ona   ONAITĖ ")
	NewMatcher(nil).Bind(slip, []*entity.Resident{target})

	require.NotNil(t, slip.ResidentID)
	assert.Equal(t, constants.MatchedByFullName, slip.MatchedBy)
}

func TestBindNoMatchLeavesPending(t *testing.T) {
	slip := slipWith("99", "00000", "Niekas Nežinomas")
	NewMatcher(nil).Bind(slip, []*entity.Resident{resident("1", "11111", "Jonas Jonaitis")})

	assert.Nil(t, slip.ResidentID)
	assert.Equal(t, constants.AssignmentPending, slip.AssignmentStatus)
	assert.Empty(t, string(slip.MatchedBy))
}

func TestBindEmptyCodesNeverMatchEmptyRosterFields(t *testing.T) {
	// a slip without a payment code must not bind to a resident whose
	// payment_code column is empty
	slip := slipWith("99", "", "")
	NewMatcher(nil).Bind(slip, []*entity.Resident{resident("1", "", "")})
	assert.Nil(t, slip.ResidentID)
}
