// Package match binds parsed slips to known residents.
package match

import (
	"log/slog"
	"strings"

	"github.com/dkazlauskas/bendrija-ingest/constants"
	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// Matcher runs the tiered deterministic matching algorithm against a
// resident roster loaded once per ingestion call.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Bind resolves the resident for one slip and stamps assignment status and
// the matched_by provenance on it. Tier order is significant; the first hit
// wins:
//  1. apartment number, insensitive to leading zeros
//  2. payment code
//  3. full name, case-insensitive and whitespace-trimmed
//
// No hit leaves the slip pending with a nil resident reference.
func (m *Matcher) Bind(slip *entity.ParsedSlip, roster []*entity.Resident) {
	if r := m.byApartment(slip, roster); r != nil {
		m.assign(slip, r, constants.MatchedByApartment)
		return
	}
	if r := m.byPaymentCode(slip, roster); r != nil {
		m.assign(slip, r, constants.MatchedByPaymentCode)
		return
	}
	if r := m.byFullName(slip, roster); r != nil {
		m.assign(slip, r, constants.MatchedByFullName)
		return
	}
	slip.ResidentID = nil
	slip.AssignmentStatus = constants.AssignmentPending
	m.logger.Info("match.pending",
		"invoice", slip.InvoiceNumber,
		"apartment", slip.ApartmentNumber,
	)
}

func (m *Matcher) assign(slip *entity.ParsedSlip, r *entity.Resident, tier constants.MatchedBy) {
	id := r.ID
	slip.ResidentID = &id
	slip.AssignmentStatus = constants.AssignmentMatched
	slip.MatchedBy = tier
	m.logger.Info("match.bound",
		"invoice", slip.InvoiceNumber,
		"resident_id", r.ID,
		"matched_by", string(tier),
	)
}

func (m *Matcher) byApartment(slip *entity.ParsedSlip, roster []*entity.Resident) *entity.Resident {
	want := canonicalApartment(slip.ApartmentNumber)
	if want == "" {
		return nil
	}
	for _, r := range roster {
		if canonicalApartment(r.ApartmentNumber) == want {
			return r
		}
	}
	return nil
}

func (m *Matcher) byPaymentCode(slip *entity.ParsedSlip, roster []*entity.Resident) *entity.Resident {
	if slip.PaymentCode == nil {
		return nil
	}
	code := strings.TrimSpace(*slip.PaymentCode)
	if code == "" {
		return nil
	}
	for _, r := range roster {
		if r.PaymentCode != "" && r.PaymentCode == code {
			return r
		}
	}
	return nil
}

func (m *Matcher) byFullName(slip *entity.ParsedSlip, roster []*entity.Resident) *entity.Resident {
	name := canonicalName(slip.BuyerName)
	if name == "" {
		return nil
	}
	for _, r := range roster {
		if canonicalName(r.FullName) == name {
			return r
		}
	}
	return nil
}

// canonicalApartment strips leading zeros so "01" and "1" compare equal.
func canonicalApartment(n string) string {
	n = strings.TrimSpace(n)
	trimmed := strings.TrimLeft(n, "0")
	if trimmed == "" && n != "" {
		return "0"
	}
	return trimmed
}

func canonicalName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
