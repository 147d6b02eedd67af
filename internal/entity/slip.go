package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkazlauskas/bendrija-ingest/constants"
)

// LineItem is one charge row on a resident's statement.
type LineItem struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Unit     string          `json:"unit"`
	Quantity decimal.Decimal `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// MeterReadings holds the optional utility-meter block of a statement.
// Any of the readings may be absent without affecting the rest of the slip.
type MeterReadings struct {
	HotWater         *decimal.Decimal `json:"hot_water,omitempty"`
	ColdWaterMeterID *string          `json:"cold_water_meter_id,omitempty"`
	ElectricityDay   *decimal.Decimal `json:"electricity_day,omitempty"`
	ElectricityNight *decimal.Decimal `json:"electricity_night,omitempty"`
}

// FieldQuality marks a field whose value was degraded during extraction
// (typically an unparseable numeric token defaulted to zero). The slip is
// still persisted; the marker keeps "is zero" and "could not parse"
// distinguishable afterwards.
type FieldQuality struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ParsedSlip is one resident's billing statement for one period.
type ParsedSlip struct {
	ID               uuid.UUID                  `json:"id"`
	BatchID          uuid.UUID                  `json:"batch_id"`
	InvoiceNumber    string                     `json:"invoice_number"`
	InvoiceDate      *time.Time                 `json:"invoice_date,omitempty"`
	DueDate          *time.Time                 `json:"due_date,omitempty"`
	PeriodMonth      string                     `json:"period_month"` // YYYY-MM
	BuyerName        string                     `json:"buyer_name"`
	Address          string                     `json:"address"`
	ApartmentNumber  string                     `json:"apartment_number"` // zero-padded two digits
	PaymentCode      *string                    `json:"payment_code,omitempty"`
	PreviousAmount   decimal.Decimal            `json:"previous_amount"`
	PaymentsReceived decimal.Decimal            `json:"payments_received"`
	Balance          decimal.Decimal            `json:"balance"` // positive = debt, negative = credit
	AccruedAmount    decimal.Decimal            `json:"accrued_amount"`
	TotalDue         decimal.Decimal            `json:"total_due"`
	LineItems        []LineItem                 `json:"line_items,omitempty"`
	Meters           *MeterReadings             `json:"meters,omitempty"`
	Source           constants.ExtractionSource `json:"source"`
	FieldQuality     []FieldQuality             `json:"field_quality,omitempty"`
	BalanceConsistent bool                      `json:"balance_consistent"`

	ResidentID       *uuid.UUID                 `json:"resident_id,omitempty"`
	AssignmentStatus constants.AssignmentStatus `json:"assignment_status"`
	MatchedBy        constants.MatchedBy        `json:"matched_by,omitempty"`
}

// MarkDegraded appends a field-quality marker for a lenient parse failure.
func (s *ParsedSlip) MarkDegraded(field, reason string) {
	s.FieldQuality = append(s.FieldQuality, FieldQuality{Field: field, Reason: reason})
}
