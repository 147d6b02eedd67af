package entity

import "github.com/google/uuid"

// Resident is one row of the resident roster consumed by the matcher.
type Resident struct {
	ID              uuid.UUID `json:"id"`
	ApartmentNumber string    `json:"apartment_number"`
	PaymentCode     string    `json:"payment_code"`
	FullName        string    `json:"full_name"`
	LinkedProfileID *uuid.UUID `json:"linked_profile_id,omitempty"`
}

// Vendor is one row of the vendor reference list.
type Vendor struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyCode *string   `json:"company_code,omitempty"`
	VATCode     *string   `json:"vat_code,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// CostCategory is one row of the cost-category reference list.
type CostCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
}
