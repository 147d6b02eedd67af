package constants

// AssignmentStatus is the canonical status for rows in parsed_slips.
type AssignmentStatus string

// Stable values (store these exact strings in DB).
const (
	AssignmentMatched AssignmentStatus = "MATCHED" // bound to a resident
	AssignmentPending AssignmentStatus = "PENDING" // needs manual assignment
)

// MatchedBy identifies the matching tier that bound a slip to a resident.
// Payment-code and name matches carry less confidence than apartment-number
// matches, so the tier is persisted for later audit.
type MatchedBy string

const (
	MatchedByApartment   MatchedBy = "apartment_number"
	MatchedByPaymentCode MatchedBy = "payment_code"
	MatchedByFullName    MatchedBy = "full_name"
)

// ExtractionSource records which extraction strategy produced a slip.
type ExtractionSource string

const (
	SourceRegex      ExtractionSource = "REGEX"
	SourceTabular    ExtractionSource = "TABULAR"
	SourceGenerative ExtractionSource = "GENERATIVE"
)
