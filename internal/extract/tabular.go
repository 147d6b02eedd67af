package extract

import (
	"strings"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// headerScanLimit bounds how deep into a sheet the header row is searched.
const headerScanLimit = 10

// headerVocab maps header-cell substrings to logical columns. Checked in
// order, so the more specific tokens come first.
var headerVocab = []struct {
	token string
	field string
}{
	{"sąskait", "invoice"},
	{"saskait", "invoice"},
	{"invoice", "invoice"},
	{"mokėtina", "amount"},
	{"moketina", "amount"},
	{"suma", "amount"},
	{"amount", "amount"},
	{"payable", "amount"},
	{"butas", "apartment"},
	{"buto", "apartment"},
	{"apartment", "apartment"},
	{"adres", "address"},
	{"pirkėjas", "buyer"},
	{"pirkejas", "buyer"},
	{"vardas", "buyer"},
	{"buyer", "buyer"},
	{"name", "buyer"},
	{"terminas", "due"},
	{"iki", "due"},
	{"due", "due"},
	{"deadline", "due"},
	{"data", "date"},
	{"date", "date"},
	{"kodas", "code"},
	{"code", "code"},
	{"nr", "invoice"},
}

// ExtractFromRows reads spreadsheet-like rows with no fixed column order.
// The first row within the scan limit carrying at least one vocabulary hit
// becomes the header; all later rows are read positionally through the
// resulting column map. Rows lacking both an apartment number and a buyer
// name are not data rows (totals, footers) and are skipped. Missing mapped
// columns degrade to empty/zero.
func ExtractFromRows(rows [][]string) []*entity.ParsedSlip {
	headerIdx, columns := locateHeader(rows)
	if columns == nil {
		return nil
	}

	cell := func(row []string, field string) string {
		idx, ok := columns[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var slips []*entity.ParsedSlip
	for _, row := range rows[headerIdx+1:] {
		apartment := cell(row, "apartment")
		buyer := cell(row, "buyer")
		if apartment == "" && buyer == "" {
			continue
		}

		slip := &entity.ParsedSlip{
			InvoiceNumber:   cell(row, "invoice"),
			BuyerName:       buyer,
			Address:         cell(row, "address"),
			ApartmentNumber: NormalizeApartment(apartment),
		}
		if code := cell(row, "code"); code != "" {
			slip.PaymentCode = &code
		}
		if t, ok := parseCellDate(cell(row, "date")); ok {
			slip.InvoiceDate = &t
			slip.PeriodMonth = t.Format("2006-01")
		}
		if t, ok := parseCellDate(cell(row, "due")); ok {
			slip.DueDate = &t
		}

		amountToken := cell(row, "amount")
		d, ok := ParseAmount(amountToken)
		if !ok {
			slip.MarkDegraded("total_due", "unparseable: "+amountToken)
		}
		slip.TotalDue = d

		slips = append(slips, slip)
	}
	return slips
}

// locateHeader scans the leading rows for header-like tokens and builds the
// column-name → positional-index map from the first row with a hit.
func locateHeader(rows [][]string) (int, map[string]int) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for i := 0; i < limit; i++ {
		columns := make(map[string]int)
		for col, raw := range rows[i] {
			label := strings.ToLower(strings.TrimSpace(raw))
			if label == "" {
				continue
			}
			for _, v := range headerVocab {
				if strings.Contains(label, v.token) {
					if _, taken := columns[v.field]; !taken {
						columns[v.field] = col
					}
					break
				}
			}
		}
		if len(columns) > 0 {
			return i, columns
		}
	}
	return 0, nil
}
