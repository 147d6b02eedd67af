package extract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dkazlauskas/bendrija-ingest/internal/entity"
)

// Field patterns for the Lithuanian utility statement layout. Every field
// has its own independent rule; a field that fails to match degrades to its
// zero value and is recorded on the slip's quality list.
var (
	reSeriesNumber = regexp.MustCompile(`(?i)serija\s*:?\s*([\p{Lu}]{1,6})\s*Nr\.?\s*:?\s*(\d+)`)
	reAddress      = regexp.MustCompile(`(?i)obj\.?\s*adresas\s*:?[ \t]*\n?[ \t]*([^\n]+)`)
	reApartment    = regexp.MustCompile(`(\d+)\s*-\s*(\d{1,3})(?:\b|$)`)
	rePaymentCode  = regexp.MustCompile(`(?i)mokėtojo\s+kod[^\d\n]{0,12}(\d+)`)
	reBuyer        = regexp.MustCompile(`(?i)(?:pirkėjas|mokėtojas)\s*:?[ \t]*([^\n]+)`)
	reInvoiceDate  = regexp.MustCompile(`(?i)s[ąa]skaitos\s+data\s*:?[ \t]*([^\n]+)`)
	reDueDate      = regexp.MustCompile(`(?i)(?:apmokėti|sumokėti)\s+iki\s*:?[ \t]*([^\n]+)`)
	rePeriod       = regexp.MustCompile(`(?i)laikotarpis\s*:?[ \t]*(\d{4})[-./ ]*(\d{1,2})`)

	reTotalDue = regexp.MustCompile(`(?i)mokėtina\s+suma[^\d\-\n]*(-?\d[\d\s.,]*)`)
	rePrevious = regexp.MustCompile(`(?i)likutis\s+laikotarpio\s+pradžioje[^\d\-\n]*(-?\d[\d\s.,]*)|(?i)ankstesnis\s+likutis[^\d\-\n]*(-?\d[\d\s.,]*)`)
	rePayments = regexp.MustCompile(`(?i)(?:gauta\s+įmokų|sumokėta)[^\d\-\n]*(-?\d[\d\s.,]*)`)
	reAccrued  = regexp.MustCompile(`(?i)priskaičiuota[^\d\-\n]*(-?\d[\d\s.,]*)`)
	reDebt     = regexp.MustCompile(`(?i)(?:įsiskolinimas|skola)[^\d\-\n]*(-?\d[\d\s.,]*)`)
	reCredit   = regexp.MustCompile(`(?i)permoka[^\d\-\n]*(-?\d[\d\s.,]*)`)

	reHotWater    = regexp.MustCompile(`(?i)karšt(?:as|o)\s+vand[^\d\n]*(\d[\d\s.,]*)`)
	reColdMeterID = regexp.MustCompile(`(?i)šalto\s+vandens\s+skaitikl[^\n]*?Nr\.?\s*:?\s*([\w-]+)`)
	reElectricDay = regexp.MustCompile(`(?i)dienin[ėe][^\d\n]*(\d[\d\s.,]*)`)
	reElectricNgt = regexp.MustCompile(`(?i)naktin[ėe][^\d\n]*(\d[\d\s.,]*)`)

	reItemCells  = regexp.MustCompile(`\t|\s{2,}`)
	reItemsStart = regexp.MustCompile(`(?i)^\s*(?:kodas\s+)?(?:pavadinimas|paslauga)`)
	reItemsEnd   = regexp.MustCompile(`(?i)^\s*(?:iš\s+viso|viso|mokėtina)`)
)

// NormalizeApartment zero-pads a bare apartment number to two digits so
// "7" and "07" compare equal everywhere downstream.
func NormalizeApartment(n string) string {
	n = strings.TrimSpace(n)
	if len(n) == 1 {
		return "0" + n
	}
	return n
}

// ParseStatementChunk applies the field grammar to one segmented chunk.
// It returns nil when the mandatory fields (invoice number, apartment
// number) cannot be located: such a chunk is not a statement and is simply
// not emitted, it never errors the batch.
func ParseStatementChunk(chunk string) *entity.ParsedSlip {
	slip := &entity.ParsedSlip{}

	if m := reSeriesNumber.FindStringSubmatch(chunk); m != nil {
		slip.InvoiceNumber = strings.ToUpper(m[1]) + "-" + m[2]
	}
	if m := reAddress.FindStringSubmatch(chunk); m != nil {
		slip.Address = strings.TrimSpace(m[1])
		if am := reApartment.FindAllStringSubmatch(slip.Address, -1); am != nil {
			last := am[len(am)-1]
			slip.ApartmentNumber = NormalizeApartment(last[2])
		}
	}
	if slip.InvoiceNumber == "" || slip.ApartmentNumber == "" {
		return nil
	}

	if m := rePaymentCode.FindStringSubmatch(chunk); m != nil {
		code := m[1]
		slip.PaymentCode = &code
	}
	if m := reBuyer.FindStringSubmatch(chunk); m != nil {
		slip.BuyerName = strings.TrimSpace(m[1])
	}
	if m := reInvoiceDate.FindStringSubmatch(chunk); m != nil {
		if t, ok := parseDateToken(m[1]); ok {
			slip.InvoiceDate = &t
		}
	}
	if m := reDueDate.FindStringSubmatch(chunk); m != nil {
		if t, ok := parseDateToken(m[1]); ok {
			slip.DueDate = &t
		}
	}
	if m := rePeriod.FindStringSubmatch(chunk); m != nil {
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		slip.PeriodMonth = m[1] + "-" + month
	} else if slip.InvoiceDate != nil {
		slip.PeriodMonth = slip.InvoiceDate.Format("2006-01")
	}

	slip.TotalDue = amountField(slip, reTotalDue, chunk, "total_due")
	slip.PreviousAmount = amountField(slip, rePrevious, chunk, "previous_amount")
	slip.PaymentsReceived = amountField(slip, rePayments, chunk, "payments_received")
	slip.AccruedAmount = amountField(slip, reAccrued, chunk, "accrued_amount")
	slip.Balance = signedBalance(chunk, slip)

	slip.LineItems = parseLineItems(chunk)
	slip.Meters = parseMeters(chunk)

	// totalDue ≈ previous - payments + accrued; inconsistent slips are still
	// persisted but carry the flag for audit.
	expected := slip.PreviousAmount.Sub(slip.PaymentsReceived).Add(slip.AccruedAmount)
	slip.BalanceConsistent = expected.Sub(slip.TotalDue).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))

	return slip
}

// amountField routes a matched token through the lenient numeric parser and
// records a quality marker when the token is missing or unparseable.
func amountField(slip *entity.ParsedSlip, re *regexp.Regexp, chunk, field string) decimal.Decimal {
	m := re.FindStringSubmatch(chunk)
	if m == nil {
		slip.MarkDegraded(field, "not found")
		return decimal.Zero
	}
	token := firstGroup(m)
	d, ok := ParseAmount(token)
	if !ok {
		slip.MarkDegraded(field, "unparseable: "+strings.TrimSpace(token))
	}
	return d
}

// firstGroup returns the first non-empty capture group (patterns with
// alternates produce several).
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}

// signedBalance prefers an explicit debt/credit line; a credit line flips
// the sign. Absent both, the balance is computed from the flow fields.
func signedBalance(chunk string, slip *entity.ParsedSlip) decimal.Decimal {
	if m := reDebt.FindStringSubmatch(chunk); m != nil {
		if d, ok := ParseAmount(firstGroup(m)); ok {
			return d
		}
	}
	if m := reCredit.FindStringSubmatch(chunk); m != nil {
		if d, ok := ParseAmount(firstGroup(m)); ok {
			return d.Neg()
		}
	}
	return slip.PreviousAmount.Sub(slip.PaymentsReceived)
}

// parseLineItems extracts the tabular sub-region between the item header and
// the totals line. Rows with fewer than five cells are skipped.
func parseLineItems(chunk string) []entity.LineItem {
	lines := strings.Split(chunk, "\n")
	start := -1
	for i, line := range lines {
		if reItemsStart.MatchString(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}

	var items []entity.LineItem
	for _, line := range lines[start:] {
		if reItemsEnd.MatchString(line) {
			break
		}
		cells := splitCells(line)
		if len(cells) < 5 {
			continue
		}
		n := len(cells)
		amount, _ := ParseAmount(cells[n-1])
		rate, _ := ParseAmount(cells[n-2])
		qty, _ := ParseAmount(cells[n-3])
		items = append(items, entity.LineItem{
			Code:     cells[0],
			Name:     strings.Join(cells[1:n-4], " "),
			Unit:     cells[n-4],
			Quantity: qty,
			Rate:     rate,
			Amount:   amount,
		})
	}
	return items
}

func splitCells(line string) []string {
	var cells []string
	for _, c := range reItemCells.Split(strings.TrimSpace(line), -1) {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return cells
}

// parseMeters extracts the optional utility-readings block. Absence of any
// reading leaves the rest of the slip untouched.
func parseMeters(chunk string) *entity.MeterReadings {
	var meters entity.MeterReadings
	found := false

	if m := reHotWater.FindStringSubmatch(chunk); m != nil {
		if d, ok := ParseAmount(m[1]); ok {
			meters.HotWater = &d
			found = true
		}
	}
	if m := reColdMeterID.FindStringSubmatch(chunk); m != nil {
		id := m[1]
		meters.ColdWaterMeterID = &id
		found = true
	}
	if m := reElectricDay.FindStringSubmatch(chunk); m != nil {
		if d, ok := ParseAmount(m[1]); ok {
			meters.ElectricityDay = &d
			found = true
		}
	}
	if m := reElectricNgt.FindStringSubmatch(chunk); m != nil {
		if d, ok := ParseAmount(m[1]); ok {
			meters.ElectricityNight = &d
			found = true
		}
	}
	if !found {
		return nil
	}
	return &meters
}
