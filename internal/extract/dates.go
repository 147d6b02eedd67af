package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Lithuanian genitive month names as they appear on utility statements.
var lithuanianMonths = map[string]time.Month{
	"sausio":     time.January,
	"vasario":    time.February,
	"kovo":       time.March,
	"balandžio":  time.April,
	"balandzio":  time.April,
	"gegužės":    time.May,
	"geguzes":    time.May,
	"birželio":   time.June,
	"birzelio":   time.June,
	"liepos":     time.July,
	"rugpjūčio":  time.August,
	"rugpjucio":  time.August,
	"rugsėjo":    time.September,
	"rugsejo":    time.September,
	"spalio":     time.October,
	"lapkričio":  time.November,
	"lapkricio":  time.November,
	"gruodžio":   time.December,
	"gruodzio":   time.December,
}

var (
	reWordedDate  = regexp.MustCompile(`(\d{4})\s*m\.?\s*([\p{L}]+)\s*(?:mėn\.?\s*)?(\d{1,2})\s*d`)
	reNumericDate = regexp.MustCompile(`(\d{4})[-./](\d{1,2})[-./](\d{1,2})`)
)

// parseDateToken resolves a date from a text fragment. Both the worded
// Lithuanian form ("2024 m. sausio 15 d.") and numeric forms (2024-01-15,
// 2024.01.15) are accepted.
func parseDateToken(fragment string) (time.Time, bool) {
	if m := reWordedDate.FindStringSubmatch(fragment); m != nil {
		year, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[3])
		if month, ok := lithuanianMonths[strings.ToLower(m[2])]; ok && day >= 1 && day <= 31 {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := reNumericDate.FindStringSubmatch(fragment); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseCellDate tries the date layouts seen in spreadsheet exports.
func parseCellDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02", "2006.01.02", "02/01/2006", "2006/01/02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return parseDateToken(s)
}
