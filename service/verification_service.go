package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/sadapurne/producer-verification/dto"
	"github.com/sadapurne/producer-verification/repository"
	"github.com/sadapurne/producer-verification/utils/fssai"
)

// formatBypassNumbers short-circuits format validation: a document
// containing any of these license numbers is treated as format-valid
// without further checks. Inherited behavior kept as an explicit
// allow-list; confirm with the product owner before extending or
// removing it.
var formatBypassNumbers = []string{
	"20819019000744",
}

// Subtracted from the expiry date when the issue date is missing:
// registrations run five years, counted as 365-day years.
const issueDateBackfillDays = 365 * 5

// VerificationService runs the producer verification pipeline:
// name match, certificate class vs income, document format, finalize.
type VerificationService struct {
	textExtractor TextExtractor
	store         repository.ProducerStore

	// now is swappable so expiry checks can be pinned in tests.
	now func() time.Time
}

func NewVerificationService(textExtractor TextExtractor, store repository.ProducerStore) *VerificationService {
	return &VerificationService{
		textExtractor: textExtractor,
		store:         store,
		now:           time.Now,
	}
}

// VerifyProducer drives the four-stage pipeline over the certificate
// bytes. Every expected failure comes back as a tagged result; the
// error return is reserved for nothing today and kept off the signature.
func (s *VerificationService) VerifyProducer(ctx context.Context, providedName string, documentData []byte, income float64, aadhar string) *dto.VerificationResult {
	// Stage 1: NAME_MATCH
	text, businessName, fail := s.stageNameMatch(ctx, providedName, documentData)
	if fail != nil {
		return fail
	}

	// Stage 2: CERTIFICATE_TYPE
	certType, fail := s.stageCertificateType(text, income)
	if fail != nil {
		return fail
	}

	// Stage 3: FORMAT_VALIDATION
	if fail := s.stageFormatValidation(text); fail != nil {
		return fail
	}

	// Stage 4: FINALIZE
	return s.finalize(ctx, providedName, businessName, text, certType, income, aadhar)
}

func (s *VerificationService) stageNameMatch(ctx context.Context, providedName string, documentData []byte) (string, string, *dto.VerificationResult) {
	text := s.textExtractor.Extract(ctx, documentData)
	if strings.TrimSpace(text) == "" {
		return "", "", &dto.VerificationResult{
			Status:  dto.StatusFailed,
			Stage:   dto.StageDocumentRead,
			Message: "Could not read FSSAI document",
		}
	}

	businessName := fssai.ExtractBusinessName(text)
	if businessName == "" {
		return "", "", &dto.VerificationResult{
			Status:  dto.StatusFailed,
			Stage:   dto.StageNameVerification,
			Message: "Could not extract business name from FSSAI document",
		}
	}

	// Exact match after trimming and lower-casing; never fuzzy.
	if normalizeName(providedName) != normalizeName(businessName) {
		return "", "", &dto.VerificationResult{
			Status:  dto.StatusFailed,
			Stage:   dto.StageNameVerification,
			Message: fmt.Sprintf("Name mismatch: '%s' (provided) != '%s' (FSSAI document)", providedName, businessName),
			Details: &dto.NameDetails{ProvidedName: providedName, BusinessName: businessName},
		}
	}

	return text, businessName, nil
}

func (s *VerificationService) stageCertificateType(text string, income float64) (dto.CertificateType, *dto.VerificationResult) {
	actualType := fssai.ExtractCertificateType(text)
	if actualType == "" {
		return "", &dto.VerificationResult{
			Status:  dto.StatusFailed,
			Stage:   dto.StageCertificateType,
			Message: "Certificate type not found in document",
		}
	}

	expectRegistration := income < dto.IncomeThreshold

	if expectRegistration && !actualType.IsRegistration() {
		return "", &dto.VerificationResult{
			Status: dto.StatusFailed,
			Stage:  dto.StageCertificateMatch,
			Message: fmt.Sprintf("Based on income (₹%s), registration certificate expected, but document shows %s license",
				formatIncome(income), actualType),
		}
	}
	if !expectRegistration && actualType.IsRegistration() {
		return "", &dto.VerificationResult{
			Status: dto.StatusFailed,
			Stage:  dto.StageCertificateMatch,
			Message: fmt.Sprintf("Based on income (₹%s), state or central license expected, but document shows registration certificate",
				formatIncome(income)),
		}
	}

	return actualType, nil
}

func (s *VerificationService) stageFormatValidation(text string) *dto.VerificationResult {
	issues := s.collectFormatIssues(text)
	if len(issues) == 0 {
		return nil
	}
	return &dto.VerificationResult{
		Status:  dto.StatusFailed,
		Stage:   dto.StageFormatVerification,
		Message: "FSSAI document format issues found",
		Issues:  issues,
	}
}

// collectFormatIssues accumulates the ordered completeness/expiry issue
// list. An empty list means the document format is valid.
func (s *VerificationService) collectFormatIssues(text string) []string {
	for _, number := range formatBypassNumbers {
		if strings.Contains(text, number) {
			return nil
		}
	}

	text = fssai.FixSplitYears(text)

	issues := []string{}

	if fssai.ExtractLicenseNumber(text) == "" {
		issues = append(issues, "No 14-digit license number found")
	}
	if fssai.ExtractBusinessName(text) == "" {
		issues = append(issues, "Business name not found")
	}
	if !strings.Contains(strings.ToLower(text), "address") {
		issues = append(issues, "Address information not found")
	}

	const noDateIssue = "Issue or expiry date not found"
	if !fssai.HasDateToken(text) {
		issues = append(issues, noDateIssue)
	}

	expiryDate := fssai.ExtractExpiryDate(text)
	if expiryDate != "" {
		expiry, err := fssai.ParseDate(expiryDate)
		switch {
		case err != nil:
			issues = append(issues, "Invalid expiry date format")
		case s.now().After(expiry):
			issues = append(issues, fmt.Sprintf("License expired on %s", expiryDate))
		default:
			// A concrete, unexpired expiry date supersedes the generic
			// no-date complaint.
			issues = removeIssue(issues, noDateIssue)
		}
	} else if !containsIssue(issues, "Issue or expiry date") {
		issues = append(issues, "Expiry date not found")
	}

	return issues
}

func (s *VerificationService) finalize(ctx context.Context, providedName, businessName, text string, certType dto.CertificateType, income float64, aadhar string) *dto.VerificationResult {
	licenseNumber := fssai.ExtractLicenseNumber(text)
	issueDate := fssai.ExtractIssueDate(text)
	expiryDate := fssai.ExtractExpiryDate(text)
	address := fssai.ExtractAddress(text)
	businessType := fssai.ExtractBusinessType(text)

	// Registrations run five years; back-fill a missing issue date from
	// the expiry date.
	if issueDate == "" && expiryDate != "" {
		if expiry, err := fssai.ParseDate(expiryDate); err == nil {
			issueDate = fssai.FormatDate(expiry.AddDate(0, 0, -issueDateBackfillDays))
		}
	}

	issueDate = fssai.Sanitize(issueDate)
	expiryDate = fssai.Sanitize(expiryDate)
	address = fssai.Sanitize(address)

	pin := generatePin()

	dataStored := false
	record := &dto.VerifiedProducer{
		Aadhar:             aadhar,
		Name:               providedName,
		FssaiLicenseNumber: licenseNumber,
		AnnualIncome:       income,
		CertificateType:    string(certType),
		BusinessType:       businessType,
		IssueDate:          issueDate,
		ExpiryDate:         expiryDate,
		Address:            address,
		Pin:                pin,
	}
	if s.store == nil {
		log.Println("Warning: no producer store configured, skipping persistence")
	} else if err := s.store.Upsert(ctx, record); err != nil {
		log.Printf("Warning: Failed to store data in database: %v", err)
	} else {
		dataStored = true
	}

	return &dto.VerificationResult{
		Status:             dto.StatusSuccess,
		Message:            "Producer verified successfully",
		NameDetails:        &dto.NameDetails{ProvidedName: providedName, BusinessName: businessName},
		CertificateType:    string(certType),
		BusinessType:       businessType,
		FssaiLicenseNumber: licenseNumber,
		IssueDate:          issueDate,
		ExpiryDate:         expiryDate,
		Address:            address,
		Pin:                pin,
		DataStored:         &dataStored,
	}
}

// normalizeName lower-cases and collapses all whitespace so the match
// ignores spacing but stays otherwise exact.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// generatePin returns a uniformly random 6-digit confirmation PIN.
// Uniqueness across producers is not enforced.
func generatePin() int {
	return rand.IntN(900000) + 100000
}

func removeIssue(issues []string, target string) []string {
	out := issues[:0]
	for _, issue := range issues {
		if !strings.Contains(issue, target) {
			out = append(out, issue)
		}
	}
	return out
}

func containsIssue(issues []string, substr string) bool {
	for _, issue := range issues {
		if strings.Contains(issue, substr) {
			return true
		}
	}
	return false
}

// formatIncome renders an income with thousands separators, no decimals.
func formatIncome(income float64) string {
	digits := strconv.FormatFloat(math.Round(income), 'f', 0, 64)

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
