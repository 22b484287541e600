package dto

// CertificateType is the class of an FSSAI certificate.
type CertificateType string

const (
	CertTypeRegistration CertificateType = "registration"
	CertTypeState        CertificateType = "state"
	CertTypeCentral      CertificateType = "central"
	CertTypeLicense      CertificateType = "license" // generic license, class not stated
)

// IsRegistration reports whether the certificate is a registration
// certificate rather than a state/central license.
func (t CertificateType) IsRegistration() bool {
	return t == CertTypeRegistration
}

// IncomeThreshold is the annual income (in rupees) at and above which a
// state or central license is required instead of a registration certificate.
const IncomeThreshold = 1200000.0

// ExtractedFields holds everything the parser could pull out of a
// certificate's text. Empty string means the field was not found.
// Dates stay in their source format (DD/MM/YYYY or YYYY-MM-DD).
type ExtractedFields struct {
	BusinessName    string
	LicenseNumber   string // exactly 14 digits when present
	Address         string
	CertificateType CertificateType
	BusinessType    string
	IssueDate       string
	ExpiryDate      string
}

// VerifiedProducer is the persisted record for a successfully verified
// producer, keyed by Aadhaar number.
type VerifiedProducer struct {
	Aadhar             string  `json:"aadhar" gorm:"column:aadhar;primaryKey"`
	Name               string  `json:"name" gorm:"column:name"`
	FssaiLicenseNumber string  `json:"fssai_license_number" gorm:"column:fssai_license_number"`
	AnnualIncome       float64 `json:"annual_income" gorm:"column:annual_income"`
	CertificateType    string  `json:"certificate_type" gorm:"column:certificate_type"`
	BusinessType       string  `json:"business_type" gorm:"column:business_type"`
	IssueDate          string  `json:"issue_date" gorm:"column:issue_date"`
	ExpiryDate         string  `json:"expiry_date" gorm:"column:expiry_date"`
	Address            string  `json:"address" gorm:"column:address"`
	Pin                int     `json:"pin" gorm:"column:pin"`
}

// TableName keeps the table name used by the legacy deployment.
func (VerifiedProducer) TableName() string {
	return "verified_producers"
}
