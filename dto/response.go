package dto

// Verification statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Pipeline stages reported on failure.
const (
	StageNameVerification   = "name_verification"
	StageDocumentRead       = "document_read"
	StageCertificateType    = "certificate_type"
	StageCertificateMatch   = "certificate_match"
	StageFormatVerification = "format_verification"
	StageInputValidation    = "input_validation"
)

// NameDetails carries both sides of the name comparison.
type NameDetails struct {
	ProvidedName string `json:"provided_name"`
	BusinessName string `json:"business_name"`
}

// VerificationResult is the tagged outcome of the verification pipeline.
// On failure only Status, Stage, Message (and Details/Issues when relevant)
// are set; the remaining fields are populated on success.
type VerificationResult struct {
	Status      string       `json:"status"`
	Stage       string       `json:"stage,omitempty"`
	Message     string       `json:"message"`
	Details     *NameDetails `json:"details,omitempty"`
	Issues      []string     `json:"issues,omitempty"`
	NameDetails *NameDetails `json:"name_details,omitempty"`

	CertificateType    string `json:"certificate_type,omitempty"`
	BusinessType       string `json:"business_type,omitempty"`
	FssaiLicenseNumber string `json:"fssai_license_number,omitempty"`
	IssueDate          string `json:"issue_date,omitempty"`
	ExpiryDate         string `json:"expiry_date,omitempty"`
	Address            string `json:"address,omitempty"`
	Pin                int    `json:"pin,omitempty"`
	DataStored         *bool  `json:"data_stored,omitempty"`
}

// ErrorResponse is the body returned for boundary-layer failures.
type ErrorResponse struct {
	Status  string `json:"status"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

// ProducerResponse wraps store reads.
type ProducerResponse struct {
	Status string            `json:"status"`
	Data   *VerifiedProducer `json:"data,omitempty"`
}

// ProducerListResponse wraps the list endpoint.
type ProducerListResponse struct {
	Status string             `json:"status"`
	Data   []VerifiedProducer `json:"data"`
}
