package dto

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// VerifyProducerRequest is the JSON body of POST /producers/verify.
// FssaiPdf is the certificate PDF, base64 encoded. AnnualIncome is kept
// loose because clients send it both as a number and as a numeric string.
type VerifyProducerRequest struct {
	Aadhar       string      `json:"aadhar"`
	Name         string      `json:"name"`
	FssaiPdf     string      `json:"fssai_pdf"`
	AnnualIncome interface{} `json:"annual_income"`
}

// Validate performs basic validation on the request
func (r *VerifyProducerRequest) Validate() error {
	if strings.TrimSpace(r.Aadhar) == "" {
		return errors.New("invalid Aadhar number")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("invalid name")
	}
	if strings.TrimSpace(r.FssaiPdf) == "" {
		return errors.New("invalid FSSAI PDF data")
	}
	return nil
}

// Income coerces annual_income to a float and rejects negative values.
func (r *VerifyProducerRequest) Income() (float64, error) {
	var income float64

	switch v := r.AnnualIncome.(type) {
	case float64:
		income = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, errors.New("invalid annual income format")
		}
		income = f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.New("invalid annual income format")
		}
		income = f
	default:
		return 0, errors.New("invalid annual income format")
	}

	if income < 0 {
		return 0, errors.New("annual income must be a positive number")
	}
	return income, nil
}
