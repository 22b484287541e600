package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyProducerRequestValidate(t *testing.T) {
	req := VerifyProducerRequest{Aadhar: "442125846000", Name: "KINGS ROLL", FssaiPdf: "aGk=", AnnualIncome: 11000.0}
	assert.NoError(t, req.Validate())

	assert.Error(t, (&VerifyProducerRequest{Name: "x", FssaiPdf: "y"}).Validate())
	assert.Error(t, (&VerifyProducerRequest{Aadhar: "x", FssaiPdf: "y"}).Validate())
	assert.Error(t, (&VerifyProducerRequest{Aadhar: "x", Name: "y"}).Validate())
	assert.Error(t, (&VerifyProducerRequest{Aadhar: " ", Name: "y", FssaiPdf: "z"}).Validate())
}

func TestVerifyProducerRequestIncome(t *testing.T) {
	cases := []struct {
		name    string
		value   interface{}
		want    float64
		wantErr bool
	}{
		{"number", 11000.0, 11000, false},
		{"numeric string", "11000", 11000, false},
		{"string with commas", "1,200,000", 1200000, false},
		{"json number", json.Number("11000"), 11000, false},
		{"negative", -1.0, 0, true},
		{"garbage string", "lots", 0, true},
		{"nil", nil, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := VerifyProducerRequest{AnnualIncome: tc.value}
			got, err := req.Income()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
