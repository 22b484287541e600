package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadapurne/producer-verification/dto"
	"github.com/sadapurne/producer-verification/repository"
	"github.com/sadapurne/producer-verification/service"
)

const certificateText = `
FSSAI REGISTRATION CERTIFICATE

Licensee Name : KINGS ROLL
Registration No.: 20819019000744
Address: NEAR BUS STAND VPO AND TEH KALANWALI DISTT SIRSA HARYANA
Kind of Business: Food Vending Establishment
Date of Issue: 14/12/2020
Valid Upto: 13/12/2025
`

type stubExtractor struct {
	text string
}

func (s *stubExtractor) Extract(ctx context.Context, documentData []byte) string {
	return s.text
}

type memoryStore struct {
	records map[string]dto.VerifiedProducer
}

func (m *memoryStore) Upsert(ctx context.Context, producer *dto.VerifiedProducer) error {
	m.records[producer.Aadhar] = *producer
	return nil
}

func (m *memoryStore) GetByAadhar(ctx context.Context, aadhar string) (*dto.VerifiedProducer, error) {
	rec, ok := m.records[aadhar]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (m *memoryStore) GetAll(ctx context.Context) ([]dto.VerifiedProducer, error) {
	out := []dto.VerifiedProducer{}
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

func setupRouter(text string, store repository.ProducerStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	verificationService := service.NewVerificationService(&stubExtractor{text: text}, store)
	verificationHandler := NewVerificationHandler(verificationService, store)

	router := gin.New()
	api := router.Group("/api/v1")
	producers := api.Group("/producers")
	producers.POST("/verify", verificationHandler.VerifyProducer)
	producers.GET("", verificationHandler.ListProducers)
	producers.GET("/:aadhar", verificationHandler.GetProducer)
	return router
}

func postVerify(router *gin.Engine, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/producers/verify", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"aadhar":        "442125846000",
		"name":          "KINGS ROLL",
		"fssai_pdf":     base64.StdEncoding.EncodeToString([]byte("%PDF-stub")),
		"annual_income": 11000,
	}
}

func TestVerifyProducerEndpointSuccess(t *testing.T) {
	store := &memoryStore{records: map[string]dto.VerifiedProducer{}}
	router := setupRouter(certificateText, store)

	w := postVerify(router, validBody())

	require.Equal(t, http.StatusOK, w.Code)

	var result dto.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Equal(t, "registration", result.CertificateType)
	assert.NotZero(t, result.Pin)

	_, stored := store.records["442125846000"]
	assert.True(t, stored)
}

func TestVerifyProducerEndpointVerificationFailure(t *testing.T) {
	router := setupRouter(certificateText, &memoryStore{records: map[string]dto.VerifiedProducer{}})

	body := validBody()
	body["name"] = "Other Name"
	w := postVerify(router, body)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var result dto.VerificationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, dto.StatusFailed, result.Status)
	assert.Equal(t, dto.StageNameVerification, result.Stage)
}

func TestVerifyProducerEndpointInputValidation(t *testing.T) {
	router := setupRouter(certificateText, &memoryStore{records: map[string]dto.VerifiedProducer{}})

	cases := []struct {
		name   string
		mutate func(map[string]interface{})
	}{
		{"missing aadhar", func(b map[string]interface{}) { b["aadhar"] = "" }},
		{"missing name", func(b map[string]interface{}) { b["name"] = "  " }},
		{"missing pdf", func(b map[string]interface{}) { b["fssai_pdf"] = "" }},
		{"bad base64", func(b map[string]interface{}) { b["fssai_pdf"] = "not-base64!!!" }},
		{"negative income", func(b map[string]interface{}) { b["annual_income"] = -5 }},
		{"bad income type", func(b map[string]interface{}) { b["annual_income"] = "lots" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validBody()
			tc.mutate(body)
			w := postVerify(router, body)

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, dto.StageInputValidation, resp.Stage)
		})
	}
}

func TestGetProducerEndpoint(t *testing.T) {
	store := &memoryStore{records: map[string]dto.VerifiedProducer{
		"442125846000": {Aadhar: "442125846000", Name: "KINGS ROLL", Pin: 123456},
	}}
	router := setupRouter(certificateText, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/producers/442125846000", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProducerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "KINGS ROLL", resp.Data.Name)
}

func TestGetProducerEndpointNotFound(t *testing.T) {
	router := setupRouter(certificateText, &memoryStore{records: map[string]dto.VerifiedProducer{}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/producers/nobody", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProducersEndpoint(t *testing.T) {
	store := &memoryStore{records: map[string]dto.VerifiedProducer{
		"a1": {Aadhar: "a1"},
		"a2": {Aadhar: "a2"},
	}}
	router := setupRouter(certificateText, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/producers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProducerListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}
