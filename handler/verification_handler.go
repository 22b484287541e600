package handler

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sadapurne/producer-verification/dto"
	"github.com/sadapurne/producer-verification/repository"
	"github.com/sadapurne/producer-verification/service"
)

type VerificationHandler struct {
	verificationService *service.VerificationService
	store               repository.ProducerStore
}

func NewVerificationHandler(verificationService *service.VerificationService, store repository.ProducerStore) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		store:               store,
	}
}

// VerifyProducer handles POST /producers/verify
func (h *VerificationHandler) VerifyProducer(c *gin.Context) {
	log.Println("Received producer verification request")

	var request dto.VerifyProducerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.sendValidationError(c, "Invalid JSON body: "+err.Error())
		return
	}

	if err := request.Validate(); err != nil {
		h.sendValidationError(c, err.Error())
		return
	}

	income, err := request.Income()
	if err != nil {
		h.sendValidationError(c, err.Error())
		return
	}

	pdfData, err := base64.StdEncoding.DecodeString(request.FssaiPdf)
	if err != nil {
		h.sendValidationError(c, "Failed to decode FSSAI PDF data: "+err.Error())
		return
	}

	result := h.verificationService.VerifyProducer(c.Request.Context(), request.Name, pdfData, income, request.Aadhar)

	status := http.StatusBadRequest
	if result.Status == dto.StatusSuccess {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// GetProducer handles GET /producers/:aadhar
func (h *VerificationHandler) GetProducer(c *gin.Context) {
	if h.store == nil {
		h.sendStoreUnavailable(c)
		return
	}

	aadhar := c.Param("aadhar")

	producer, err := h.store.GetByAadhar(c.Request.Context(), aadhar)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Status:  dto.StatusFailed,
				Message: "No verified producer found with this Aadhar number",
			})
			return
		}
		log.Printf("Error retrieving producer %s: %v", aadhar, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Status:  dto.StatusFailed,
			Message: "Error retrieving producer data: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProducerResponse{
		Status: dto.StatusSuccess,
		Data:   producer,
	})
}

// ListProducers handles GET /producers
func (h *VerificationHandler) ListProducers(c *gin.Context) {
	if h.store == nil {
		h.sendStoreUnavailable(c)
		return
	}

	producers, err := h.store.GetAll(c.Request.Context())
	if err != nil {
		log.Printf("Error retrieving producers: %v", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Status:  dto.StatusFailed,
			Message: "Error retrieving producer data: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProducerListResponse{
		Status: dto.StatusSuccess,
		Data:   producers,
	})
}

func (h *VerificationHandler) sendStoreUnavailable(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Status:  dto.StatusFailed,
		Message: "Producer store is not configured",
	})
}

func (h *VerificationHandler) sendValidationError(c *gin.Context, message string) {
	log.Printf("Input validation failed: %s", message)
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Status:  dto.StatusFailed,
		Stage:   dto.StageInputValidation,
		Message: message,
	})
}
