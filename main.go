package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sadapurne/producer-verification/client"
	"github.com/sadapurne/producer-verification/config"
	"github.com/sadapurne/producer-verification/handler"
	"github.com/sadapurne/producer-verification/repository"
	"github.com/sadapurne/producer-verification/service"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize Tesseract client
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath)
	defer tesseractClient.Close()

	// Initialize text extraction cascade
	pdfProcessor := service.NewPDFProcessor()
	textExtractor := service.NewDocumentTextExtractor(pdfProcessor, tesseractClient, cfg.OCRTimeout)

	// Initialize the producer store
	var store repository.ProducerStore
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, verified producers will not be persisted")
	} else {
		db, err := repository.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		store = repository.NewProducerRepository(db)
	}

	// Initialize service layer
	verificationService := service.NewVerificationService(textExtractor, store)

	// Interactive console mode
	if len(os.Args) > 1 && os.Args[1] == "cli" {
		runConsole(verificationService)
		return
	}

	// Initialize handler layer
	verificationHandler := handler.NewVerificationHandler(verificationService, store)

	// Setup Gin router
	router := gin.Default()

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "FSSAI Producer Verification",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		producers := api.Group("/producers")
		{
			producers.POST("/verify", verificationHandler.VerifyProducer)
			producers.GET("", verificationHandler.ListProducers)
			producers.GET("/:aadhar", verificationHandler.GetProducer)
		}
	}

	// Start server
	log.Printf("Starting FSSAI Producer Verification Service on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
