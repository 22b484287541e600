package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	DatabaseURL       string
	TesseractDataPath string
	OCRTimeout        time.Duration
	MaxFileSize       int64
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		databaseURL = os.Getenv("DB_URL")
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	ocrTimeout := 30 * time.Second
	if v := os.Getenv("OCR_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			ocrTimeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		ServerPort:        serverPort,
		DatabaseURL:       databaseURL,
		TesseractDataPath: tesseractDataPath,
		OCRTimeout:        ocrTimeout,
		MaxFileSize:       10 * 1024 * 1024, // 10 MB
	}
}
