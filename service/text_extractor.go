package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/sadapurne/producer-verification/client"
)

// TextExtractor turns raw document bytes into text. It never fails
// loudly: total failure yields an empty string.
type TextExtractor interface {
	Extract(ctx context.Context, documentData []byte) string
}

// DocumentTextExtractor reads FSSAI certificates with a fixed strategy
// cascade: embedded text layer, then content-stream text, then OCR over
// the page images. The first strategy producing non-empty trimmed output
// wins. Plain-text documents (CLI users submit .txt paths too) bypass
// the cascade.
type DocumentTextExtractor struct {
	pdfProcessor PDFProcessor
	tesseract    *client.TesseractClient
	ocrTimeout   time.Duration
}

func NewDocumentTextExtractor(pdfProcessor PDFProcessor, tesseract *client.TesseractClient, ocrTimeout time.Duration) *DocumentTextExtractor {
	return &DocumentTextExtractor{
		pdfProcessor: pdfProcessor,
		tesseract:    tesseract,
		ocrTimeout:   ocrTimeout,
	}
}

var pdfMagic = []byte("%PDF-")

// Extract runs the cascade. OCR is deadline-bound by ocrTimeout; every
// other strategy is fast.
func (e *DocumentTextExtractor) Extract(ctx context.Context, documentData []byte) string {
	if len(documentData) == 0 {
		return ""
	}

	if !bytes.HasPrefix(documentData, pdfMagic) {
		if utf8.Valid(documentData) {
			return string(documentData)
		}
		log.Println("Document is neither a PDF nor valid text")
		return ""
	}

	// 1. Embedded text layer.
	text, err := e.pdfProcessor.ExtractText(documentData)
	if err != nil {
		log.Printf("PDF text layer extraction failed: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		return text
	}

	// 2. Content-stream text.
	text, err = e.pdfProcessor.ExtractContentText(documentData)
	if err != nil {
		log.Printf("PDF content stream extraction failed: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		return text
	}

	// 3. OCR over the page images, with a best-effort QR decode per page.
	ocrCtx := ctx
	if e.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ocrCtx, cancel = context.WithTimeout(ctx, e.ocrTimeout)
		defer cancel()
	}
	return e.ocrPages(ocrCtx, documentData)
}

func (e *DocumentTextExtractor) ocrPages(ctx context.Context, pdfData []byte) string {
	images, err := e.pdfProcessor.ExtractImages(pdfData)
	if err != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF: %v", err)
		return ""
	}

	var fullText strings.Builder
	for idx, page := range images {
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, page); err != nil {
			log.Printf("Failed to encode page %d: %v", idx+1, err)
			continue
		}

		pageText, err := e.ocrWithDeadline(ctx, buf.Bytes())
		if err != nil {
			log.Printf("OCR failed for page %d: %v", idx+1, err)
		} else {
			fullText.WriteString(pageText)
			fullText.WriteString("\n")
		}

		// FSSAI certificates carry a QR code with the license details;
		// append its payload so the field extractors can see it.
		if qrText, err := decodeQRText(page); err == nil && qrText != "" {
			fullText.WriteString(qrText)
			fullText.WriteString("\n")
		}

		if ctx.Err() != nil {
			log.Printf("OCR deadline reached after page %d", idx+1)
			break
		}
	}

	return fullText.String()
}

// ocrWithDeadline runs Tesseract in a goroutine so the cascade can give
// up on the configured deadline. Tesseract itself cannot be interrupted;
// a timed-out run is abandoned.
func (e *DocumentTextExtractor) ocrWithDeadline(ctx context.Context, imageData []byte) (string, error) {
	type ocrResult struct {
		text string
		err  error
	}

	done := make(chan ocrResult, 1)
	go func() {
		text, err := e.tesseract.ExtractTextFromBytes(imageData)
		done <- ocrResult{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func decodeQRText(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", err
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}

	return result.GetText(), nil
}
