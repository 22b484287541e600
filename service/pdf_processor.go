package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor exposes the three ways we can get content out of a PDF:
// the embedded text layer, the raw page content streams, and the page
// images for OCR.
type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	ExtractContentText(pdfData []byte) (string, error)
	ExtractImages(pdfData []byte) ([]image.Image, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText reads the embedded text layer row by row.
func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	var textBuilder bytes.Buffer
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// Literal strings shown via Tj / TJ / ' operators in a content stream.
var contentTextRegex = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|TJ|')`)

// ExtractContentText pulls shown text out of the raw page content
// streams via pdfcpu. It is cruder than the text layer but survives
// documents whose xref or font tables confuse the text-layer reader.
func (p *pdfProcessor) ExtractContentText(pdfData []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "pdf_content")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := writeTempPDF(pdfData)
	if err != nil {
		return "", err
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, tempDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract content streams: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temp dir: %w", err)
	}

	var textBuilder strings.Builder
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		for _, match := range contentTextRegex.FindAllSubmatch(data, -1) {
			textBuilder.Write(unescapePDFString(match[1]))
			textBuilder.WriteString("\n")
		}
	}

	return textBuilder.String(), nil
}

// ExtractImages renders every embedded page image for OCR.
func (p *pdfProcessor) ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "pdf_images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := writeTempPDF(pdfData)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile, tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}

		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}

func writeTempPDF(pdfData []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("failed to write pdf data: %w", err)
	}
	tempFile.Close()

	return tempFile.Name(), nil
}

// unescapePDFString resolves the escape sequences allowed inside a PDF
// literal string.
func unescapePDFString(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			out = append(out, s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		default:
			out = append(out, s[i])
		}
	}
	return out
}
