package ocr_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"belegexport/internal/ocr"
)

// Example demonstrates basic usage of the OCR service.
func Example() {
	// Create context with timeout for OCR processing
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create service - credentials handled internally from environment
	service, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		log.Fatalf("Failed to create OCR service: %v", err)
	}
	defer service.Close()

	// Open PDF file
	pdfFile, err := os.Open("gescannte_rechnung.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	// Process PDF
	result, err := service.ProcessPDF(ctx, pdfFile)
	if err != nil {
		log.Fatalf("Failed to process PDF: %v", err)
	}

	for _, page := range result.Pages {
		fmt.Printf("Seite %d (%.1f%% Konfidenz): %d Zeichen\n",
			page.Number, page.Confidence, len(page.Text))
	}
}

// Example_errorHandling demonstrates proper error handling patterns.
func Example_errorHandling() {
	ctx := context.Background()

	service, err := ocr.NewGoogleVisionService(ctx)
	if err != nil {
		// Handle credential errors
		if err == ocr.ErrMissingCredentials {
			log.Fatalf("Please set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")
		}
		log.Fatalf("Failed to create OCR service: %v", err)
	}
	defer service.Close()

	pdfFile, err := os.Open("grosses_dokument.pdf")
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer pdfFile.Close()

	result, err := service.ProcessPDF(ctx, pdfFile)
	if err != nil {
		// Handle specific OCR errors
		switch {
		case err == ocr.ErrPDFTooLarge:
			log.Printf("PDF is too large for processing. Maximum size is 20MB.")
			return
		case err == ocr.ErrTooManyPages:
			log.Printf("PDF has too many pages. Maximum is 5 pages for synchronous processing.")
			return
		case err == ocr.ErrInvalidPDF:
			log.Printf("The file is not a valid PDF document.")
			return
		case err == ocr.ErrEmptyDocument:
			log.Printf("No readable text found in the document.")
			return
		default:
			log.Fatalf("OCR processing failed: %v", err)
		}
	}

	fmt.Printf("Successfully processed %d pages\n", len(result.Pages))
}
