package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"belegexport/internal/logger"
	"belegexport/internal/ocr"
)

var ocrCmd = &cobra.Command{
	Use:   "ocr [pdf-file]",
	Short: "Extract text from PDF using Google Cloud Vision OCR",
	Long: `Process a PDF file using Google Cloud Vision API to extract all text content.

This command uses Google Cloud Vision API's document text detection to extract
text from PDF files with high accuracy. The service supports multi-page PDFs
up to 5 pages and 20MB in size for synchronous processing.

The output keeps the per-page split the extraction pipeline works with, so
the result of "belegexport extract" on a scan can be inspected page by page.

Required environment variables:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  # Extract text from scan.pdf to stdout
  belegexport ocr scan.pdf

  # Save extracted text to file
  belegexport ocr scan.pdf -o extracted.txt

  # Include metadata and output as JSON
  belegexport ocr scan.pdf --metadata --json -o result.json

  # Process with custom timeout
  belegexport ocr large-document.pdf --timeout 600`,
	Args: cobra.ExactArgs(1),
	RunE: runOCR,
}

// OCROutput represents the JSON output structure when --json flag is used
type OCROutput struct {
	Pages              []ocr.PageResult `json:"pages"`
	PageCount          int              `json:"page_count"`
	Confidence         float64          `json:"confidence,omitempty"`
	LanguageCodes      []string         `json:"language_codes,omitempty"`
	ProcessedAt        time.Time        `json:"processed_at,omitempty"`
	ProcessingDuration string           `json:"processing_duration,omitempty"`
	FileName           string           `json:"file_name"`
	FileSize           int64            `json:"file_size"`
}

func init() {
	rootCmd.AddCommand(ocrCmd)

	ocrCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	ocrCmd.Flags().Bool("metadata", false, "Include metadata in output")
	ocrCmd.Flags().Bool("json", false, "Output as JSON")
	ocrCmd.Flags().Int("timeout", 300, "Processing timeout in seconds")
}

func runOCR(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("ocr")

	outputPath, _ := cmd.Flags().GetString("output")
	includeMetadata, _ := cmd.Flags().GetBool("metadata")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]

	log.Info().
		Str("file", pdfPath).
		Str("output", outputPath).
		Bool("metadata", includeMetadata).
		Bool("json", jsonOutput).
		Int("timeout", timeoutSecs).
		Msg("Starting OCR processing")

	// Validate and get file info
	fileInfo, err := validatePDFFile(pdfPath, log)
	if err != nil {
		return err
	}

	// Create context with timeout and signal handling
	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	// Create OCR service
	ocrService, err := createOCRService(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ocrService.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close OCR service")
		}
	}()

	// Open PDF file
	pdfFile, err := os.Open(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to open PDF file")
		return fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer func() {
		if closeErr := pdfFile.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close PDF file")
		}
	}()

	log.Info().
		Str("file", pdfPath).
		Int64("size", fileInfo.Size()).
		Msg("Processing PDF")

	result, err := ocrService.ProcessPDF(ctx, pdfFile)
	if err != nil {
		return handleOCRError(err, log)
	}

	log.Info().
		Int("page_count", len(result.Pages)).
		Float64("confidence", result.Confidence).
		Dur("duration", result.ProcessingDuration).
		Int("text_length", len(result.Text())).
		Msg("OCR processing completed successfully")

	// Format and output results
	return outputOCRResults(result, fileInfo, outputPath, jsonOutput, includeMetadata, log)
}

// outputOCRResults formats and outputs the OCR results
func outputOCRResults(result *ocr.Result, fileInfo os.FileInfo, outputPath string, jsonOutput, includeMetadata bool, log zerolog.Logger) error {
	var output strings.Builder
	var outputData []byte
	var err error

	if jsonOutput {
		// JSON output
		ocrOutput := OCROutput{
			Pages:              result.Pages,
			PageCount:          len(result.Pages),
			Confidence:         result.Confidence,
			LanguageCodes:      result.LanguageCodes,
			ProcessedAt:        result.ProcessedAt,
			ProcessingDuration: result.ProcessingDuration.String(),
			FileName:           filepath.Base(fileInfo.Name()),
			FileSize:           fileInfo.Size(),
		}

		outputData, err = json.MarshalIndent(ocrOutput, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		// Text output
		if includeMetadata {
			// Add metadata header
			output.WriteString(fmt.Sprintf("=== OCR Results for %s ===\n", filepath.Base(fileInfo.Name())))
			output.WriteString(fmt.Sprintf("File size: %d bytes\n", fileInfo.Size()))
			output.WriteString(fmt.Sprintf("Pages processed: %d\n", len(result.Pages)))
			if result.Confidence > 0 {
				output.WriteString(fmt.Sprintf("Confidence: %.1f%%\n", result.Confidence))
			}
			if len(result.LanguageCodes) > 0 {
				output.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(result.LanguageCodes, ", ")))
			}
			output.WriteString(fmt.Sprintf("Processing time: %v\n", result.ProcessingDuration))
			output.WriteString(fmt.Sprintf("Processed at: %s\n", result.ProcessedAt.Format(time.RFC3339)))
			output.WriteString("\n")
		}

		for i, page := range result.Pages {
			if i > 0 {
				output.WriteString("\n")
			}
			if includeMetadata {
				output.WriteString(fmt.Sprintf("=== Seite %d (Konfidenz %.1f%%) ===\n\n", page.Number, page.Confidence))
			}
			output.WriteString(page.Text)
			output.WriteString("\n")
		}
		outputData = []byte(output.String())
	}

	// Write output
	if outputPath != "" {
		// Write to file
		err = os.WriteFile(outputPath, outputData, 0644)
		if err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("OCR results written to file")
	} else {
		// Write to stdout
		_, err = os.Stdout.Write(outputData)
		if err != nil {
			log.Error().Err(err).Msg("Failed to write to stdout")
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	return nil
}
