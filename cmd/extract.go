package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"belegexport/internal/config"
	"belegexport/internal/export"
	"belegexport/internal/extract"
	"belegexport/internal/logger"
	"belegexport/internal/mapping"
	"belegexport/internal/money"
	"belegexport/internal/ocr"
	"belegexport/internal/pdftext"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-datei|ordner]...",
	Short: "Buchungszeilen aus Rechnungs-PDFs extrahieren und als Excel exportieren",
	Long: `Extrahiert Buchungszeilen aus Rechnungs-PDFs und schreibt sie in das
feste 23-Spalten-Exportformat.

PDFs mit Textebene werden direkt gelesen; Scans ohne Textebene laufen
automatisch über Google Cloud Vision OCR. Jede Seite wird eigenständig
klassifiziert (Lernförderung, Bereitschaftspflege oder Scan), die
Positionen werden gegen den Rechnungsbetrag abgestimmt und optional über
eine Referenztabelle um Debitorennummer und Kostenträger ergänzt.

Exportvorgaben (FIRMA, SOLL_HABEN, HABENKONTO, ...) kommen aus der
Umgebung bzw. der .env-Datei; Flags übersteuern sie je Lauf.

Optionale Umgebungsvariablen:
  BATCH_WORKERS - Anzahl paralleler Worker (Standard: 4)
  MAPPING_FILE  - Pfad zur Referenztabelle (xlsx)`,
	Example: `  # Einen Ordner verarbeiten und Export schreiben
  belegexport extract ./rechnungen -o export.xlsx

  # Mit Referenztabelle für Debitoren/Kostenträger
  belegexport extract ./rechnungen -m referenz.xlsx

  # Einzelne Dateien, OCR erzwingen
  belegexport extract scan1.pdf scan2.pdf --ocr

  # Firma für diesen Lauf übersteuern
  belegexport extract ./rechnungen --firma 9251`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

// ExtractResult represents the outcome of processing a single PDF
type ExtractResult struct {
	Filename     string
	Rows         []export.Row
	SkippedPages int
	OCRUsed      bool
	Error        error
	Status       string // "success", "warning", "error"
	Index        int    // Original order index
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "belegexport.xlsx", "Pfad der Export-Datei (xlsx)")
	extractCmd.Flags().StringP("mapping", "m", "", "Referenztabelle für Debitoren/Kostenträger (xlsx)")
	extractCmd.Flags().String("firma", "", "FIRMA für diesen Lauf übersteuern")
	extractCmd.Flags().Bool("ocr", false, "OCR auch für PDFs mit Textebene erzwingen")
	extractCmd.Flags().Bool("verbose", false, "Detaillierte Verarbeitungsinformationen anzeigen")
	extractCmd.Flags().Int("timeout", 1800, "Gesamt-Timeout in Sekunden")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")

	outputPath, _ := cmd.Flags().GetString("output")
	mappingPath, _ := cmd.Flags().GetString("mapping")
	firma, _ := cmd.Flags().GetString("firma")
	forceOCR, _ := cmd.Flags().GetBool("ocr")
	verbose, _ := cmd.Flags().GetBool("verbose")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if firma != "" {
		cfg.Firma = firma
	}
	if mappingPath == "" {
		mappingPath = cfg.MappingFile
	}
	exportCfg := cfg.GetExportConfig()

	pdfFiles, err := findPDFFiles(args)
	if err != nil {
		return err
	}
	if len(pdfFiles) == 0 {
		fmt.Println("Keine PDF-Dateien gefunden.")
		return nil
	}

	log.Info().
		Int("files", len(pdfFiles)).
		Str("output", outputPath).
		Str("mapping", mappingPath).
		Bool("force_ocr", forceOCR).
		Msg("Starting extraction")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	var table *mapping.Table
	if mappingPath != "" {
		table, err = mapping.Load(mappingPath)
		if err != nil {
			return fmt.Errorf("failed to load mapping table: %w", err)
		}
	}

	fmt.Printf("Verarbeite %d PDFs mit %d parallelen Workern...\n", len(pdfFiles), cfg.BatchWorkers)
	fmt.Println()

	// The OCR client is created on first use so text-native runs never
	// need credentials.
	var ocrOnce sync.Once
	var ocrService ocr.Service
	var ocrErr error
	getOCR := func() (ocr.Service, error) {
		ocrOnce.Do(func() {
			ocrService, ocrErr = createOCRService(ctx, log)
		})
		return ocrService, ocrErr
	}
	defer func() {
		if ocrService != nil {
			ocrService.Close()
		}
	}()

	pipeline := extract.NewPipeline(cfg.BatchWorkers)
	results := processPDFsInParallel(ctx, pdfFiles, pipeline, exportCfg, getOCR, forceOCR, cfg.BatchWorkers, log, verbose)

	fmt.Println()

	var allRows []export.Row
	successCount := 0
	warningCount := 0
	errorCount := 0
	for _, result := range results {
		allRows = append(allRows, result.Rows...)
		switch result.Status {
		case "success":
			successCount++
		case "warning":
			warningCount++
		case "error":
			errorCount++
		}
	}

	repairedCount := 0
	if table != nil {
		repairedCount = table.RepairAll(allRows)
	}

	mismatchCount := 0
	reviewCount := 0
	for _, row := range allRows {
		if row.ReconStatus == extract.ReconMismatch {
			mismatchCount++
		}
		if row.ValidationRequired {
			reviewCount++
		}
	}

	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("                 ERGEBNIS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Erfolgreich: %d\n", successCount)
	if warningCount > 0 {
		fmt.Printf("Mit Warnungen: %d\n", warningCount)
	}
	if errorCount > 0 {
		fmt.Printf("Fehler: %d\n", errorCount)
	}
	fmt.Printf("Buchungszeilen: %d\n", len(allRows))
	if table != nil {
		fmt.Printf("Debitoren/Kostenträger ergänzt: %d\n", repairedCount)
	}
	if mismatchCount > 0 {
		fmt.Printf("Abstimmungsabweichungen: %d\n", mismatchCount)
	}
	if reviewCount > 0 {
		fmt.Printf("Zeilen zur manuellen Prüfung: %d\n", reviewCount)
	}
	fmt.Println()

	if err := export.WriteXLSX(outputPath, allRows); err != nil {
		return err
	}
	fmt.Printf("Export geschrieben: %s\n", outputPath)

	log.Info().
		Int("total", len(pdfFiles)).
		Int("success", successCount).
		Int("warnings", warningCount).
		Int("errors", errorCount).
		Int("rows", len(allRows)).
		Msg("Extraction completed")

	return nil
}

// processSinglePDF runs one PDF through text extraction (native or
// OCR), the page pipeline and the row assembler.
func processSinglePDF(ctx context.Context, pdfPath string, pipeline *extract.Pipeline, exportCfg export.Config, getOCR func() (ocr.Service, error), forceOCR bool, log zerolog.Logger, verbose bool) ExtractResult {
	result := ExtractResult{
		Status: "error",
	}

	pages, err := pdftext.ReadFile(pdfPath)
	if err != nil {
		result.Error = err
		return result
	}

	if forceOCR || !pdftext.HasText(pages) {
		pages, err = ocrPages(ctx, pdfPath, getOCR)
		if err != nil {
			result.Error = err
			return result
		}
		result.OCRUsed = true
	}

	pageResults := pipeline.ProcessPagesDetailed(ctx, pages)
	for _, pr := range pageResults {
		if pr.Err != nil {
			result.SkippedPages++
			log.Warn().
				Str("file", pdfPath).
				Int("page", pr.Page).
				Err(pr.Err).
				Msg("Seite übersprungen")
			continue
		}
		for _, item := range pr.Items {
			result.Rows = append(result.Rows, export.Assemble(item, pr.Meta, exportCfg))
		}
	}

	result.Status = "success"
	if result.SkippedPages > 0 || len(result.Rows) == 0 {
		result.Status = "warning"
	}
	for _, row := range result.Rows {
		if row.ReconStatus == extract.ReconMismatch {
			result.Status = "warning"
			break
		}
	}

	if verbose {
		log.Info().
			Str("file", pdfPath).
			Int("rows", len(result.Rows)).
			Int("skipped_pages", result.SkippedPages).
			Bool("ocr", result.OCRUsed).
			Msg("PDF processed")
	}

	return result
}

// ocrPages sends a scanned PDF through the OCR service and maps the
// per-page results onto the pipeline's input pages.
func ocrPages(ctx context.Context, pdfPath string, getOCR func() (ocr.Service, error)) ([]extract.RawPage, error) {
	service, err := getOCR()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	result, err := service.ProcessPDF(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := make([]extract.RawPage, 0, len(result.Pages))
	for _, p := range result.Pages {
		pages = append(pages, extract.RawPage{
			Number:     p.Number,
			Text:       p.Text,
			Confidence: p.Confidence,
		})
	}
	return pages, nil
}

// processPDFsInParallel processes PDFs using a worker pool pattern
func processPDFsInParallel(ctx context.Context, pdfFiles []string, pipeline *extract.Pipeline, exportCfg export.Config, getOCR func() (ocr.Service, error), forceOCR bool, numWorkers int, log zerolog.Logger, verbose bool) []ExtractResult {
	jobs := make(chan int, len(pdfFiles))
	results := make([]ExtractResult, len(pdfFiles))

	// Progress tracking
	var processedCount int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for idx := range jobs {
				log.Debug().
					Int("worker", workerID).
					Str("file", pdfFiles[idx]).
					Int("index", idx+1).
					Msg("Worker processing PDF")

				result := processSinglePDF(ctx, pdfFiles[idx], pipeline, exportCfg, getOCR, forceOCR, log, verbose)
				result.Index = idx
				result.Filename = filepath.Base(pdfFiles[idx])
				results[idx] = result

				mu.Lock()
				processedCount++
				fmt.Printf("[%d/%d] %s - %s", processedCount, len(pdfFiles), result.Filename, getStatusEmoji(result.Status))
				if result.Error != nil {
					fmt.Printf(" (%s)", result.Error.Error())
				} else {
					var sum int64
					for _, row := range result.Rows {
						sum += row.BetragCents
					}
					fmt.Printf(" (%d Zeilen, %s €)", len(result.Rows), money.FormatCents(sum))
				}
				fmt.Println()
				mu.Unlock()
			}
		}(w)
	}

	for i := range pdfFiles {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	return results
}
