package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"belegexport/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "belegexport",
	Short: "Belegexport CLI - Buchungsdaten aus Rechnungs-PDFs extrahieren",
	Long: `Belegexport CLI liest deutsche Rechnungs-PDFs (Lernförderung,
Bereitschaftspflege und gescannte Belege), extrahiert die Buchungsfelder
und schreibt sie in das feste 23-Spalten-Exportformat der Buchhaltung.

Textbasierte PDFs werden direkt über die Textebene gelesen; Scans laufen
über Google Cloud Vision OCR. Eine optionale Referenztabelle ergänzt
Debitorennummern und Kostenträger.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Belegexport CLI executed")

		fmt.Println("Belegexport CLI")
		fmt.Println("Mit --help werden alle Befehle und Optionen angezeigt.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
