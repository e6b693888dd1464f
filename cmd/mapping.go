package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"belegexport/internal/config"
	"belegexport/internal/export"
	"belegexport/internal/logger"
	"belegexport/internal/mapping"
)

var mappingCmd = &cobra.Command{
	Use:   "mapping [debitor|kostenträger]...",
	Short: "Referenztabelle prüfen und Debitoren-Zuordnung testen",
	Long: `Lädt die Referenztabelle und zeigt, welcher Eintrag für die angegebenen
Debitorennummern oder Kostenträger gefunden würde.

Die Zuordnung läuft in derselben Kette wie beim Export: exakter Treffer
auf (Firma, Debitor), dann Kostenträger als Alternativschlüssel bei
fehlender oder verkürzter Debitorennummer, dann Suffix-Treffer, zuletzt
der numerisch nächste Kostenträger. So lässt sich vor einem Lauf prüfen,
ob unvollständig erkannte Nummern korrekt ergänzt werden.`,
	Example: `  # Tabelle laden und Eintragszahl anzeigen
  belegexport mapping -m referenz.xlsx

  # Zuordnung für eine vollständige und eine verkürzte Nummer testen
  belegexport mapping -m referenz.xlsx 123456789 6789

  # Mit Firmen-Scope
  belegexport mapping -m referenz.xlsx --firma 9251 6789`,
	RunE: runMapping,
}

func init() {
	rootCmd.AddCommand(mappingCmd)

	mappingCmd.Flags().StringP("mapping", "m", "", "Referenztabelle (xlsx); Standard: MAPPING_FILE")
	mappingCmd.Flags().String("firma", "", "Firma für die Zuordnung")
	mappingCmd.Flags().String("kosttraeger", "", "Kostenträger als Alternativschlüssel")
}

func runMapping(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("mapping-cmd")

	mappingPath, _ := cmd.Flags().GetString("mapping")
	firma, _ := cmd.Flags().GetString("firma")
	costCenter, _ := cmd.Flags().GetString("kosttraeger")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if mappingPath == "" {
		mappingPath = cfg.MappingFile
	}
	if mappingPath == "" {
		return fmt.Errorf("no mapping file given; use --mapping or set MAPPING_FILE")
	}
	if firma == "" {
		firma = cfg.Firma
	}

	table, err := mapping.Load(mappingPath)
	if err != nil {
		return fmt.Errorf("failed to load mapping table: %w", err)
	}

	fmt.Printf("Referenztabelle: %s (%d Einträge)\n", mappingPath, table.Len())
	if len(args) == 0 {
		return nil
	}
	fmt.Println()

	for _, debtor := range args {
		entry, ok := table.Resolve(firma, debtor, costCenter)
		if !ok {
			fmt.Printf("%s %s - kein Eintrag gefunden\n", getStatusEmoji("error"), debtor)
			log.Warn().
				Str("debtor", debtor).
				Str("firma", firma).
				Msg("No mapping entry found")
			continue
		}

		fmt.Printf("%s %s -> Debitor %s, Kostenträger %s (KOSTSTELLE %s)\n",
			getStatusEmoji("success"), debtor, entry.Debtor,
			export.PadCostCenter(entry.CostCenter), export.DeriveKoststelle(entry.CostCenter))
		if entry.Description != "" {
			fmt.Printf("   Bezeichnung: %s\n", entry.Description)
		}
	}

	return nil
}
