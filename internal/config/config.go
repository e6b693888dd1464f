package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"belegexport/internal/export"
	"belegexport/internal/logger"
)

type Config struct {
	// Export defaults, filled into output rows where no value was derived
	Firma          string
	Satzart        string
	SollHaben      string
	BuchKreis      string
	HabenKonto     string
	Koststelle     string
	Kosttraeger    string
	KosttraegerBez string
	Bebuchbar      string
	BuchTextPrefix string
	BuchJahr       int
	BuchMonat      int

	// Reference mapping table (optional)
	MappingFile string

	// Batch Processing Configuration
	BatchWorkers int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

// Load reads the configuration from environment variables. All export
// keys are optional; the tool runs offline on local files, so nothing
// is required up front. Booking year and month default to the current
// date when unset.
func Load() (*Config, error) {
	now := time.Now()

	config := &Config{
		Firma:          getEnv("FIRMA", ""),
		Satzart:        getEnv("SATZART", ""),
		SollHaben:      getEnv("SOLL_HABEN", "S"),
		BuchKreis:      getEnv("BUCH_KREIS", ""),
		HabenKonto:     getEnv("HABENKONTO", ""),
		Koststelle:     getEnv("KOSTSTELLE", ""),
		Kosttraeger:    getEnv("KOSTTRAGER", ""),
		KosttraegerBez: getEnv("KOSTTRAGER_BEZ", ""),
		Bebuchbar:      getEnv("BEBUCHBAR", ""),
		BuchTextPrefix: getEnv("BUCH_TEXT_PREFIX", ""),
		BuchJahr:       getEnvInt("BUCH_JAHR", now.Year()),
		BuchMonat:      getEnvInt("BUCH_MONAT", int(now.Month())),
		MappingFile:    getEnv("MAPPING_FILE", ""),
		BatchWorkers:   getEnvInt("BATCH_WORKERS", 4),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.BuchMonat < 1 || c.BuchMonat > 12 {
		return fmt.Errorf("BUCH_MONAT must be between 1 and 12, got %d", c.BuchMonat)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("BATCH_WORKERS must be at least 1, got %d", c.BatchWorkers)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

// GetExportConfig maps the environment defaults onto the export
// configuration handed into the row assembler.
func (c *Config) GetExportConfig() export.Config {
	return export.Config{
		Satzart:        c.Satzart,
		Firma:          c.Firma,
		SollHaben:      c.SollHaben,
		BuchKreis:      c.BuchKreis,
		BuchJahr:       c.BuchJahr,
		BuchMonat:      c.BuchMonat,
		HabenKonto:     c.HabenKonto,
		Koststelle:     c.Koststelle,
		Kosttraeger:    c.Kosttraeger,
		KosttraegerBez: c.KosttraegerBez,
		Bebuchbar:      c.Bebuchbar,
		BuchTextPrefix: c.BuchTextPrefix,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
