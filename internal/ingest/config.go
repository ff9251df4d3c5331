package ingest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the heuristics the ingestor uses to locate and normalize the
// header row and to discard noise rows. The zero value is not usable; start
// from DefaultConfig and overlay from YAML if a site needs different tables.
type Config struct {
	// HeaderTokens score candidate header rows. A row's score is the number
	// of tokens that appear (case-insensitively) in its joined text.
	HeaderTokens []string `yaml:"header_tokens"`

	// Synonyms map normalized header variants to their canonical name. Keys
	// are matched lowercased with spaces and underscores removed.
	Synonyms map[string]string `yaml:"synonyms"`

	// JunkPhrases drop any row whose joined text contains one of them.
	// These are letterheads and batch labels that show up mid-sheet.
	JunkPhrases []string `yaml:"junk_phrases"`

	// KeyColumns are checked for the repeated-header filter: a row where at
	// least two of these columns equal their own header label is a duplicated
	// header band, not data.
	KeyColumns []string `yaml:"key_columns"`

	// MaxHeaderScan bounds how many leading rows are scored for the header.
	MaxHeaderScan int `yaml:"max_header_scan"`
}

// DefaultConfig returns the production heuristics.
func DefaultConfig() Config {
	return Config{
		HeaderTokens: []string{
			"S/N", "State", "Name", "File No", "Conraiss", "Posting",
			"Station", "Mandate", "Sort Code", "Category", "Rank",
		},
		Synonyms: map[string]string{
			"fileno":   "File No",
			"perno":    "File No",
			"sn":       "S/N",
			"conraiss": "Conraiss",
			"contiss":  "Conraiss",
			"station":  "Station",
			"postedto": "Posting",
			"posting":  "Posting",
			"netpay":   "Netpay",
			"totalnetpay": "Netpay",
			"accountno":   "Account No",
			"acctno":      "Account No",
			"sortcode":    "Sort Code",
		},
		JunkPhrases: []string{
			"prof. dantani",
			"reg/ce",
			"ssce external",
			"batch a",
			"counting & packaging",
		},
		KeyColumns:    []string{"Name", "File No", "S/N", "State", "Mandate"},
		MaxHeaderScan: 30,
	}
}

// LoadConfig reads a YAML heuristics file and overlays it on the defaults.
// Only the tables present in the file are replaced.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if len(overlay.HeaderTokens) > 0 {
		cfg.HeaderTokens = overlay.HeaderTokens
	}
	if len(overlay.Synonyms) > 0 {
		cfg.Synonyms = overlay.Synonyms
	}
	if len(overlay.JunkPhrases) > 0 {
		cfg.JunkPhrases = overlay.JunkPhrases
	}
	if len(overlay.KeyColumns) > 0 {
		cfg.KeyColumns = overlay.KeyColumns
	}
	if overlay.MaxHeaderScan > 0 {
		cfg.MaxHeaderScan = overlay.MaxHeaderScan
	}

	return cfg, nil
}
