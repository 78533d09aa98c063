package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"popup-designer/internal/designer/foldstate"
	"popup-designer/internal/designer/models"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int
	DBPath       string
	ExportDir    string
	ParsePolicy  string
	CORSOrigins  []string
	DesignerFile string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
		DBPath:       getEnv("DESIGNER_DB_PATH", "data/db/designer.db"),
		ExportDir:    getEnv("EXPORT_DIR", "data/exports"),
		ParsePolicy:  os.Getenv("PARSE_POLICY"),
		CORSOrigins:  getEnvAsList("CORS_ORIGINS", []string{"*"}),
		DesignerFile: os.Getenv("DESIGNER_CONFIG"),
	}
}

// ============================================================
// Designer defaults (TOML)
// ============================================================

// DesignerFile is the optional TOML file with design defaults and input
// bounds. Absent keys keep the built-in values.
type DesignerFile struct {
	ParsePolicy  string       `toml:"parse_policy"`
	Mechanism    string       `toml:"mechanism"`
	Articulation *float64     `toml:"articulation"`
	Card         *CardFile    `toml:"card"`
	Element      *ElementFile `toml:"element"`
	Limits       LimitsFile   `toml:"limits"`
}

type CardFile struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type ElementFile struct {
	X     float64 `toml:"x"`
	Width float64 `toml:"width"`
	Depth float64 `toml:"depth"`
}

type LimitsFile struct {
	CardWidth  *models.Bounds `toml:"card_width"`
	CardHeight *models.Bounds `toml:"card_height"`
	X          *models.Bounds `toml:"x"`
	Width      *models.Bounds `toml:"width"`
	Depth      *models.Bounds `toml:"depth"`
}

func LoadDesignerFile(path string) (*DesignerFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read designer config: %w", err)
	}
	var f DesignerFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse designer config: %w", err)
	}
	return &f, nil
}

// FoldOptions builds the design defaults: built-ins, then the TOML file,
// then PARSE_POLICY from the environment.
func (c *Config) FoldOptions() (foldstate.Options, error) {
	opts := foldstate.DefaultOptions()

	if c.DesignerFile != "" {
		f, err := LoadDesignerFile(c.DesignerFile)
		if err != nil {
			return opts, err
		}
		if err := f.apply(&opts); err != nil {
			return opts, fmt.Errorf("%s: %w", c.DesignerFile, err)
		}
	}

	if c.ParsePolicy != "" {
		p, err := foldstate.ParsePolicyFromString(c.ParsePolicy)
		if err != nil {
			return opts, err
		}
		opts.Policy = p
	}
	return opts, nil
}

func (f *DesignerFile) apply(opts *foldstate.Options) error {
	if f.ParsePolicy != "" {
		p, err := foldstate.ParsePolicyFromString(f.ParsePolicy)
		if err != nil {
			return err
		}
		opts.Policy = p
	}
	if f.Mechanism != "" {
		k, err := models.ParseMechanism(f.Mechanism)
		if err != nil {
			return err
		}
		opts.Mechanism = k
	}
	if f.Articulation != nil {
		opts.Articulation = models.Articulation(*f.Articulation).Clamp()
	}

	limits := []struct {
		name string
		src  *models.Bounds
		dst  *models.Bounds
	}{
		{"card_width", f.Limits.CardWidth, &opts.Limits.CardWidth},
		{"card_height", f.Limits.CardHeight, &opts.Limits.CardHeight},
		{"x", f.Limits.X, &opts.Limits.X},
		{"width", f.Limits.Width, &opts.Limits.Width},
		{"depth", f.Limits.Depth, &opts.Limits.Depth},
	}
	for _, l := range limits {
		if l.src == nil {
			continue
		}
		if l.src.Min > l.src.Max {
			return fmt.Errorf("limits.%s: min %v is above max %v", l.name, l.src.Min, l.src.Max)
		}
		*l.dst = *l.src
	}

	if f.Card != nil {
		opts.Card = models.Card{Width: f.Card.Width, Height: f.Card.Height}
	}
	if f.Element != nil {
		opts.Element = models.Element{X: f.Element.X, Width: f.Element.Width, Depth: f.Element.Depth}
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
