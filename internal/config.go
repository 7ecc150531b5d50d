package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Archive ArchiveConfig     `yaml:"archive"`
	Site    SiteConfig        `yaml:"site"`
	Watch   WatchConfig       `yaml:"watch"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Archive.Validate(); err != nil {
		return err
	}
	return c.Site.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

var extensionRe = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// ArchiveConfig locates the documents and the stylesheet used to render them.
type ArchiveConfig struct {
	Documents   string `yaml:"documents"`
	Stylesheet  string `yaml:"stylesheet"`
	Extension   string `yaml:"extension"`
	ScanWorkers int    `yaml:"scan_workers"`
}

// Validate validates the archive configuration.
func (c *ArchiveConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Documents, validation.Required),
		validation.Field(&c.Stylesheet, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Match(extensionRe)),
		validation.Field(&c.ScanWorkers, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// SiteConfig holds the page chrome.
type SiteConfig struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	// Intro is an optional Markdown file shown above the catalog.
	Intro string `yaml:"intro"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Title, validation.Required),
	)
}

// WatchConfig toggles change notices for the documents directory.
type WatchConfig struct {
	Enabled bool `yaml:"enabled"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Archive: ArchiveConfig{
			Documents:   "./data/xml",
			Stylesheet:  "./data/xslt/tei-to-html.xsl",
			Extension:   ".xml",
			ScanWorkers: 4,
		},
		Site: SiteConfig{
			Title:    "TEI Manuscript Viewer",
			Subtitle: "An XML/TEI + XSLT digital humanities archive",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
