// Package config provides XML-based configuration for the homologation portal.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/supplier-portal/backend/internal/models"
)

// DefaultFileName is the config file looked up next to the executable.
const DefaultFileName = "HomologationPortal.config"

// History sources selectable in Processing.HistorySource.
const (
	HistorySourceStub    = "stub"
	HistorySourceJournal = "journal"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"HomologationPortal"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Remote collaborators
	Services ServicesConfig `xml:"Services"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Processing configuration
	Processing ProcessingConfig `xml:"Processing"`

	// Supplier profile placeholders
	Profile ProfileConfig `xml:"Profile"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// ServicesConfig locates the directory, catalog and intake services.
// The per-service URLs fall back to BaseURL when empty.
type ServicesConfig struct {
	BaseURL            string `xml:"BaseURL"`
	DirectoryURL       string `xml:"DirectoryURL"`
	CatalogURL         string `xml:"CatalogURL"`
	IntakeURL          string `xml:"IntakeURL"`
	CatalogFile        string `xml:"CatalogFile"`
	RequestTimeout     int    `xml:"RequestTimeoutSeconds"`
	SubmitTimeout      int    `xml:"SubmitTimeoutSeconds"`
	BreakerFailures    int    `xml:"BreakerFailureThreshold"`
	BreakerSuccesses   int    `xml:"BreakerSuccessThreshold"`
	BreakerOpenSeconds int    `xml:"BreakerOpenSeconds"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory    string `xml:"DataDirectory"`
	UploadsDirectory string `xml:"UploadsDirectory"`
	JournalPath      string `xml:"JournalPath"`
	MaxFileSize      string `xml:"MaxFileSize"`
}

// ProcessingConfig contains session and background work settings
type ProcessingConfig struct {
	SessionTimeoutMinutes  int    `xml:"SessionTimeoutMinutes"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes"`
	MaxSessions            int    `xml:"MaxSessions"`
	HistorySource          string `xml:"HistorySource"`
	HistoryTimeoutMillis   int    `xml:"HistoryTimeoutMillis"`
	EnableCompression      bool   `xml:"EnableCompression"`
}

// ProfileConfig holds the values shown until the directory exposes real
// evaluation data.
type ProfileConfig struct {
	NotInformed        string `xml:"NotInformedText"`
	TotalEvaluations   int    `xml:"TotalEvaluations"`
	Status             string `xml:"Status"`
	ReviewIntervalDays int    `xml:"ReviewIntervalDays"`
	Feedback           string `xml:"Feedback"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	LogFormat            string `xml:"LogFormat"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	ExposeErrorDetails   bool   `xml:"ExposeErrorDetails"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "http://localhost:3000,http://127.0.0.1:3000",
			ReadTimeout:  30,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Services: ServicesConfig{
			BaseURL:            "http://localhost:3000",
			RequestTimeout:     10,
			SubmitTimeout:      60,
			BreakerFailures:    5,
			BreakerSuccesses:   2,
			BreakerOpenSeconds: 30,
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			JournalPath:      "./data/journal.duckdb",
			MaxFileSize:      "25M",
		},
		Processing: ProcessingConfig{
			SessionTimeoutMinutes:  60,
			CleanupIntervalMinutes: 5,
			MaxSessions:            500,
			HistorySource:          HistorySourceStub,
			HistoryTimeoutMillis:   2000,
			EnableCompression:      true,
		},
		Profile: ProfileConfig{
			NotInformed:        "Não informado",
			TotalEvaluations:   1,
			Status:             "UNDER_REVIEW",
			ReviewIntervalDays: 365,
			Feedback:           "Aguardando análise dos documentos enviados.",
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "console",
			EnableRequestLogging: true,
			ExposeErrorDetails:   false,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		if err := config.Validate(); err != nil {
			return nil, err
		}
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Supplier Homologation Portal Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the server cannot start with.
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Processing.HistorySource {
	case HistorySourceStub, HistorySourceJournal:
	default:
		return fmt.Errorf("unknown history source %q", c.Processing.HistorySource)
	}
	if c.Processing.HistorySource == HistorySourceJournal && c.Storage.JournalPath == "" {
		return fmt.Errorf("history source %q requires Storage.JournalPath", HistorySourceJournal)
	}
	if _, err := ParseSize(c.Storage.MaxFileSize); err != nil {
		return fmt.Errorf("invalid MaxFileSize: %w", err)
	}
	if c.Profile.Status != "" && !models.SupplierStatus(c.Profile.Status).Valid() {
		return fmt.Errorf("unknown profile status %q", c.Profile.Status)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		if c.Storage.JournalPath != "" {
			c.Storage.JournalPath = filepath.Join(dataDir, filepath.Base(c.Storage.JournalPath))
		}
	}

	if apiURL := os.Getenv("PORTAL_API_URL"); apiURL != "" {
		c.Services.BaseURL = apiURL
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}

	if source := os.Getenv("HISTORY_SOURCE"); source != "" {
		c.Processing.HistorySource = strings.ToLower(source)
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
	resolve(&c.Storage.DataDirectory)
	resolve(&c.Storage.UploadsDirectory)
	resolve(&c.Storage.JournalPath)
	resolve(&c.Services.CatalogFile)
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ServiceURL returns the override for one collaborator, or the base URL.
func (c *AppConfig) ServiceURL(override string) string {
	if override != "" {
		return override
	}
	return c.Services.BaseURL
}

// CORSOrigins splits AllowOrigins. It returns nil when CORS is disabled.
func (c *AppConfig) CORSOrigins() []string {
	if !c.Server.EnableCORS {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.Server.AllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// MaxFileSizeBytes returns Storage.MaxFileSize in bytes; 0 means unlimited.
func (c *AppConfig) MaxFileSizeBytes() int64 {
	n, _ := ParseSize(c.Storage.MaxFileSize)
	return n
}

// SessionTimeout returns the idle time after which sessions are dropped.
func (c *AppConfig) SessionTimeout() time.Duration {
	return time.Duration(c.Processing.SessionTimeoutMinutes) * time.Minute
}

// CleanupInterval returns the session sweep period.
func (c *AppConfig) CleanupInterval() time.Duration {
	if c.Processing.CleanupIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Processing.CleanupIntervalMinutes) * time.Minute
}

// HistoryTimeout returns the bound applied to history loads.
func (c *AppConfig) HistoryTimeout() time.Duration {
	return time.Duration(c.Processing.HistoryTimeoutMillis) * time.Millisecond
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
	}
	if c.Storage.JournalPath != "" {
		dirs = append(dirs, filepath.Dir(c.Storage.JournalPath))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// ParseSize parses sizes such as "25M", "512K", "1G" or a plain byte count.
// An empty string means no limit.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "B")

	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("bad size %q", s)
	}
	return n * mult, nil
}
