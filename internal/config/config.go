package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	cfg     *APIConfig
	loadErr error
	once    sync.Once
)

// APIConfig represents the root element.
type APIConfig struct {
	XMLName        xml.Name             `xml:"API"`
	RequestDump    bool                 `xml:"REQUEST_DUMP,attr"`
	Context        ContextConfig        `xml:"CONTEXT"`
	Authentication AuthenticationConfig `xml:"AUTHENTICATION"`
	DB             DBConfig             `xml:"DB"`
	Logging        LoggingConfig        `xml:"LOGGING"`
	Cache          CacheConfig          `xml:"CACHE"`
	Metrics        MetricsConfig        `xml:"METRICS"`
}

// ContextConfig holds basic server settings.
type ContextConfig struct {
	Port        int      `xml:"PORT"`
	Host        string   `xml:"HOST"`
	TimeZone    string   `xml:"TIME_ZONE"`
	CORSOrigins []string `xml:"CORS_ORIGINS>ORIGIN"`
}

// AuthenticationConfig holds bearer token settings.
type AuthenticationConfig struct {
	TokenSecret string `xml:"TOKEN_SECRET"`
	// TokenTTL is in minutes.
	TokenTTL int `xml:"TOKEN_TTL"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Initialize bool         `xml:"INITIALIZE"`
	Driver     string       `xml:"DRIVER"`
	Host       string       `xml:"HOST"`
	Port       int          `xml:"PORT"`
	SSLMode    string       `xml:"SSL_MODE"`
	Names      DBNames      `xml:"NAMES"`
	Username   string       `xml:"USERNAME"`
	Password   DBPassword   `xml:"PASSWORD"`
	Pool       DBPoolConfig `xml:"POOL"`
	// DSN, when set, is used verbatim instead of the fields above.
	DSN string `xml:"DSN"`
}

// DBNames holds the names defined in the DB section.
type DBNames struct {
	Mindset string `xml:"MINDSET,attr"`
}

// DBPassword holds password details.
type DBPassword struct {
	Type  string `xml:"TYPE,attr"`
	Value string `xml:",chardata"`
}

// DBPoolConfig holds database connection pooling settings.
type DBPoolConfig struct {
	MaxOpenConns int `xml:"MAX_OPEN_CONNS"`
	MaxIdleConns int `xml:"MAX_IDLE_CONNS"`
	// ConnMaxLifetime is in seconds.
	ConnMaxLifetime int `xml:"CONN_MAX_LIFETIME"`
}

// LoggingConfig controls the zap logger and its rotating file sink.
type LoggingConfig struct {
	Mode       string `xml:"MODE,attr"`
	File       string `xml:"FILE"`
	MaxSizeMB  int    `xml:"MAX_SIZE_MB"`
	MaxBackups int    `xml:"MAX_BACKUPS"`
	MaxAgeDays int    `xml:"MAX_AGE_DAYS"`
}

// CacheConfig sizes the assessment snapshot cache.
type CacheConfig struct {
	AssessmentSnapshots int `xml:"ASSESSMENT_SNAPSHOTS"`
}

// MetricsConfig toggles the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `xml:"ENABLED,attr"`
	Path    string `xml:"PATH"`
}

// Environment variables that override XML values.
const (
	EnvDBPassword = "MINDSET_DB_PASSWORD"
	EnvDBDSN      = "MINDSET_DB_DSN"
	EnvJWTSecret  = "MINDSET_JWT_SECRET"
	EnvLogMode    = "MINDSET_LOG_MODE"
)

// LoadConfig loads and parses the XML configuration from the given file.
// Values from a .env file next to the working directory, and from the process
// environment, take precedence over the XML.
func LoadConfig(xmlPath string) (*APIConfig, error) {
	once.Do(func() {
		cfg, loadErr = Parse(xmlPath)
	})
	return cfg, loadErr
}

// GetConfig returns the loaded configuration.
func GetConfig() *APIConfig {
	return cfg
}

// Parse reads xmlPath without touching the process-wide singleton.
func Parse(xmlPath string) (*APIConfig, error) {
	f, err := os.Open(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Decode(data)
}

// Decode parses raw XML, applies env overrides and defaults, then validates.
func Decode(data []byte) (*APIConfig, error) {
	var c APIConfig
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	c.applyEnv()
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *APIConfig) applyEnv() {
	if v := os.Getenv(EnvDBPassword); v != "" {
		c.DB.Password.Value = v
	}
	if v := os.Getenv(EnvDBDSN); v != "" {
		c.DB.DSN = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Authentication.TokenSecret = v
	}
	if v := os.Getenv(EnvLogMode); v != "" {
		c.Logging.Mode = v
	}
}

func (c *APIConfig) applyDefaults() {
	if c.Context.Host == "" {
		c.Context.Host = "0.0.0.0"
	}
	if c.Context.Port == 0 {
		c.Context.Port = 8080
	}
	if c.Context.TimeZone == "" {
		c.Context.TimeZone = "UTC"
	}
	if c.Authentication.TokenTTL == 0 {
		c.Authentication.TokenTTL = 60
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "postgres"
	}
	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}
	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}
	if c.DB.Names.Mindset == "" {
		c.DB.Names.Mindset = "mindset"
	}
	if c.Logging.Mode == "" {
		c.Logging.Mode = "dev"
	}
	if c.Cache.AssessmentSnapshots <= 0 {
		c.Cache.AssessmentSnapshots = 64
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate rejects configurations the server cannot start with.
func (c *APIConfig) Validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported DB driver %q", c.DB.Driver)
	}
	if strings.TrimSpace(c.Authentication.TokenSecret) == "" {
		return fmt.Errorf("config: AUTHENTICATION/TOKEN_SECRET or %s is required", EnvJWTSecret)
	}
	if c.Context.Port < 0 || c.Context.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Context.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Context.Host, c.Context.Port)
}
