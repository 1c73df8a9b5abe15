package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `json:"server"`
	Certificates CertificatesConfig `json:"certificates"`
	Storage      StorageConfig      `json:"storage"`
	Logging      LoggingConfig      `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host            string   `json:"host"`
	Port            int      `json:"port"`
	ReadTimeout     Duration `json:"read_timeout"`
	WriteTimeout    Duration `json:"write_timeout"`
	IdleTimeout     Duration `json:"idle_timeout"`
	ShutdownTimeout Duration `json:"shutdown_timeout"`
	AllowedOrigins  []string `json:"allowed_origins"`
}

// CertificatesConfig drives the rendering engine
type CertificatesConfig struct {
	VerificationHost string   `json:"verification_host"`
	ServicePrefix    string   `json:"service_prefix"`
	EmblemPath       string   `json:"emblem_path"`
	EmblemURL        string   `json:"emblem_url"`
	EmblemCacheTTL   Duration `json:"emblem_cache_ttl"`
	AssetTimeout     Duration `json:"asset_timeout"`
	QRTimeout        Duration `json:"qr_timeout"`
	QRSize           int      `json:"qr_size"`
}

// StorageConfig enables archiving of issued documents to S3
type StorageConfig struct {
	Enabled         bool     `json:"enabled"`
	Bucket          string   `json:"bucket"`
	Region          string   `json:"region"`
	Endpoint        string   `json:"endpoint"`
	Prefix          string   `json:"prefix"`
	AccessKeyID     string   `json:"access_key_id"`
	SecretAccessKey string   `json:"secret_access_key"`
	UsePathStyle    bool     `json:"use_path_style"`
	LinkExpiry      Duration `json:"link_expiry"`
}

// LoggingConfig
type LoggingConfig struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
}

// Duration accepts "5s" style strings or integer nanoseconds in JSON
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration %s", string(data))
	}
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Default returns the configuration used when no file or environment
// overrides are present
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			AllowedOrigins:  []string{"*"},
		},
		Certificates: CertificatesConfig{
			VerificationHost: "tamisemi.go.tz",
			ServicePrefix:    "CT",
			EmblemPath:       "assets/coat_of_arms.png",
			EmblemCacheTTL:   Duration(time.Hour),
			AssetTimeout:     Duration(5 * time.Second),
			QRTimeout:        Duration(5 * time.Second),
			QRSize:           256,
		},
		Storage: StorageConfig{
			Region:     "af-south-1",
			Prefix:     "certificates",
			LinkExpiry: Duration(15 * time.Minute),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("CERT_VERIFICATION_HOST"); host != "" {
		config.Certificates.VerificationHost = host
	}
	if prefix := os.Getenv("CERT_SERVICE_PREFIX"); prefix != "" {
		config.Certificates.ServicePrefix = prefix
	}
	if path := os.Getenv("CERT_EMBLEM_PATH"); path != "" {
		config.Certificates.EmblemPath = path
	}
	if url := os.Getenv("CERT_EMBLEM_URL"); url != "" {
		config.Certificates.EmblemURL = url
	}
	if size := os.Getenv("CERT_QR_SIZE"); size != "" {
		if s, err := strconv.Atoi(size); err == nil {
			config.Certificates.QRSize = s
		}
	}
	if timeout := os.Getenv("CERT_QR_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Certificates.QRTimeout = Duration(d)
		}
	}
	if timeout := os.Getenv("CERT_ASSET_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Certificates.AssetTimeout = Duration(d)
		}
	}

	if enabled := os.Getenv("STORAGE_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Storage.Enabled = b
		}
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Storage.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		config.Storage.Endpoint = endpoint
		config.Storage.UsePathStyle = true
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		config.Storage.AccessKeyID = key
	}
	if secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); secret != "" {
		config.Storage.SecretAccessKey = secret
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Certificates.VerificationHost == "" {
		return fmt.Errorf("certificates.verification_host is required")
	}
	if c.Storage.Enabled && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when storage is enabled")
	}
	return nil
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
