package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete library configuration
type Config struct {
	License LicenseConfig `yaml:"license" envconfig:"LICENSE"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LicenseConfig carries the licensing context supplied by the host product
type LicenseConfig struct {
	// ProductID is the product identifier registered with the licensing
	// service, eg "my-plugin".
	ProductID string `yaml:"product_id" envconfig:"PRODUCT_ID" validate:"required"`
	// APIEndpointBase is the base URL of the licensing service,
	// eg https://your-company.api.example.com. No trailing slash.
	APIEndpointBase string `yaml:"api_endpoint_base" envconfig:"API_ENDPOINT_BASE" validate:"required,url"`
	// PublicKeyPEM holds the PEM-encoded RSA or EC public key of the
	// licensing authority. If empty, PublicKeyFile is read instead.
	PublicKeyPEM  string `yaml:"public_key_pem" envconfig:"PUBLIC_KEY_PEM"`
	PublicKeyFile string `yaml:"public_key_file" envconfig:"PUBLIC_KEY_FILE"`
	// LicenseDir is the directory the license token is stored in. Created
	// on demand.
	LicenseDir string `yaml:"license_dir" envconfig:"LICENSE_DIR" validate:"required"`

	Thresholds ValidationThresholds `yaml:"thresholds" envconfig:"THRESHOLDS"`
}

// ValidationThresholds controls online revalidation cadence
type ValidationThresholds struct {
	// AllowedDaysWithoutValidation is the window within which online
	// validation is not even attempted.
	AllowedDaysWithoutValidation int `yaml:"allowed_days_without_validation" envconfig:"ALLOWED_DAYS_WITHOUT_VALIDATION" default:"2" validate:"min=0"`
	// GracePeriodDays is the window within which a license stays usable
	// despite failed online revalidation.
	GracePeriodDays int `yaml:"grace_period_days" envconfig:"GRACE_PERIOD_DAYS" default:"30" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/licensekit.log"`
}

// Load loads configuration from environment variables, applying defaults
// for anything unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("LICENSEKIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a YAML file, then lets environment
// variables override it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := envconfig.Process("LICENSEKIT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for completeness
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.License.PublicKeyPEM == "" && c.License.PublicKeyFile == "" {
		return fmt.Errorf("invalid configuration: one of public_key_pem or public_key_file is required")
	}
	return nil
}

// PublicKey returns the PEM-encoded public key, reading PublicKeyFile if no
// inline key was provided.
func (c *LicenseConfig) PublicKey() (string, error) {
	if c.PublicKeyPEM != "" {
		return c.PublicKeyPEM, nil
	}
	data, err := os.ReadFile(c.PublicKeyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read public key file: %w", err)
	}
	return string(data), nil
}

// TokenPath returns the resolved path of the managed license token file.
func (c *LicenseConfig) TokenPath() string {
	return filepath.Join(c.LicenseDir, TokenFileName)
}
