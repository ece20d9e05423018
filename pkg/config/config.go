package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const DefaultServerPort = 3000

// envPrefix prefixes every environment variable read by LoadServeConfig.
const envPrefix = "IMGANALYSIS"

// Serve is the configuration of the local HTTP server that hosts the upload,
// analysis and history handlers.
type Serve struct {
	Port int `toml:"port" json:"port" mapstructure:"port" flag:"port" validate:"min=1,max=65535"`

	// Bucket images are uploaded to and analysed from
	BucketName string `toml:"bucket_name" json:"bucket_name" mapstructure:"bucket_name" flag:"bucket" validate:"required"`

	// Base URL of stored images, defaults to the bucket's S3 URL
	PublicURL string `toml:"public_url" json:"public_url" mapstructure:"public_url" flag:"public-url" validate:"omitempty,url"`

	// DynamoDB table for analysis records. Records are kept in a local
	// datastore under DataDir when empty.
	TableName string `toml:"table_name" json:"table_name" mapstructure:"table_name" flag:"table"`
	DataDir   string `toml:"data_dir" json:"data_dir" mapstructure:"data_dir" flag:"data-dir"`

	RekognitionRegion string `toml:"rekognition_region" json:"rekognition_region" mapstructure:"rekognition_region" flag:"rekognition-region"`
}

// LoadServeConfig handles the entire configuration loading process
// flags > environment variables > config file > defaults
// It takes care of:
// 1. Loading defaults specified in code
// 2. Loading environment variables and the config file if provided via --config
// 3. Applying CLI flag overrides to config state
// 4. Setting up the default data directory when no table is configured
// 5. Validating the final configuration
func LoadServeConfig(cCtx *cli.Context) (*Serve, error) {
	cfg, err := load(cCtx.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	fromCLI(cCtx, cfg)

	if err := setupDefaultDataDir(cfg); err != nil {
		return nil, fmt.Errorf("failed to set up data directory: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate performs validation on the configuration values and returns any errors.
func (cfg *Serve) Validate() error {
	var errs error
	if err := validateConfig(cfg); err != nil {
		errs = multierror.Append(errs, err)
	}

	if cfg.TableName == "" && cfg.DataDir == "" {
		errs = multierror.Append(errs, fmt.Errorf("either a table name or a data directory is required"))
	}

	return errs
}

// load reads the configuration from the environment and, when path is not
// empty, the config file at path. It preserves default values for fields not
// specified.
func load(path string) (*Serve, error) {
	v, err := setupViperWithDefaults()
	if err != nil {
		return nil, err
	}

	if path != "" {
		if stat, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file path does not exist: %s", path)
			}
			return nil, fmt.Errorf("failed to read config file at path %s: %w", path, err)
		} else if stat.IsDir() {
			return nil, fmt.Errorf("config file path points to a directory: %s", path)
		}

		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := new(Serve)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// newDefault creates a new configuration with pure default values.
func newDefault() *Serve {
	return &Serve{
		Port: DefaultServerPort,
	}
}

// fromCLI loads configuration values from CLI flags
func fromCLI(ctx *cli.Context, cfg *Serve) {
	if ctx.IsSet("port") {
		cfg.Port = ctx.Int("port")
	}
	if ctx.IsSet("bucket") {
		cfg.BucketName = ctx.String("bucket")
	}
	if ctx.IsSet("public-url") {
		cfg.PublicURL = ctx.String("public-url")
	}
	if ctx.IsSet("table") {
		cfg.TableName = ctx.String("table")
	}
	if ctx.IsSet("data-dir") {
		cfg.DataDir = ctx.String("data-dir")
	}
	if ctx.IsSet("rekognition-region") {
		cfg.RekognitionRegion = ctx.String("rekognition-region")
	}
}

// setupViperWithDefaults creates a new Viper instance with default values and environment bindings
func setupViperWithDefaults() (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	envMappings := map[string]string{
		"port":               "PORT",
		"bucket_name":        "BUCKET_NAME",
		"public_url":         "PUBLIC_URL",
		"table_name":         "TABLE_NAME",
		"data_dir":           "DATA_DIR",
		"rekognition_region": "REKOGNITION_REGION",
	}

	for key, envVar := range envMappings {
		if err := v.BindEnv(key, envPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", key, err)
		}
	}

	defaultCfg := newDefault()
	v.SetDefault("port", defaultCfg.Port)

	return v, nil
}

// setupDefaultDataDir configures the default data directory when records are
// not stored in a table and no directory was given.
func setupDefaultDataDir(cfg *Serve) error {
	if cfg.TableName != "" || cfg.DataDir != "" {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting user home directory: %w", err)
	}

	dataDir := filepath.Join(homeDir, ".imganalysis")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating default data directory %s: %w", dataDir, err)
	}
	cfg.DataDir = dataDir
	return nil
}
