package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the runtime configuration shared by the binaries. Values come
// from flags, CATALOG_* environment variables and defaults, in that order.
type Config struct {
	Input      string `mapstructure:"input"`
	Output     string `mapstructure:"output"`
	LogFile    string `mapstructure:"log"`
	Format     string `mapstructure:"format" validate:"oneof=grouped json jsonl lines ndjson"`
	Collection string `mapstructure:"collection" validate:"required"`
	Debug      bool   `mapstructure:"debug"`

	DatabaseURL string      `mapstructure:"database-url"`
	Neo4j       Neo4jConfig `mapstructure:"neo4j"`

	Port     string         `mapstructure:"port" validate:"required,numeric"`
	S3       S3Config       `mapstructure:"s3"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type Neo4jConfig struct {
	URL      string `mapstructure:"url"`
	User     string `mapstructure:"user" validate:"required_with=URL"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	Bucket    string `mapstructure:"bucket"`
}

// Enabled reports whether a bucket is configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type RabbitMQConfig struct {
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
}

// URL returns the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Password, c.Host, c.Port)
}

var defaults = map[string]any{
	"input":        "",
	"output":       "",
	"log":          "",
	"format":       "grouped",
	"collection":   "HCLE",
	"debug":        false,
	"database-url": "",
	"port":         "8080",

	"neo4j.url":      "",
	"neo4j.user":     "",
	"neo4j.password": "",
	"neo4j.database": "",

	"s3.endpoint":   "",
	"s3.region":     "us-east-1",
	"s3.access-key": "",
	"s3.secret-key": "",
	"s3.bucket":     "",

	"rabbitmq.user":     "guest",
	"rabbitmq.password": "guest",
	"rabbitmq.host":     "",
	"rabbitmq.port":     "5672",
}

// legacyEnv lists unprefixed variables that are still honored.
var legacyEnv = map[string][]string{
	"database-url":      {"DATABASE_URL"},
	"port":              {"PORT"},
	"s3.endpoint":       {"AWS_ENDPOINT"},
	"s3.region":         {"AWS_REGION"},
	"s3.access-key":     {"AWS_ACCESS_KEY"},
	"s3.secret-key":     {"AWS_SECRET_KEY"},
	"s3.bucket":         {"AWS_BUCKET"},
	"rabbitmq.user":     {"RABBITMQ_USER"},
	"rabbitmq.password": {"RABBITMQ_PASSWORD"},
	"rabbitmq.host":     {"RABBITMQ_HOST"},
	"rabbitmq.port":     {"RABBITMQ_PORT"},
}

// flagKeys maps flag names to nested configuration keys.
var flagKeys = map[string]string{
	"neo4j-url":      "neo4j.url",
	"neo4j-user":     "neo4j.user",
	"neo4j-password": "neo4j.password",
	"neo4j-database": "neo4j.database",
	"s3-bucket":      "s3.bucket",
}

// New returns a viper instance with defaults and environment bindings. If
// flags is not nil its flags override both.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, names := range legacyEnv {
		envKey := "CATALOG_" + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
		if err := v.BindEnv(append([]string{key, envKey}, names...)...); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			key := f.Name
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
			}
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}
	return v, nil
}

// Load builds and validates the configuration.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v, err := New(flags)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration with its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Enabled reports whether a broker host is configured.
func (c RabbitMQConfig) Enabled() bool {
	return c.Host != ""
}
