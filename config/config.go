package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	domainerrors "accounts/internal/domain/errors"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultPort               = 5000
	defaultMaxRequestBodySize = "100KB"
	defaultTokenTTL           = time.Hour
	defaultBcryptCost         = 10
	defaultStoreTimeout       = 5 * time.Second
	defaultMongoDatabase      = "accounts"
)

// Store drivers accepted by store.driver.
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Pub/Sub providers for account events. An empty provider disables publishing.
const (
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// ErrSigningKeyMissing is returned by Validate when no token signing secret is configured. It is the
// same value the token service reports, so errors.Is matches either source.
var ErrSigningKeyMissing = domainerrors.ErrSigningKeyMissing

// envAliases maps bare environment variable names onto config keys.
var envAliases = map[string]string{
	"port": "http.port",
}

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	JWT JWTConfig `json:"jwt" yaml:"jwt"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	Store StoreConfig `json:"store" yaml:"store"`

	Mongo *MongoConfig `json:"mongo" yaml:"mongo"`

	Postgres *PostgresConfig `json:"postgres" yaml:"postgres"`

	// PubSub configuration for account event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`
}

// JWTConfig holds the token signing secret and lifetime.
type JWTConfig struct {
	Secret string        `json:"secret" yaml:"secret"`
	TTL    time.Duration `json:"ttl" yaml:"ttl"`
	Issuer string        `json:"issuer" yaml:"issuer"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	BcryptCost int `json:"bcryptCost" yaml:"bcryptCost"`
}

// StoreConfig selects the account store backend.
type StoreConfig struct {
	Driver string `json:"driver" yaml:"driver"`

	// Timeout bounds every individual store call made while serving a request
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// MongoConfig configures the MongoDB account store.
type MongoConfig struct {
	URI      string `json:"uri" yaml:"uri"`
	Database string `json:"database" yaml:"database"`
}

// PostgresConfig configures the PostgreSQL account store.
type PostgresConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn"`
	AutoMigrate     bool          `json:"autoMigrate" yaml:"autoMigrate"`
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Example: JWT_SECRET -> jwt.secret, MONGO_URI -> mongo.uri
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

// New loads .env (when present), config.yaml and environment overrides, applies defaults and
// validates the result. A missing signing secret fails here so the process never starts without one.
func New() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyDefaults fills zero values with the service defaults.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = defaultPort
	}
	if strings.TrimSpace(c.HTTP.MaxRequestBodySize) == "" {
		c.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if c.JWT.TTL == 0 {
		c.JWT.TTL = defaultTokenTTL
	}
	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = defaultBcryptCost
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreDriverMongo
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = defaultStoreTimeout
	}
	if c.Mongo != nil && c.Mongo.Database == "" {
		c.Mongo.Database = defaultMongoDatabase
	}
}

// Validate reports configuration that must stop the process from starting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return ErrSigningKeyMissing.WrapMessage("jwt secret must be provided")
	}
	if c.JWT.TTL < 0 {
		return errors.Errorf("jwt ttl must be positive, got %s", c.JWT.TTL)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return errors.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Store.Timeout < 0 {
		return errors.Errorf("store timeout must be positive, got %s", c.Store.Timeout)
	}

	switch c.Store.Driver {
	case StoreDriverMongo:
		if c.Mongo == nil || strings.TrimSpace(c.Mongo.URI) == "" {
			return errors.New("mongo uri is required for the mongo store")
		}
	case StoreDriverPostgres:
		if c.Postgres == nil || strings.TrimSpace(c.Postgres.DSN) == "" {
			return errors.New("postgres dsn is required for the postgres store")
		}
		if c.Postgres.AutoMigrate && !isPostgresURL(c.Postgres.DSN) {
			return errors.New("postgres dsn must be a postgres:// or postgresql:// URL when autoMigrate is enabled")
		}
	case StoreDriverMemory:
	default:
		return errors.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	return nil
}

// isPostgresURL reports whether dsn is in URL form. Migrations need it; key/value DSNs only open gorm.
func isPostgresURL(dsn string) bool {
	dsn = strings.TrimSpace(dsn)

	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "load .env failed")
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	if alias, ok := envAliases[strings.ToLower(rawKey)]; ok {
		return alias
	}

	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
