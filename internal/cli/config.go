package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/tallyprint/pkg/errors"
)

// configEnv overrides the config file location.
const configEnv = "TALLYPRINT_CONFIG"

// Cache backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the optional config file. Every field has a usable default, so
// a missing file is not an error.
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Render RenderConfig `toml:"render"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr" validate:"required,hostname_port"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri" validate:"required,uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// RenderConfig holds defaults for the render command.
type RenderConfig struct {
	Formats  []string `toml:"formats" validate:"dive,oneof=svg png pdf json"`
	Scale    float64  `toml:"scale" validate:"gte=0"`
	Template string   `toml:"template"`
	Catalog  string   `toml:"catalog"`
}

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: backendFile,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
			Mongo:   MongoConfig{URI: "mongodb://localhost:27017", Database: appName, Collection: "cache"},
		},
	}
}

// configPath returns the config file location and whether it was chosen
// explicitly (flag or environment).
func configPath(flag string) (string, bool, error) {
	if flag != "" {
		return flag, true, nil
	}
	if env := os.Getenv(configEnv); env != "" {
		return env, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, err
	}
	return filepath.Join(dir, appName, "config.toml"), false, nil
}

// loadConfig reads the config file over the defaults. An implicit config
// file that does not exist yields the defaults. Relative template and
// catalog paths resolve against the config file's directory.
func loadConfig(flag string) (*Config, error) {
	cfg := defaultConfig()
	path, explicit, err := configPath(flag)
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String())
	}

	base := filepath.Dir(path)
	cfg.Render.Template = resolvePath(base, cfg.Render.Template)
	cfg.Render.Catalog = resolvePath(base, cfg.Render.Catalog)
	cfg.Cache.Dir = resolvePath(base, cfg.Cache.Dir)

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return filepath.Join(base, p)
}

var configValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

// validate checks the settings of the selected backend and the render
// defaults.
func (c *Config) validate() error {
	v := configValidator()
	targets := []any{&c.Render}
	switch c.Cache.Backend {
	case backendRedis:
		targets = append(targets, &c.Cache.Redis)
	case backendMongo:
		targets = append(targets, &c.Cache.Mongo)
	}
	if err := v.Var(c.Cache.Backend, "oneof=file redis mongo none"); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: must be one of file, redis, mongo, none (got %q)", c.Cache.Backend)
	}
	for _, t := range targets {
		if err := v.Struct(t); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid config")
		}
	}
	return nil
}
