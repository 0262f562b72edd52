package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
	EnvFile     string
}

// Load returns the merged configuration from an optional .env file, an
// optional YAML file, and environment variables.
func Load(opts LoaderOptions) (Config, error) {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return Config{}, err
	}

	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "prreview"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "PRREVIEW"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	bindWellKnownEnv(v)
	setDefaults(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return expandEnvVars(cfg), nil
}

// loadEnvFile loads a .env-style file into the process environment when
// one exists. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat env file %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// bindWellKnownEnv maps the conventional action environment variables
// onto config keys, so runs inside a workflow need no extra setup.
func bindWellKnownEnv(v *viper.Viper) {
	_ = v.BindEnv("provider.apiKey", "PRREVIEW_PROVIDER_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("provider.model", "PRREVIEW_PROVIDER_MODEL", "OPENAI_API_MODEL")
	_ = v.BindEnv("event.path", "PRREVIEW_EVENT_PATH", "GITHUB_EVENT_PATH")
	_ = v.BindEnv("exclude", "PRREVIEW_EXCLUDE", "INPUT_EXCLUDE")
	_ = v.BindEnv("action", "PRREVIEW_ACTION", "INPUT_ACTION")
}

// expandEnvVars expands ${VAR} and $VAR syntax in configuration strings.
func expandEnvVars(cfg Config) Config {
	cfg.Provider.APIKey = expandEnvString(cfg.Provider.APIKey)
	cfg.Provider.Model = expandEnvString(cfg.Provider.Model)
	cfg.Event.Path = expandEnvString(cfg.Event.Path)
	cfg.Exclude = expandEnvString(cfg.Exclude)
	cfg.HTTP.Timeout = expandEnvString(cfg.HTTP.Timeout)
	cfg.HTTP.InitialBackoff = expandEnvString(cfg.HTTP.InitialBackoff)
	cfg.HTTP.MaxBackoff = expandEnvString(cfg.HTTP.MaxBackoff)
	cfg.Logging.Level = expandEnvString(cfg.Logging.Level)
	return cfg
}

// expandEnvString replaces ${VAR} or $VAR with environment variable values.
func expandEnvString(s string) string {
	if s == "" {
		return s
	}

	re := regexp.MustCompile(`\$\{([A-Z_][A-Z0-9_]*)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re = regexp.MustCompile(`\$([A-Z_][A-Z0-9_]*)`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.name", ProviderOpenAI)
	v.SetDefault("provider.model", "gpt-4")
	v.SetDefault("action", "prreview")

	v.SetDefault("http.timeout", "60s")
	v.SetDefault("http.maxRetries", 3)
	v.SetDefault("http.initialBackoff", "2s")
	v.SetDefault("http.maxBackoff", "32s")

	v.SetDefault("logging.level", "info")
}
