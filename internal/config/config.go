package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultStaleMinutes    = 30
	defaultFetchConcurrent = 10
	defaultHTTPTimeoutSec  = 20
	defaultLogLevel        = "info"
)

const (
	defaultUserAgent  = "internlog/0.1"
	configFolderName  = "internlog"
	configFileName    = "config.toml"
	configPathEnvName = "XDG_CONFIG_HOME"
)

type Config struct {
	DBPath           string
	StaleAfter       time.Duration
	FetchConcurrency int
	HTTPTimeout      time.Duration
	UserAgent        string
	// AuditDangerous records a finding whenever raw input matches a danger
	// signature. Sanitizing happens either way.
	AuditDangerous bool
	LogLevel       string
	LogFile        string
}

func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	defaultDB := filepath.Join(home, ".local", "share", "internlog", "internlog.db")

	cfg := Config{
		DBPath:           defaultDB,
		StaleAfter:       defaultStaleMinutes * time.Minute,
		FetchConcurrency: defaultFetchConcurrent,
		HTTPTimeout:      defaultHTTPTimeoutSec * time.Second,
		UserAgent:        defaultUserAgent,
		AuditDangerous:   true,
		LogLevel:         defaultLogLevel,
	}

	configPath, hasConfig, err := findConfigPath(home)
	if err != nil {
		return Config{}, err
	}
	if hasConfig {
		fileCfg, err := loadFileConfig(configPath)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fileCfg)
	}

	applyEnvOverrides(&cfg)

	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = defaultFetchConcurrent
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleMinutes * time.Minute
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeoutSec * time.Second
	}
	return cfg, nil
}

type fileConfig struct {
	DBPath             *string `toml:"db_path"`
	StaleMinutes       *int    `toml:"stale_minutes"`
	FetchConcurrency   *int    `toml:"fetch_concurrency"`
	HTTPTimeoutSeconds *int    `toml:"http_timeout_seconds"`
	UserAgent          *string `toml:"user_agent"`
	AuditDangerous     *bool   `toml:"audit_dangerous"`
	LogLevel           *string `toml:"log_level"`
	LogFile            *string `toml:"log_file"`
}

func findConfigPath(home string) (string, bool, error) {
	candidates := make([]string, 0, 2)
	if xdgConfigHome := strings.TrimSpace(os.Getenv(configPathEnvName)); xdgConfigHome != "" {
		candidates = append(candidates, filepath.Join(xdgConfigHome, configFolderName, configFileName))
	}
	candidates = append(candidates, filepath.Join(home, ".config", configFolderName, configFileName))

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return "", false, fmt.Errorf("config path %q is a directory; expected a file", candidate)
			}
			return candidate, true, nil
		}
		if os.IsNotExist(err) {
			continue
		}
		return "", false, fmt.Errorf("failed to read config path %q: %w", candidate, err)
	}
	return "", false, nil
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		unknown := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		sort.Strings(unknown)
		return fileConfig{}, fmt.Errorf("invalid config file %q: unknown key(s): %s", path, strings.Join(unknown, ", "))
	}
	if err := validateFileConfig(path, cfg); err != nil {
		return fileConfig{}, err
	}
	return cfg, nil
}

func validateFileConfig(path string, cfg fileConfig) error {
	if cfg.DBPath != nil && strings.TrimSpace(*cfg.DBPath) == "" {
		return fmt.Errorf("invalid config file %q: db_path must be non-empty when provided", path)
	}
	if cfg.StaleMinutes != nil && *cfg.StaleMinutes <= 0 {
		return fmt.Errorf("invalid config file %q: stale_minutes must be > 0", path)
	}
	if cfg.FetchConcurrency != nil && *cfg.FetchConcurrency < 1 {
		return fmt.Errorf("invalid config file %q: fetch_concurrency must be >= 1", path)
	}
	if cfg.HTTPTimeoutSeconds != nil && *cfg.HTTPTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid config file %q: http_timeout_seconds must be > 0", path)
	}
	if cfg.LogLevel != nil && !validLogLevel(*cfg.LogLevel) {
		return fmt.Errorf("invalid config file %q: log_level must be one of debug|info|warn|error", path)
	}
	return nil
}

func validLogLevel(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

func applyFileConfig(cfg *Config, fileCfg fileConfig) {
	if fileCfg.DBPath != nil {
		cfg.DBPath = *fileCfg.DBPath
	}
	if fileCfg.StaleMinutes != nil {
		cfg.StaleAfter = time.Duration(*fileCfg.StaleMinutes) * time.Minute
	}
	if fileCfg.FetchConcurrency != nil {
		cfg.FetchConcurrency = *fileCfg.FetchConcurrency
	}
	if fileCfg.HTTPTimeoutSeconds != nil {
		cfg.HTTPTimeout = time.Duration(*fileCfg.HTTPTimeoutSeconds) * time.Second
	}
	if fileCfg.UserAgent != nil && strings.TrimSpace(*fileCfg.UserAgent) != "" {
		cfg.UserAgent = *fileCfg.UserAgent
	}
	if fileCfg.AuditDangerous != nil {
		cfg.AuditDangerous = *fileCfg.AuditDangerous
	}
	if fileCfg.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*fileCfg.LogLevel))
	}
	if fileCfg.LogFile != nil {
		cfg.LogFile = *fileCfg.LogFile
	}
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("INTERNLOG_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("INTERNLOG_STALE_MINUTES"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.StaleAfter = time.Duration(n) * time.Minute
		}
	}
	if v, ok := os.LookupEnv("INTERNLOG_FETCH_CONCURRENCY"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			cfg.FetchConcurrency = n
		}
	}
	if v, ok := os.LookupEnv("INTERNLOG_HTTP_TIMEOUT_SECONDS"); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPTimeout = time.Duration(n) * time.Second
		}
	}
	if v, ok := os.LookupEnv("INTERNLOG_USER_AGENT"); ok && v != "" {
		cfg.UserAgent = v
	}
	if v, ok := os.LookupEnv("INTERNLOG_AUDIT_DANGEROUS"); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AuditDangerous = b
		}
	}
	if v, ok := os.LookupEnv("INTERNLOG_LOG_LEVEL"); ok && validLogLevel(v) {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("INTERNLOG_LOG_FILE"); ok && v != "" {
		cfg.LogFile = v
	}
}
