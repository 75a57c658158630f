package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the base server configuration.
type Config struct {
	Host string
	Port string

	// DiscoveryTimeoutSec bounds the startup SSDP discovery window.
	DiscoveryTimeoutSec int
	SSDPPasses          int
	SSDPPassIntervalMs  int
	StaticDeviceIPs     []string

	// SonosTimeoutMs is the per-call SOAP timeout.
	SonosTimeoutMs int

	// AutoGroup joins all discovered speakers into one group at startup,
	// unless something is already playing.
	AutoGroup bool

	StaticDir string
	LogLevel  string
}

// fileConfig mirrors the optional zoneos.yaml overlay. Environment
// variables override anything set here.
type fileConfig struct {
	Host                string   `yaml:"host"`
	Port                string   `yaml:"port"`
	DiscoveryTimeoutSec int      `yaml:"discovery_timeout_sec"`
	SSDPPasses          int      `yaml:"ssdp_passes"`
	SSDPPassIntervalMs  int      `yaml:"ssdp_pass_interval_ms"`
	StaticDeviceIPs     []string `yaml:"static_device_ips"`
	SonosTimeoutMs      int      `yaml:"sonos_timeout_ms"`
	AutoGroup           *bool    `yaml:"auto_group"`
	StaticDir           string   `yaml:"static_dir"`
	LogLevel            string   `yaml:"log_level"`
}

// Load reads configuration from the optional YAML file named by
// ZONEOS_CONFIG (default ./zoneos.yaml if present), then applies
// environment variables on top with defaults.
func Load() (Config, error) {
	cfg := Config{
		Host:                "0.0.0.0",
		Port:                "8000",
		DiscoveryTimeoutSec: 5,
		SSDPPasses:          3,
		SSDPPassIntervalMs:  2000,
		StaticDeviceIPs:     []string{},
		SonosTimeoutMs:      5000,
		AutoGroup:           true,
		StaticDir:           "./static",
		LogLevel:            "INFO",
	}

	if err := applyFile(&cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)

	if cfg.DiscoveryTimeoutSec <= 0 {
		return Config{}, fmt.Errorf("discovery timeout must be positive, got %d", cfg.DiscoveryTimeoutSec)
	}
	if cfg.SonosTimeoutMs <= 0 {
		return Config{}, fmt.Errorf("sonos timeout must be positive, got %d", cfg.SonosTimeoutMs)
	}

	return cfg, nil
}

func applyFile(cfg *Config) error {
	path := os.Getenv("ZONEOS_CONFIG")
	explicit := path != ""
	if path == "" {
		path = "./zoneos.yaml"
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		if !explicit {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.Host != "" {
		cfg.Host = file.Host
	}
	if file.Port != "" {
		cfg.Port = file.Port
	}
	if file.DiscoveryTimeoutSec != 0 {
		cfg.DiscoveryTimeoutSec = file.DiscoveryTimeoutSec
	}
	if file.SSDPPasses != 0 {
		cfg.SSDPPasses = file.SSDPPasses
	}
	if file.SSDPPassIntervalMs != 0 {
		cfg.SSDPPassIntervalMs = file.SSDPPassIntervalMs
	}
	if len(file.StaticDeviceIPs) > 0 {
		cfg.StaticDeviceIPs = file.StaticDeviceIPs
	}
	if file.SonosTimeoutMs != 0 {
		cfg.SonosTimeoutMs = file.SonosTimeoutMs
	}
	if file.AutoGroup != nil {
		cfg.AutoGroup = *file.AutoGroup
	}
	if file.StaticDir != "" {
		cfg.StaticDir = file.StaticDir
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}

	return nil
}

func applyEnv(cfg *Config) {
	cfg.Host = envString("ZONEOS_HOST", cfg.Host)
	cfg.Port = envString("ZONEOS_PORT", cfg.Port)
	cfg.DiscoveryTimeoutSec = envInt("ZONEOS_DISCOVERY_TIMEOUT", cfg.DiscoveryTimeoutSec)
	cfg.SSDPPasses = envInt("ZONEOS_SSDP_PASSES", cfg.SSDPPasses)
	cfg.SSDPPassIntervalMs = envInt("ZONEOS_SSDP_PASS_INTERVAL_MS", cfg.SSDPPassIntervalMs)
	if ips := envCSV("ZONEOS_STATIC_DEVICE_IPS"); len(ips) > 0 {
		cfg.StaticDeviceIPs = ips
	}
	cfg.SonosTimeoutMs = envInt("ZONEOS_SONOS_TIMEOUT_MS", cfg.SonosTimeoutMs)
	cfg.AutoGroup = envBool("ZONEOS_AUTO_GROUP", cfg.AutoGroup)
	cfg.StaticDir = envString("ZONEOS_STATIC_DIR", cfg.StaticDir)
	cfg.LogLevel = strings.ToUpper(envString("ZONEOS_LOG_LEVEL", cfg.LogLevel))
}

func envString(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func envInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return strings.EqualFold(val, "true")
}

func envCSV(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
