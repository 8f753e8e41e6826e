package app

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verityqa/verity-backend/internal/pkg/logger"
	"github.com/verityqa/verity-backend/internal/utils"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	TokenTTL       time.Duration
	AllowedOrigins []string
	ServiceName    string
	Environment    string
	Version        string
}

// fileConfig mirrors the optional YAML file named by CONFIG_PATH.
// Values present in the file override environment defaults.
type fileConfig struct {
	Port           string   `yaml:"port"`
	JWTSecretKey   string   `yaml:"jwt_secret_key"`
	TokenTTL       int      `yaml:"token_ttl_seconds"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	ServiceName    string   `yaml:"service_name"`
	Environment    string   `yaml:"environment"`
	Version        string   `yaml:"version"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:         utils.GetEnv("PORT", "8080", log),
		JWTSecretKey: utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		TokenTTL:     time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		ServiceName:  utils.GetEnv("SERVICE_NAME", "verity-backend", log),
		Environment:  utils.GetEnv("ENVIRONMENT", "development", log),
		Version:      utils.GetEnv("VERSION", "dev", log),
	}
	if origins := utils.GetEnv("ALLOWED_ORIGINS", "", log); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if path := utils.GetEnv("CONFIG_PATH", "", log); path != "" {
		applyConfigFile(&cfg, path, log)
	}
	return cfg
}

func applyConfigFile(cfg *Config, path string, log *logger.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Could not read config file, keeping env values", "path", path, "error", err)
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		log.Warn("Could not parse config file, keeping env values", "path", path, "error", err)
		return
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if fc.JWTSecretKey != "" {
		cfg.JWTSecretKey = fc.JWTSecretKey
	}
	if fc.TokenTTL > 0 {
		cfg.TokenTTL = time.Duration(fc.TokenTTL) * time.Second
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.ServiceName != "" {
		cfg.ServiceName = fc.ServiceName
	}
	if fc.Environment != "" {
		cfg.Environment = fc.Environment
	}
	if fc.Version != "" {
		cfg.Version = fc.Version
	}
	log.Info("Config file applied", "path", path)
}
