package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode     string `mapstructure:"mode"`
	Dotenv   string `mapstructure:"dotenv"`
	Handlers struct {
		Prometheus struct {
			Port    string `mapstructure:"port"`
			Enabled bool   `mapstructure:"enabled"`
		} `mapstructure:"prometheus"`
	} `mapstructure:"handlers"`
	Repositories struct {
		Postgres PostgresConfig `mapstructure:"postgres"`
		Redis    RedisConfig    `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
		// GenerateRateLimit is generation requests per owner per minute; 0 disables it.
		GenerateRateLimit int `mapstructure:"generateRateLimit"`
	} `mapstructure:"server"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Places      PlacesConfig      `mapstructure:"places"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Password          string `mapstructure:"password"`
	Port              string `mapstructure:"port"`
	Username          string `mapstructure:"username"`
	DB                string `mapstructure:"db"`
	SSLMODE           string `mapstructure:"SSLMODE"`
	MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig is used to verify bearer tokens issued by the identity service.
type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"apiKey"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// BaseURL points the openai provider at a compatible endpoint.
	BaseURL string `mapstructure:"baseURL"`
}

type PlacesConfig struct {
	Provider             string        `mapstructure:"provider"`
	BaseURL              string        `mapstructure:"baseURL"`
	GoogleAPIKey         string        `mapstructure:"googleAPIKey"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxConcurrentQueries int           `mapstructure:"maxConcurrentQueries"`
	MinFoodCandidates    int           `mapstructure:"minFoodCandidates"`
	Cache                struct {
		Backend string        `mapstructure:"backend"`
		TTL     time.Duration `mapstructure:"ttl"`
	} `mapstructure:"cache"`
}

type PreferencesConfig struct {
	Source  string        `mapstructure:"source"`
	BaseURL string        `mapstructure:"baseURL"`
	Timeout time.Duration `mapstructure:"timeout"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")
	v.AddConfigPath("/usr/local/bin")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Secrets come from the environment, e.g. JWT_SECRETKEY or LLM_APIKEY.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&config)
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

func applyDefaults(c *Config) {
	if c.Server.HTTPPort == "" {
		c.Server.HTTPPort = "8000"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 60 * time.Second
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Model == "" && c.LLM.Provider == "gemini" {
		c.LLM.Model = "gemini-2.0-flash"
	}
	if c.Places.Provider == "" {
		c.Places.Provider = "proxy"
	}
	if c.Places.BaseURL == "" {
		c.Places.BaseURL = "http://localhost:4500"
	}
	if c.Places.MaxConcurrentQueries <= 0 {
		c.Places.MaxConcurrentQueries = 4
	}
	if c.Places.MinFoodCandidates <= 0 {
		c.Places.MinFoodCandidates = 5
	}
	if c.Places.Timeout == 0 {
		c.Places.Timeout = 10 * time.Second
	}
	if c.Places.Cache.Backend == "" {
		c.Places.Cache.Backend = "memory"
	}
	if c.Places.Cache.TTL == 0 {
		c.Places.Cache.TTL = 24 * time.Hour
	}
	if c.Preferences.Source == "" {
		c.Preferences.Source = "remote"
	}
	if c.Preferences.Timeout == 0 {
		c.Preferences.Timeout = 5 * time.Second
	}
}
