package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type ScraperConfig struct {
	UserAgent       string `yaml:"userAgent"`
	TimeoutMs       int    `yaml:"timeoutMs"`
	MaxItems        int    `yaml:"maxItems"`
	RankingMaxItems int    `yaml:"rankingMaxItems"`
}

type RobotsConfig struct {
	Respect bool `yaml:"respect"`
}

type CacheConfig struct {
	RedisURL   string `yaml:"redisUrl"`
	TTLSeconds int    `yaml:"ttlSeconds"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseURL"`
	Model   string `yaml:"model"`
}

type LLMConfig struct {
	TimeoutMs int          `yaml:"timeoutMs"`
	OpenAI    OpenAIConfig `yaml:"openai"`
	Gemini    GeminiConfig `yaml:"gemini"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Scraper ScraperConfig `yaml:"scraper"`
	Robots  RobotsConfig  `yaml:"robots"`
	Cache   CacheConfig   `yaml:"cache"`
	LLM     LLMConfig     `yaml:"llm"`
}

// Default returns a configuration that works without a config file:
// local listener, browser-like user agent, bounded upstream timeouts,
// cache disabled.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Scraper: ScraperConfig{
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
			TimeoutMs:       10000,
			MaxItems:        100,
			RankingMaxItems: 50,
		},
		Cache: CacheConfig{
			TTLSeconds: 120,
		},
		LLM: LLMConfig{
			TimeoutMs: 60000,
		},
	}
}

func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	cfg := Default()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	cfg.applyEnv()
	return cfg
}

// LoadOrDefault behaves like Load but falls back to defaults (plus env
// overrides) when the file does not exist.
func LoadOrDefault(path string) *Config {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.applyEnv()
		return cfg
	}
	return Load(path)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NEWSDESK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.LLM.OpenAI.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.Gemini.APIKey = v
	}
}
