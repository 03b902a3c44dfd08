// Package config loads the typed process configuration from a .env file
// and the environment (environment wins), applies explicit defaults, and
// validates once at startup.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	OpenAI OpenAIConfig
	Qdrant QdrantConfig
	Chat   ChatConfig
	Speech SpeechConfig
	Paths  PathsConfig
	Server ServerConfig
	NATS   NATSConfig
}

type OpenAIConfig struct {
	APIKey     string
	APIBase    string
	Model      string
	EmbedModel string
	EmbedDims  int
}

type QdrantConfig struct {
	Addr       string
	Collection string
}

type ChatConfig struct {
	MaxHistoryTurns int
	TopK            int
}

type SpeechConfig struct {
	Model string
	Voice string
}

type PathsConfig struct {
	AudioDir string
	LogsDir  string
	FAQFile  string
}

type ServerConfig struct {
	Port         int
	CORSOrigin   string
	RateLimitRPS float64
}

type NATSConfig struct {
	URL string
}

// Load reads .env (if present) then the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path, for tests.
func LoadFile(envFile string) (*Config, error) {
	k := koanf.New(".")

	// Missing .env is fine; the environment alone may be complete.
	_ = k.Load(file.Provider(envFile), dotenv.Parser())

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: loading env vars: %w", err)
	}

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:     k.String("openai.api.key"),
			APIBase:    k.String("openai.api.base"),
			Model:      k.String("openai.model"),
			EmbedModel: k.String("openai.embedding.model"),
			EmbedDims:  k.Int("embedding.dims"),
		},
		Qdrant: QdrantConfig{
			Addr:       k.String("qdrant.url"),
			Collection: k.String("qdrant.collection"),
		},
		Chat: ChatConfig{
			MaxHistoryTurns: k.Int("max.history.turns"),
			TopK:            k.Int("top.k.results"),
		},
		Speech: SpeechConfig{
			Model: k.String("tts.model"),
			Voice: k.String("tts.voice"),
		},
		Paths: PathsConfig{
			AudioDir: k.String("audio.output.path"),
			LogsDir:  k.String("conversation.logs.path"),
			FAQFile:  k.String("data.path"),
		},
		Server: ServerConfig{
			Port:         k.Int("port"),
			CORSOrigin:   k.String("cors.origin"),
			RateLimitRPS: k.Float64("rate.limit.rps"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.OpenAI.APIBase == "" {
		c.OpenAI.APIBase = "https://api.openai.com/v1"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.EmbedModel == "" {
		c.OpenAI.EmbedModel = "text-embedding-ada-002"
	}
	if c.OpenAI.EmbedDims == 0 {
		c.OpenAI.EmbedDims = 1536
	}
	if c.Qdrant.Addr == "" {
		c.Qdrant.Addr = "localhost:6334"
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "knowledge_base"
	}
	if c.Chat.MaxHistoryTurns == 0 {
		c.Chat.MaxHistoryTurns = 10
	}
	if c.Chat.TopK == 0 {
		c.Chat.TopK = 3
	}
	if c.Speech.Model == "" {
		c.Speech.Model = "tts-1"
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = "alloy"
	}
	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = "./audio_responses"
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "./conversation_logs"
	}
	if c.Paths.FAQFile == "" {
		c.Paths.FAQFile = "./data/faqs.json"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Server.RateLimitRPS == 0 {
		c.Server.RateLimitRPS = 5
	}
}
