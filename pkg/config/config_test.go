package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.APIBase != "https://api.openai.com/v1" {
		t.Errorf("api base = %q", cfg.OpenAI.APIBase)
	}
	if cfg.OpenAI.Model != "gpt-3.5-turbo" || cfg.OpenAI.EmbedModel != "text-embedding-ada-002" {
		t.Errorf("model defaults wrong: %+v", cfg.OpenAI)
	}
	if cfg.OpenAI.EmbedDims != 1536 {
		t.Errorf("embed dims = %d, want 1536", cfg.OpenAI.EmbedDims)
	}
	if cfg.Qdrant.Addr != "localhost:6334" || cfg.Qdrant.Collection != "knowledge_base" {
		t.Errorf("qdrant defaults wrong: %+v", cfg.Qdrant)
	}
	if cfg.Chat.MaxHistoryTurns != 10 || cfg.Chat.TopK != 3 {
		t.Errorf("chat defaults wrong: %+v", cfg.Chat)
	}
	if cfg.Speech.Model != "tts-1" || cfg.Speech.Voice != "alloy" {
		t.Errorf("speech defaults wrong: %+v", cfg.Speech)
	}
	if cfg.Server.Port != 8080 || cfg.Server.CORSOrigin != "*" {
		t.Errorf("server defaults wrong: %+v", cfg.Server)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("MAX_HISTORY_TURNS", "4")
	t.Setenv("TOP_K_RESULTS", "7")
	t.Setenv("QDRANT_URL", "qdrant.internal:6334")
	t.Setenv("PORT", "9090")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.APIKey != "sk-test" || cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("openai overrides not applied: %+v", cfg.OpenAI)
	}
	if cfg.Chat.MaxHistoryTurns != 4 || cfg.Chat.TopK != 7 {
		t.Errorf("chat overrides not applied: %+v", cfg.Chat)
	}
	if cfg.Qdrant.Addr != "qdrant.internal:6334" {
		t.Errorf("qdrant addr = %q", cfg.Qdrant.Addr)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
}

func TestLoad_DotenvFileThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "OPENAI_MODEL=from-file\nTTS_VOICE=nova\n"
	if err := os.WriteFile(envFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_MODEL", "from-env")

	cfg, err := LoadFile(envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenAI.Model != "from-env" {
		t.Errorf("environment should override the file, got %q", cfg.OpenAI.Model)
	}
	if cfg.Speech.Voice != "nova" {
		t.Errorf("file-only key not loaded, voice = %q", cfg.Speech.Voice)
	}
}

func TestValidate_RequireCredential(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.OpenAI.APIKey = ""

	if err := cfg.Validate(false); err != nil {
		t.Errorf("CLI mode tolerates a missing key, got %v", err)
	}
	err = cfg.Validate(true)
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("server mode should require the key, got %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Server.Port = -1
	cfg.Chat.MaxHistoryTurns = 0
	cfg.Chat.TopK = -3

	err := cfg.Validate(false)
	if err == nil {
		t.Fatal("invalid config should not validate")
	}
	for _, want := range []string{"PORT", "MAX_HISTORY_TURNS", "TOP_K_RESULTS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s, got %v", want, err)
		}
	}
}
