package openai

import (
	"context"
	"fmt"
	"io"
)

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Speech renders text to a WAV payload using the given TTS model and voice.
func (c *Client) Speech(ctx context.Context, model, voice, text string) ([]byte, error) {
	resp, err := c.post(ctx, "/audio/speech", speechRequest{
		Model:          model,
		Input:          text,
		Voice:          voice,
		ResponseFormat: "wav",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: /audio/speech: read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("openai: /audio/speech: empty audio payload")
	}
	return data, nil
}
