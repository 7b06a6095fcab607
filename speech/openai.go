package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"jarvis/config"
)

const openAIBaseURL = "https://api.openai.com/v1/"

// OpenAITTS synthesizes speech with the OpenAI audio endpoint and hands the
// resulting mp3 to a Player.
type OpenAITTS struct {
	APIKey   string
	Model    string
	Voice    string
	BaseURL  string
	CacheDir string

	client *http.Client
	player Player
}

func NewOpenAITTS(apiKey, model, voice string, client *http.Client, player Player) *OpenAITTS {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAITTS{
		APIKey:   apiKey,
		Model:    model,
		Voice:    voice,
		BaseURL:  openAIBaseURL,
		CacheDir: config.GetCacheDir(),
		client:   client,
		player:   player,
	}
}

// Synthesize returns the encoded audio for text.
func (o *OpenAITTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if o.APIKey == "" {
		return nil, fmt.Errorf("no OpenAI API key configured for speech")
	}

	client := openai.NewClient(
		option.WithBaseURL(o.BaseURL),
		option.WithAPIKey(o.APIKey),
		option.WithHTTPClient(o.client),
		option.WithMaxRetries(0),
	)
	resp, err := client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(o.Model),
		Voice:          openai.AudioSpeechNewParamsVoice(o.Voice),
		Input:          text,
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("speech request failed with status %d: %s", apiErr.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("speech endpoint returned no audio")
	}
	return audio, nil
}

// Speak synthesizes text, writes it to a temporary file and plays it.
func (o *OpenAITTS) Speak(ctx context.Context, text string) error {
	audio, err := o.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if o.player == nil {
		return nil
	}

	if err := config.EnsureDir(o.CacheDir); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	f, err := os.CreateTemp(o.CacheDir, "speech-*.mp3")
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(audio); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return o.player.Play(ctx, path)
}
