package speech

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

type speechBody struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

type recordingPlayer struct {
	path  string
	audio []byte
}

func (p *recordingPlayer) Play(_ context.Context, path string) error {
	p.path = path
	data, err := os.ReadFile(path)
	p.audio = data
	return err
}

func TestOpenAITTSSpeak(t *testing.T) {
	var got speechBody
	var auth, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer srv.Close()

	player := &recordingPlayer{}
	tts := NewOpenAITTS("sk-test", "tts-1", "onyx", srv.Client(), player)
	tts.BaseURL = srv.URL + "/v1"
	tts.CacheDir = t.TempDir()

	if err := tts.Speak(context.Background(), "The fan is on."); err != nil {
		t.Fatalf("Speak() error = %v", err)
	}

	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	if path != "/v1/audio/speech" {
		t.Errorf("path = %q", path)
	}
	if got.Model != "tts-1" || got.Voice != "onyx" || got.Input != "The fan is on." || got.ResponseFormat != "mp3" {
		t.Errorf("request = %+v", got)
	}
	if string(player.audio) != "ID3fake-mp3" {
		t.Errorf("played audio = %q", player.audio)
	}
	if _, err := os.Stat(player.path); !os.IsNotExist(err) {
		t.Errorf("temp audio file %s not removed", player.path)
	}
}

func TestOpenAITTSErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid voice"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		key     string
		wantErr string
	}{
		{"missing key", "", "no OpenAI API key"},
		{"http status", "sk-test", "status 400: invalid voice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tts := NewOpenAITTS(tt.key, "tts-1", "nobody", srv.Client(), nil)
			tts.BaseURL = srv.URL
			_, err := tts.Synthesize(context.Background(), "hi")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCommandPlayer(t *testing.T) {
	if _, err := NewCommandPlayer(nil); err == nil {
		t.Error("expected error for empty command")
	}
	if _, err := NewCommandPlayer([]string{"definitely-not-a-player-xyz"}); err == nil {
		t.Error("expected error for missing binary")
	}
}
