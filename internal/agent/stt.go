package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"health-triage/internal/platform/breaker"
)

type STTClient interface {
	Transcribe(ctx context.Context, audioData []byte) (string, error)
}

// whisperClient posts audio to a self-hosted Whisper transcription service.
type whisperClient struct {
	url        string
	httpClient *http.Client
	breaker    *breaker.Breaker
}

func NewWhisperClient(url string) STTClient {
	return &whisperClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		breaker: breaker.New("stt", breaker.Config{}),
	}
}

type sttResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (c *whisperClient) Transcribe(ctx context.Context, audioData []byte) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audioData); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	payload := body.Bytes()

	var result sttResponse
	err = c.breaker.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("STT API error: %s - %s", resp.Status, string(respBody))
		}
		return json.NewDecoder(resp.Body).Decode(&result)
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	return result.Text, nil
}
