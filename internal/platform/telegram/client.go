package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"health-triage/internal/platform/breaker"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API.
type Client struct {
	Token      string
	baseURL    string
	httpClient *http.Client
	breaker    *breaker.Breaker
}

type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		Token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		breaker: breaker.New("telegram", breaker.Config{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendMessageReq struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.Token, method)
}

// SendMessage sends plain text; no parse mode so user text needs no escaping.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	jsonBody, err := json.Marshal(sendMessageReq{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}
	return c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, "sendMessage", "application/json", bytes.NewReader(jsonBody))
	})
}

// SendDocument uploads fileData as a document attachment.
func (c *Client) SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	part, err := writer.CreateFormFile("document", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(fileData); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	payload := body.Bytes()
	return c.breaker.Do(ctx, func(ctx context.Context) error {
		return c.post(ctx, "sendDocument", writer.FormDataContentType(), bytes.NewReader(payload))
	})
}

func (c *Client) post(ctx context.Context, method, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Telegram puts the reason in the body.
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("telegram api returned status: %s, body: %s", resp.Status, string(bodyBytes))
	}
	return nil
}
