package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/content-service/internal/config"
)

// ImageAPI calls an OpenAI style images/generations endpoint.
type ImageAPI struct {
	httpClient *http.Client
	url        string
	apiKey     string
	model      string
	size       string
}

type imageRequest struct {
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	NumImages int    `json:"num_images"`
	Size      string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Message string `json:"message"`
}

// NewImageAPI constructs the client. A nil httpClient uses http.DefaultClient.
func NewImageAPI(cfg config.ImageConfig, httpClient *http.Client) *ImageAPI {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ImageAPI{
		httpClient: httpClient,
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		size:       cfg.Size,
	}
}

// Generate requests one image and returns its URL.
func (a *ImageAPI) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(imageRequest{
		Model:     a.model,
		Prompt:    prompt,
		NumImages: 1,
		Size:      a.size,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload imageResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || len(payload.Data) == 0 || payload.Data[0].URL == "" {
		if payload.Message != "" {
			return "", errors.New(payload.Message)
		}
		if decodeErr != nil && resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return "", fmt.Errorf("Image generation failed: %w", decodeErr)
		}
		return "", errors.New("Image generation failed")
	}
	return payload.Data[0].URL, nil
}
