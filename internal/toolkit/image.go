package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/campaignforge/internal/types"
)

const defaultImageModel = "stabilityai/stable-diffusion-xl-base-1.0"

// ImageGenerate generates images via the Hugging Face inference API.
type ImageGenerate struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewImageGenerate creates a new image generation tool. baseURL and
// model may be empty to use the Hugging Face defaults.
func NewImageGenerate(apiKey, baseURL, model string) *ImageGenerate {
	if baseURL == "" {
		baseURL = "https://api-inference.huggingface.co/models"
	}
	if model == "" {
		model = defaultImageModel
	}
	return &ImageGenerate{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (g *ImageGenerate) Kind() types.ToolKind { return types.ToolImageGenerate }

// inferenceRequest is the Hugging Face text-to-image request body.
type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters,omitempty"`
}

type inferenceParameters struct {
	Seed *int64 `json:"seed,omitempty"`
}

func (g *ImageGenerate) Invoke(ctx context.Context, input *types.ToolInput) (*types.ToolResult, error) {
	if input.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	model := input.Model
	if model == "" {
		model = g.model
	}

	body, err := json.Marshal(inferenceRequest{
		Inputs:     input.Prompt,
		Parameters: inferenceParameters{Seed: input.Seed},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API error (status %d): %s", resp.StatusCode, string(data))
	}

	return &types.ToolResult{
		Success:   true,
		ImageData: data,
		Provider:  "huggingface",
		Model:     model,
	}, nil
}
