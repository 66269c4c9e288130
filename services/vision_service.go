package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/Sebas202070/SmartDietAI/apperr"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

const visionPrompt = "Describe la comida principal en esta imagen con una etiqueta concisa (ej. 'Hamburguesa con papas', 'Ensalada de pollo')."

// VisionService labels the dominant dish in an image through the Gemini
// generateContent endpoint. Exactly one inference call per image, no
// retries; any failure here is terminal for the request.
type VisionService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type VisionOption func(*VisionService)

// WithVisionBaseURL points the client at a different host, used by tests.
func WithVisionBaseURL(u string) VisionOption {
	return func(s *VisionService) {
		s.baseURL = strings.TrimSuffix(u, "/")
	}
}

func NewVisionService(apiKey, model string, timeout time.Duration, opts ...VisionOption) *VisionService {
	s := &VisionService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// DescribeFood sends the image inline with the fixed instruction and returns
// the generated label, trimmed. A successful response with no usable text is
// ErrNoFoodDetected, not a transport failure.
func (s *VisionService) DescribeFood(ctx context.Context, image []byte, mimeType string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: visionPrompt},
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal gemini payload")
	}

	u := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", goerr.Wrap(err, "failed to create gemini request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(apperr.ErrVisionTransport, "failed to call gemini", goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(apperr.ErrVisionTransport, "failed to read gemini response", goerr.V("cause", err.Error()))
	}
	if resp.StatusCode != http.StatusOK {
		return "", goerr.Wrap(apperr.ErrVisionUpstream, "gemini API error",
			goerr.V("status", resp.StatusCode), goerr.V("body", string(body)))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", goerr.Wrap(apperr.ErrVisionUpstream, "failed to parse gemini JSON", goerr.V("body", string(body)))
	}

	var label string
	if len(gr.Candidates) > 0 && len(gr.Candidates[0].Content.Parts) > 0 {
		label = strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	}
	if label == "" {
		return "", goerr.Wrap(apperr.ErrNoFoodDetected, "gemini produced no label")
	}
	return label, nil
}
