package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"olilab/models"
)

const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	MsgNotConfigured = "Error: GEMINI_API_KEY is not configured. Please set the GEMINI_API_KEY environment variable to use this feature."
	MsgFailed        = "An error occurred while generating the report. Please check the server logs for details."
)

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Gemini 调用 generateContent 生成库存报告。任何失败都只返回说明文字，不向上抛错。
type Gemini struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
	Log     zerolog.Logger
}

func NewGemini(apiKey, model string, log zerolog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 60 * time.Second},
		Log:     log,
	}
}

func (g *Gemini) GenerateReport(ctx context.Context, items []models.Item, logs []models.LogEntry, users []models.User) string {
	if strings.TrimSpace(g.APIKey) == "" {
		return MsgNotConfigured
	}
	prompt, err := buildPrompt(items, logs, users)
	if err != nil {
		g.Log.Error().Err(err).Msg("build report prompt")
		return MsgFailed
	}
	text, err := g.generate(ctx, prompt)
	if err != nil {
		g.Log.Error().Err(err).Msg("generate report")
		return MsgFailed
	}
	return text
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", strings.TrimRight(g.BaseURL, "/"), g.Model, g.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var out strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	// 模型有时会把 HTML 包在 ``` 代码块里
	text := strings.TrimSpace(out.String())
	text = strings.TrimPrefix(text, "```html")
	text = strings.Trim(text, "`")
	return strings.TrimSpace(text), nil
}
