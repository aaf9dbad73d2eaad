// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"text/template"

	"github.com/ppetrou/thesis-publisher/internal/httputil"
	"github.com/ppetrou/thesis-publisher/pkg/types"
)

// analysisPromptTmpl is the prompt sent to the summarization API for each
// document. It embeds the PDF metadata and text and requests a strict JSON
// object so the response stays parseable.
var analysisPromptTmpl = template.Must(template.New("analysis").Parse(`Analyze this PDF content and metadata to extract the following information:

PDF Metadata:
- Title: {{.Title}}
- Author: {{.Author}}
- Subject: {{.Subject}}

PDF Text Content (first few pages):
{{.Text}}

Please provide:
1. TITLE: The main title of the document
2. AUTHOR: The primary author's name
3. KEYWORDS: 3-4 relevant keywords, comma-separated, WITH QUOTES around multi-word keywords
4. SUMMARY: A comprehensive markdown summary. The summary should be 500 words and should include three sections Overview, Key Contributions, Impact and Relevance.

Format your response as JSON:
{
    "title": "extracted title",
    "author": "extracted author",
    "keywords": "keyword1, \"multi word keyword\", keyword3, keyword4",
    "summary": "markdown formatted summary..."
}
`))

// systemPrompt steers the model away from citations and filler.
const systemPrompt = "You are addressing an expert audience. Do not include any references, citations or extra comments in any of the answers."

// perplexityAPIURL is the chat-completions endpoint. Package-level var for
// test substitution.
var perplexityAPIURL = "https://api.perplexity.ai/chat/completions"

const defaultModel = "sonar-pro"

// PerplexityBackend calls the Perplexity chat-completions API to analyze one
// document's text.
type PerplexityBackend struct {
	APIKey     string
	Model      string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

// Analyze sends one chat-completions request with the analysis prompt and
// parses the model's reply. Non-2xx statuses and unparseable replies return
// an AnalysisError; 401/403 returns an AuthError.
func (p *PerplexityBackend) Analyze(ctx context.Context, req Request) (types.AnalysisResult, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return types.AnalysisResult{}, &types.AnalysisError{Err: fmt.Errorf("rendering prompt: %w", err)}
	}

	content, err := p.complete(ctx, prompt, 1500)
	if err != nil {
		return types.AnalysisResult{}, err
	}

	result, err := ParseContent(content)
	if err != nil {
		return types.AnalysisResult{}, &types.AnalysisError{Err: err}
	}
	return result, nil
}

// Probe issues a minimal request to validate the API key before a run. It
// returns an AuthError when the service rejects the credentials; every
// other outcome (including transient failures) is left for per-document
// handling.
func (p *PerplexityBackend) Probe(ctx context.Context) error {
	_, err := p.complete(ctx, "Reply with OK.", 1)
	if authErr, ok := err.(*types.AuthError); ok {
		return authErr
	}
	return nil
}

// complete issues one chat-completions request and returns the first
// choice's message content.
func (p *PerplexityBackend) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model := p.Model
	if model == "" {
		model = defaultModel
	}

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &types.AnalysisError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, perplexityAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &types.AnalysisError{Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, httpReq, p.MaxRetries)
	if err != nil {
		return "", &types.AnalysisError{Err: fmt.Errorf("calling summarization API: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return "", &types.AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &types.AnalysisError{Err: fmt.Errorf("summarization API returned %d: %s", resp.StatusCode, string(body))}
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", &types.AnalysisError{Err: fmt.Errorf("decoding API response: %w", err)}
	}
	if len(cResp.Choices) == 0 {
		return "", &types.AnalysisError{Err: fmt.Errorf("summarization API returned no choices")}
	}

	return cResp.Choices[0].Message.Content, nil
}

// renderPrompt executes the analysis prompt template for one request.
func renderPrompt(req Request) (string, error) {
	data := struct {
		Title, Author, Subject, Text string
	}{
		Title:   metaOr(req.Metadata, "Title"),
		Author:  metaOr(req.Metadata, "Author"),
		Subject: metaOr(req.Metadata, "Subject"),
		Text:    req.Text,
	}

	var buf bytes.Buffer
	if err := analysisPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func metaOr(meta map[string]string, key string) string {
	if v, ok := meta[key]; ok {
		return v
	}
	return "Not available"
}
