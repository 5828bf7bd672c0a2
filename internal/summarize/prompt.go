// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"

	"github.com/pdiddy/ssrn-daily/pkg/types"
)

// summaryPromptTmpl is the prompt sent to the Claude API for each paper.
// It demands a JSON object carrying exactly the eight schema fields.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are a research paper summarization system for business school research. Read the paper information below and produce a structured summary.

Respond with a JSON object containing exactly these string fields, all required:
- tldr: a too long; didn't read summary of the paper
- research_question: the research question of this paper
- motivation: the motivation of this paper
- theoretical_framework: key theories of this paper
- method: the method of this paper
- findings: the results of this paper
- theory_contributions: the theoretical contributions of this paper
- practical_contributions: the practical contributions of this paper

Do not include any text outside the JSON object.

Paper:
Title: {{.Title}}
{{if .Authors}}Authors: {{.Authors}}
{{end}}{{if .Keywords}}Keywords: {{.Keywords}}
{{end}}Abstract:
{{.Abstract}}
`))

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

// ClaudeBackend calls the Claude API to fill the summary schema for one paper.
type ClaudeBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Summarize calls the Claude API with the summary prompt for one paper.
func (c *ClaudeBackend) Summarize(ctx context.Context, paper types.Paper) (types.PaperSummary, error) {
	prompt, err := renderPrompt(paper)
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := claudeRequest{
		Model:     c.Model,
		MaxTokens: 2048,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.PaperSummary{}, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return types.PaperSummary{}, fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return types.PaperSummary{}, fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type != "text" {
			continue
		}
		var s types.PaperSummary
		if err := json.Unmarshal([]byte(block.Text), &s); err != nil {
			return types.PaperSummary{}, fmt.Errorf("parsing summary JSON: %w", err)
		}
		return s, nil
	}

	return types.PaperSummary{}, fmt.Errorf("no text content in Claude API response")
}

// promptInput flattens a Paper for the prompt template.
type promptInput struct {
	Title    string
	Authors  string
	Keywords string
	Abstract string
}

// renderPrompt executes the summary prompt template for one paper.
// Detail fields win over listing fields when both are present.
func renderPrompt(paper types.Paper) (string, error) {
	in := promptInput{Title: paper.Title}

	if d := paper.Detail; d != nil {
		if d.Title != "" {
			in.Title = d.Title
		}
		in.Abstract = d.Abstract
		in.Keywords = d.Keywords

		var names []string
		for _, a := range d.Authors {
			names = append(names, strings.TrimSpace(a.FirstName+" "+a.LastName))
		}
		in.Authors = strings.Join(names, ", ")
	}

	var buf bytes.Buffer
	if err := summaryPromptTmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}
