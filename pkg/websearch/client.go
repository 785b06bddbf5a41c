// Package websearch provides a client for the AI-backed citation search API
// (a Perplexity-style chat-completions endpoint with domain filtering). The
// API is untrusted: its responses may be malformed, fenced in markdown, or
// contain hallucinated URLs — callers must parse defensively.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar-pro"

	// MaxDomainFilter is the API's hard cap on domains per search request.
	MaxDomainFilter = 20
)

// Client performs citation searches against the AI search API.
type Client interface {
	// SearchCitations runs one domain-restricted search and returns the raw
	// completion text, expected (but not guaranteed) to contain a JSON array
	// of citation candidates.
	SearchCitations(ctx context.Context, req Request) (*Response, error)
}

// Request describes one search wave.
type Request struct {
	// Topic is the article headline or claim set being cited.
	Topic string
	// LanguageHint is a BCP 47 language code for preferred sources.
	LanguageHint string
	// DomainFilter restricts results to these domains. At most 20 entries;
	// longer slices are rejected, not truncated, so tier-partitioning bugs
	// surface early.
	DomainFilter []string
	// PromptContext carries citation opportunities extracted from the
	// article body, so results can target specific claims.
	PromptContext string
}

// Response is the raw search outcome.
type Response struct {
	Content string `json:"content"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// APIError is a non-2xx response from the search API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("websearch: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithTimeout bounds each search request. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a search API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatRequest struct {
	Model              string        `json:"model"`
	Messages           []chatMessage `json:"messages"`
	SearchDomainFilter []string      `json:"search_domain_filter,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

func (c *httpClient) SearchCitations(ctx context.Context, req Request) (*Response, error) {
	if len(req.DomainFilter) > MaxDomainFilter {
		return nil, eris.Errorf("websearch: domain filter has %d entries, API limit is %d",
			len(req.DomainFilter), MaxDomainFilter)
	}
	if req.Topic == "" {
		return nil, eris.New("websearch: topic is required")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		SearchDomainFilter: req.DomainFilter,
	})
	if err != nil {
		return nil, eris.Wrap(err, "websearch: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "websearch: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "websearch: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "websearch: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "websearch: unmarshal response")
	}
	if len(result.Choices) == 0 {
		return nil, eris.New("websearch: response contains no choices")
	}

	return &Response{
		Content: result.Choices[0].Message.Content,
		Usage:   result.Usage,
	}, nil
}

const systemPrompt = `You find authoritative external sources for real-estate blog articles. ` +
	`Respond with ONLY a JSON array. Each element: {"url": string, "sourceName": string, ` +
	`"description": string, "relevance": string, "supportsSentence": string (optional sentence id), ` +
	`"suggestedAnchor": string (optional), "confidenceScore": number 0-1 (optional)}. ` +
	`Only cite pages you are certain exist. No prose, no markdown fences.`

func buildUserPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Find authoritative citations for an article about: ")
	b.WriteString(req.Topic)
	b.WriteString("\n")
	if req.LanguageHint != "" {
		b.WriteString("Preferred source language: ")
		b.WriteString(req.LanguageHint)
		b.WriteString("\n")
	}
	if len(req.DomainFilter) > 0 {
		b.WriteString("Only cite sources from these domains: ")
		b.WriteString(strings.Join(req.DomainFilter, ", "))
		b.WriteString("\n")
	}
	if req.PromptContext != "" {
		b.WriteString("The article makes these claims that need supporting sources:\n")
		b.WriteString(req.PromptContext)
		b.WriteString("\n")
	}
	return b.String()
}
