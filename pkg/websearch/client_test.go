package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	resp := chatResponse{
		ID: "cmpl-1",
		Usage: Usage{
			PromptTokens:     120,
			CompletionTokens: 80,
		},
	}
	resp.Choices = []struct {
		Message chatMessage `json:"message"`
	}{
		{Message: chatMessage{Role: "assistant", Content: content}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestSearchCitations(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		fmt.Fprint(w, completionBody(`[{"url":"https://boe.es/doc","sourceName":"BOE"}]`))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	resp, err := client.SearchCitations(context.Background(), Request{
		Topic:        "property transfer tax in Andalusia",
		LanguageHint: "es",
		DomainFilter: []string{"boe.es", "agenciatributaria.es"},
	})
	require.NoError(t, err)

	assert.Equal(t, `[{"url":"https://boe.es/doc","sourceName":"BOE"}]`, resp.Content)
	assert.Equal(t, 120, resp.Usage.PromptTokens)
	assert.Equal(t, 80, resp.Usage.CompletionTokens)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "sonar-pro", gotReq.Model)
	assert.Equal(t, []string{"boe.es", "agenciatributaria.es"}, gotReq.SearchDomainFilter)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "property transfer tax in Andalusia")
	assert.Contains(t, gotReq.Messages[1].Content, "Preferred source language: es")
	assert.Contains(t, gotReq.Messages[1].Content, "boe.es, agenciatributaria.es")
}

func TestSearchCitationsWithModel(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		gotModel = req.Model
		fmt.Fprint(w, completionBody("[]"))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithModel("sonar-deep-research"))
	_, err := client.SearchCitations(context.Background(), Request{Topic: "golden visa"})
	require.NoError(t, err)
	assert.Equal(t, "sonar-deep-research", gotModel)
}

func TestSearchCitationsPromptContext(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &req)
		gotPrompt = req.Messages[1].Content
		fmt.Fprint(w, completionBody("[]"))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.SearchCitations(context.Background(), Request{
		Topic:         "NIE application",
		PromptContext: "[s1] Processing takes around 3 weeks.",
	})
	require.NoError(t, err)
	assert.Contains(t, gotPrompt, "claims that need supporting sources")
	assert.Contains(t, gotPrompt, "[s1] Processing takes around 3 weeks.")
}

func TestSearchCitationsAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"error":"rate limit exceeded"}`},
		{name: "server error", status: http.StatusInternalServerError, body: "internal error"},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":"invalid api key"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := NewClient("test-key", WithBaseURL(server.URL))
			_, err := client.SearchCitations(context.Background(), Request{Topic: "topic"})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Body, tt.body)
		})
	}
}

func TestSearchCitationsDomainFilterTooLong(t *testing.T) {
	filter := make([]string, MaxDomainFilter+1)
	for i := range filter {
		filter[i] = fmt.Sprintf("domain%02d.es", i)
	}

	// Rejected client-side: no server needed.
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.SearchCitations(context.Background(), Request{Topic: "topic", DomainFilter: filter})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21 entries")
}

func TestSearchCitationsMissingTopic(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.SearchCitations(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topic is required")
}

func TestSearchCitationsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json at all")
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.SearchCitations(context.Background(), Request{Topic: "topic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestSearchCitationsNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"cmpl-1","choices":[]}`)
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.SearchCitations(context.Background(), Request{Topic: "topic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestSearchCitationsContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, completionBody("[]"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.SearchCitations(ctx, Request{Topic: "topic"})
	require.Error(t, err)
}

func TestWithTimeout(t *testing.T) {
	c := NewClient("test-key", WithTimeout(9*time.Second)).(*httpClient)
	assert.Equal(t, 9*time.Second, c.http.Timeout)

	// Non-positive values keep the default.
	c = NewClient("test-key", WithTimeout(0)).(*httpClient)
	assert.Equal(t, 60*time.Second, c.http.Timeout)
}

func TestSearchCitationsTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		fmt.Fprint(w, completionBody("[]"))
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL), WithTimeout(30*time.Millisecond))
	_, err := client.SearchCitations(context.Background(), Request{Topic: "topic"})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "a timeout is a transport failure, not an API status")
}
