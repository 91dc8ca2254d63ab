// Package llm drafts project overrides for repositories the profile does not
// describe yet.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/showcase/internal/models"
	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

const systemPrompt = `You write portfolio copy for a developer's GitHub projects. Given a repository's name, description, language and topics, produce a JSON object with:

1. "displayName": A short human-friendly project name.
2. "description": One sentence, at most 160 characters, describing what the project does for its users.
3. "tags": An array of 2-4 short technology or theme tags, title-cased.
4. "category": Exactly one of: Frontend, Backend, Fullstack, Open Source

Return ONLY valid JSON. No markdown, no code fences.`

// Suggest asks the model for an override draft. A category outside the
// concrete set is dropped rather than failing the whole suggestion.
func (c *Client) Suggest(ctx context.Context, repo models.RawRepo) (*models.Override, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(repo)},
		},
		// No ResponseFormat: not all models support json_object mode.
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM call for %s: %w", repo.Name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned for %s", repo.Name)
	}

	content := stripCodeFences(resp.Choices[0].Message.Content)

	var result models.SuggestResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parsing LLM response for %s: %w\nraw: %s", repo.Name, err, content)
	}

	return toOverride(repo.Name, result), nil
}

func userMessage(repo models.RawRepo) string {
	parts := []string{fmt.Sprintf("Repository: %s", repo.Name)}
	if repo.Description != nil && *repo.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", *repo.Description))
	}
	if repo.Language != nil && *repo.Language != "" {
		parts = append(parts, fmt.Sprintf("Language: %s", *repo.Language))
	}
	if len(repo.Topics) > 0 {
		parts = append(parts, fmt.Sprintf("Topics: %s", strings.Join(repo.Topics, ", ")))
	}
	return strings.Join(parts, "\n\n")
}

func toOverride(name string, r models.SuggestResult) *models.Override {
	o := &models.Override{
		Repo:        name,
		DisplayName: strings.TrimSpace(r.DisplayName),
		Description: strings.TrimSpace(r.Description),
	}
	for _, t := range r.Tags {
		if t = strings.TrimSpace(t); t != "" {
			o.Tags = append(o.Tags, t)
		}
	}
	for _, c := range []models.Category{models.CategoryFrontend, models.CategoryBackend, models.CategoryFullstack, models.CategoryOpenSource} {
		if strings.EqualFold(strings.TrimSpace(r.Category), string(c)) {
			o.Category = c
		}
	}
	return o
}

// stripCodeFences removes markdown code fences that some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence (```json or ```)
		if i := strings.Index(s, "\n"); i != -1 {
			s = s[i+1:]
		}
		// Remove closing fence
		if i := strings.LastIndex(s, "```"); i != -1 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
