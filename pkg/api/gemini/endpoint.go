package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chore-quest/backend/config"
	"github.com/chore-quest/backend/pkg/api"
	"github.com/chore-quest/backend/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
)

type IEndpoint interface {
	// GenerateBoss turns a free-text chore description into a structured
	// boss. It returns the boss and the raw response body for the audit
	// history.
	GenerateBoss(ctx context.Context, description string) (Boss, string, error)
}

type Endpoint struct {
	apiGenerator api.Generator
	cfg          config.GeminiConfigs
}

func New(cfg config.GeminiConfigs) *Endpoint {
	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.Endpoint),
		cfg:          cfg,
	}
}

func (e *Endpoint) GenerateBoss(ctx context.Context, description string) (Boss, string, error) {
	// Without credentials the endpoint degrades to a deterministic offline
	// boss instead of failing, so local setups keep working.
	if e.cfg.APIKey == "" {
		boss := OfflineBoss(description)
		raw, _ := json.Marshal(boss)
		return boss, string(raw), nil
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	resp, err := e.apiGenerator.New("/v1beta/models/%s:generateContent", e.cfg.Model).
		Query(api.Parameter{"key": e.cfg.APIKey}).
		Body(api.JSON{
			"contents": []api.JSON{
				{"parts": []api.JSON{{"text": fmt.Sprintf(promptTemplate, description)}}},
			},
		}).
		POST(ctx)
	if err != nil {
		return Boss{}, "", err
	}

	if resp.Code != 200 {
		xcontext.Logger(ctx).Warnf("Invalid status code from gemini: %d", resp.Code)
		return Boss{}, string(resp.RawBody), fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return Boss{}, string(resp.RawBody), errors.New("invalid body format")
	}

	text, err := extractText(body)
	if err != nil {
		return Boss{}, string(resp.RawBody), err
	}

	boss, err := decodeBoss(text)
	if err != nil {
		return Boss{}, string(resp.RawBody), err
	}

	return boss, string(resp.RawBody), nil
}

func extractText(body api.JSON) (string, error) {
	candidates, err := body.Get("candidates")
	if err != nil {
		return "", err
	}

	candidateList, ok := candidates.([]any)
	if !ok || len(candidateList) == 0 {
		return "", errors.New("no candidate in response")
	}

	candidate, ok := candidateList[0].(map[string]any)
	if !ok {
		return "", errors.New("invalid candidate format")
	}

	parts, err := api.JSON(candidate).Get("content.parts")
	if err != nil {
		return "", err
	}

	partList, ok := parts.([]any)
	if !ok || len(partList) == 0 {
		return "", errors.New("no part in candidate")
	}

	part, ok := partList[0].(map[string]any)
	if !ok {
		return "", errors.New("invalid part format")
	}

	return api.JSON(part).GetString("text")
}

// decodeBoss parses the model output into a Boss. The model sometimes wraps
// the JSON in a markdown fence; strip it before parsing. Every decoded value
// passes through normalize before it reaches domain logic.
func decodeBoss(text string) (Boss, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	raw := map[string]any{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &raw); err != nil {
		return Boss{}, fmt.Errorf("cannot parse model output: %w", err)
	}

	var boss Boss
	if err := mapstructure.Decode(raw, &boss); err != nil {
		return Boss{}, fmt.Errorf("unexpected model output shape: %w", err)
	}

	return normalize(boss)
}

const promptTemplate = `You are the game master of a household chore RPG.
Turn the following chore description into a fantasy boss. Reply with ONLY a
JSON object of this exact shape, no extra text:
{
  "name": "...",
  "description": "...",
  "totalHealth": 100,
  "chores": [
    {"title": "...", "xp": 50, "damage": 25, "difficulty": "Easy|Medium|Hard", "estimatedTime": 15}
  ]
}
The chore damages must sum to at least totalHealth.

Chore description: %s`
