package ai

import (
	"encoding/json"
	"os"
)

// Model metadata and simple pricing helpers for UX warnings.
// Prices are illustrative and should be verified against OpenRouter docs.

type ModelInfo struct {
	Name          string
	ContextTokens int     // approximate context window
	InputPerK     float64 // USD per 1K input tokens
	OutputPerK    float64 // USD per 1K output tokens
}

var models = map[string]ModelInfo{
	// Google Gemini, the default for analytics and chat
	"google/gemini-2.5-flash": {
		Name:          "google/gemini-2.5-flash",
		ContextTokens: 1000000,
		InputPerK:     0.0003,
		OutputPerK:    0.0025,
	},
	"google/gemini-2.5-pro": {
		Name:          "google/gemini-2.5-pro",
		ContextTokens: 1000000,
		InputPerK:     0.00125,
		OutputPerK:    0.01,
	},
	"openai/gpt-4o-mini": {
		Name:          "openai/gpt-4o-mini",
		ContextTokens: 128000,
		InputPerK:     0.0006,
		OutputPerK:    0.0024,
	},
	"openai/gpt-4o": {
		Name:          "openai/gpt-4o",
		ContextTokens: 128000,
		InputPerK:     0.005,
		OutputPerK:    0.015,
	},
	"anthropic/claude-3.5-sonnet": {
		Name:          "anthropic/claude-3.5-sonnet",
		ContextTokens: 200000,
		InputPerK:     0.003,
		OutputPerK:    0.015,
	},
	"deepseek/deepseek-r1:free": {
		Name:          "deepseek/deepseek-r1:free",
		ContextTokens: 128000,
		InputPerK:     0.0,
		OutputPerK:    0.0,
	},
}

// Catalog returns a copy of the in-memory model catalog.
func Catalog() map[string]ModelInfo {
	out := make(map[string]ModelInfo, len(models))
	for k, v := range models {
		out[k] = v
	}
	return out
}

// LookupModel returns metadata for a model name if known.
func LookupModel(name string) (ModelInfo, bool) {
	m, ok := models[name]
	return m, ok
}

// MergeCatalog merges entries into the in-memory catalog, overwriting
// duplicates.
func MergeCatalog(m map[string]ModelInfo) {
	for k, v := range m {
		models[k] = v
	}
}

// OverrideCatalog replaces the in-memory catalog wholesale.
func OverrideCatalog(m map[string]ModelInfo) {
	models = make(map[string]ModelInfo, len(m))
	for k, v := range m {
		models[k] = v
	}
}

// LoadCatalogFromJSON reads a model catalog from a JSON file on disk.
func LoadCatalogFromJSON(path string) (map[string]ModelInfo, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]ModelInfo
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// EstimateCostUSD returns a rough dollar estimate for a request.
func EstimateCostUSD(model string, inputTokens, outputTokens int) (float64, bool) {
	info, ok := models[model]
	if !ok {
		return 0, false
	}
	cost := float64(inputTokens)/1000*info.InputPerK + float64(outputTokens)/1000*info.OutputPerK
	return cost, true
}
