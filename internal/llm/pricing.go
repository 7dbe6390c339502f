package llm

import (
	"strings"

	"github.com/samber/lo"
)

// ModelCost is a model's list price in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost prices one request, or a sum of requests.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// LookupCost prices a model as reported by the backend. Backends echo
// dated snapshots ("gpt-4o-mini-2024-07-18") and OpenRouter prefixes the
// vendor ("openai/gpt-4o-mini"), so both are reduced to the longest known
// family name. It returns nil for unknown models.
func LookupCost(model string) *ModelCost {
	if _, after, found := strings.Cut(model, "/"); found {
		model = after
	}
	if c, ok := modelCosts[model]; ok {
		return &c
	}
	families := lo.Filter(lo.Keys(modelCosts), func(family string, _ int) bool {
		return strings.HasPrefix(model, family+"-")
	})
	if len(families) == 0 {
		return nil
	}
	c := modelCosts[lo.MaxBy(families, func(a, b string) bool { return len(a) > len(b) })]
	return &c
}

// Prices as of 2026-02. Only models that handle structured quiz output
// well are listed.
var modelCosts = map[string]ModelCost{
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-5": {3, 15},
	"claude-sonnet-4":   {3, 15},
	"claude-opus-4-5":   {5, 25},
	"claude-opus-4-1":   {15, 75},
	"claude-3-5-haiku":  {0.8, 4},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-3-flash":        {0.5, 3},
	"gemini-3-pro":          {2, 12},
}
