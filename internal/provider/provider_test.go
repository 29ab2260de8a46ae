package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorcraft/backend/internal/types"
)

type stubProvider struct {
	name    string
	results []types.RecipeResult
	err     error
	calls   int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Search(context.Context, string, []types.PantryIngredient) ([]types.RecipeResult, error) {
	s.calls++
	return s.results, s.err
}

func result(id string) types.RecipeResult {
	return types.RecipeResult{ID: id, Title: id}
}

func TestChainFirstNonEmptyWins(t *testing.T) {
	first := &stubProvider{name: "first", results: []types.RecipeResult{result("a")}}
	second := &stubProvider{name: "second", results: []types.RecipeResult{result("b")}}
	chain := NewChain([]RecipeProvider{first, second}, nil)

	results := chain.Search(context.Background(), "anything", nil)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later stages must not run once a stage answered")
}

func TestChainAdvancesPastErrorsAndEmptyResults(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("upstream down")}
	empty := &stubProvider{name: "empty"}
	answering := &stubProvider{name: "answering", results: []types.RecipeResult{result("c")}}
	chain := NewChain([]RecipeProvider{failing, empty, answering}, nil)

	results := chain.Search(context.Background(), "anything", nil)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].ID)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
}

func TestChainAllStagesFailReturnsNil(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("down")}
	empty := &stubProvider{name: "empty"}
	chain := NewChain([]RecipeProvider{failing, empty}, nil)

	assert.Nil(t, chain.Search(context.Background(), "anything", nil))
}

func TestChainEndingInTemplatesAlwaysAnswers(t *testing.T) {
	failing := &stubProvider{name: "failing", err: errors.New("down")}
	chain := NewChain([]RecipeProvider{failing, NewTemplates()}, nil)

	results := chain.Search(context.Background(), "no recipe matches this", nil)
	require.NotEmpty(t, results)
}

type stubGenerator struct {
	name   string
	result *types.RecipeResult
	err    error
}

func (s *stubGenerator) Name() string { return s.name }

func (s *stubGenerator) Generate(context.Context, []types.PantryIngredient, types.GeneratePreferences) (*types.RecipeResult, error) {
	return s.result, s.err
}

func TestChainGenerateFallsThroughToTemplates(t *testing.T) {
	quotaExceeded := &stubGenerator{name: "llm", err: errors.New("status 429")}
	chain := NewChain(nil, []RecipeGenerator{quotaExceeded, NewTemplates()})

	pantry := []types.PantryIngredient{{Name: "beef mince"}}
	result := chain.Generate(context.Background(), pantry, types.GeneratePreferences{})
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Ingredients)
	assert.NotEmpty(t, result.Instructions)
}
