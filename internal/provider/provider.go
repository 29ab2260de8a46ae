// Package provider implements the recipe search and generation fallback
// chain. Providers are consulted in a fixed order; the first stage that
// returns a non-empty result wins. Stages are strictly sequential so a
// paid API is never called when a free one already answered.
package provider

import (
	"context"
	"log"

	"github.com/flavorcraft/backend/internal/types"
)

// RecipeProvider is one stage of the search chain.
type RecipeProvider interface {
	Name() string
	Search(ctx context.Context, query string, pantry []types.PantryIngredient) ([]types.RecipeResult, error)
}

// RecipeGenerator authors a new recipe from pantry contents. Only the LLM
// and template stages implement it; the recipe databases return existing
// recipes rather than authoring new ones.
type RecipeGenerator interface {
	Name() string
	Generate(ctx context.Context, pantry []types.PantryIngredient, prefs types.GeneratePreferences) (*types.RecipeResult, error)
}

// Chain runs providers in order until one produces results.
type Chain struct {
	providers  []RecipeProvider
	generators []RecipeGenerator
}

// NewChain builds a chain over the given search providers and generators.
// Both lists are tried front to back.
func NewChain(providers []RecipeProvider, generators []RecipeGenerator) *Chain {
	return &Chain{providers: providers, generators: generators}
}

// Search consults each provider in order and returns the first non-empty
// result set. Provider failures advance the chain and are never surfaced
// to the caller; the template stage cannot fail, so a chain ending in it
// always answers. Callers must reject an empty query with an empty pantry
// before invoking the chain.
func (c *Chain) Search(ctx context.Context, query string, pantry []types.PantryIngredient) []types.RecipeResult {
	for _, p := range c.providers {
		results, err := p.Search(ctx, query, pantry)
		if err != nil {
			log.Printf("[chain] provider %s failed: %v", p.Name(), err)
			continue
		}
		if len(results) > 0 {
			log.Printf("[chain] provider %s returned %d recipes", p.Name(), len(results))
			return results
		}
	}
	return nil
}

// Generate authors one recipe from the pantry, trying each generator in
// order. The template generator never fails.
func (c *Chain) Generate(ctx context.Context, pantry []types.PantryIngredient, prefs types.GeneratePreferences) *types.RecipeResult {
	for _, g := range c.generators {
		result, err := g.Generate(ctx, pantry, prefs)
		if err != nil {
			log.Printf("[chain] generator %s failed: %v", g.Name(), err)
			continue
		}
		if result != nil {
			log.Printf("[chain] generator %s produced %q", g.Name(), result.Title)
			return result
		}
	}
	return nil
}
