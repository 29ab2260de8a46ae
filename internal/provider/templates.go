package provider

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/flavorcraft/backend/internal/models"
	"github.com/flavorcraft/backend/internal/types"
)

// Templates is the terminal chain stage. It answers every query from a
// static keyword table and therefore never fails and never returns an
// empty result, which is what lets Chain.Search guarantee an answer.
type Templates struct {
	rand *rand.Rand
}

func NewTemplates() *Templates {
	return &Templates{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (t *Templates) Name() string { return "templates" }

// templateRule matches a query against keyword sets. requireAll must all
// appear in the query; requireAny needs one hit (an empty list always
// matches). pick limits how many of the rule's recipes are returned,
// chosen at random; zero means all of them.
type templateRule struct {
	requireAll []string
	requireAny []string
	pick       int
	recipes    []func() types.RecipeResult
}

// templateRules is ordered most-specific first; the first matching rule
// wins.
var templateRules = []templateRule{
	{requireAll: []string{"curry", "chicken"}, recipes: []func() types.RecipeResult{chickenCurry}},
	{requireAll: []string{"curry"}, recipes: []func() types.RecipeResult{vegetableCurry}},
	{requireAll: []string{"carbonara"}, recipes: []func() types.RecipeResult{carbonara}},
	{requireAny: []string{"pasta", "spaghetti", "noodle"}, recipes: []func() types.RecipeResult{creamyGarlicPasta, carbonara}},
	{requireAll: []string{"chicken"}, requireAny: []string{"fried", "crispy"}, recipes: []func() types.RecipeResult{crispyFriedChicken}},
	{requireAll: []string{"chicken"}, requireAny: []string{"grilled", "bbq", "barbecue"}, recipes: []func() types.RecipeResult{grilledBBQChicken}},
	{requireAll: []string{"chicken"}, pick: 2, recipes: []func() types.RecipeResult{honeyGarlicChicken, lemonHerbChicken, chickenStirFry, chickenTikkaMasala}},
	{requireAny: []string{"vegetarian", "veggie", "salad", "quinoa"}, recipes: []func() types.RecipeResult{quinoaPowerBowl}},
}

// Search matches the query against the keyword table. When no rule
// matches, a generic recipe is built around whatever pantry items were
// supplied.
func (t *Templates) Search(_ context.Context, query string, pantry []types.PantryIngredient) ([]types.RecipeResult, error) {
	lower := strings.ToLower(query)
	for _, rule := range templateRules {
		if !rule.matches(lower) {
			continue
		}
		picked := rule.recipes
		if rule.pick > 0 && rule.pick < len(picked) {
			indices := t.rand.Perm(len(picked))[:rule.pick]
			chosen := make([]func() types.RecipeResult, 0, rule.pick)
			for _, i := range indices {
				chosen = append(chosen, picked[i])
			}
			picked = chosen
		}
		results := make([]types.RecipeResult, 0, len(picked))
		for _, build := range picked {
			results = append(results, build())
		}
		return results, nil
	}
	return []types.RecipeResult{pantryWrap(query, pantry)}, nil
}

// Generate builds one recipe from pantry contents alone: pasta when both
// chicken and tomatoes are on hand, a stir fry around beef, a vegetable
// medley for a produce-heavy pantry, and a wrap otherwise.
func (t *Templates) Generate(_ context.Context, pantry []types.PantryIngredient, _ types.GeneratePreferences) (*types.RecipeResult, error) {
	has := func(keyword string) bool {
		for _, item := range pantry {
			if strings.Contains(strings.ToLower(item.Name), keyword) {
				return true
			}
		}
		return false
	}

	var result types.RecipeResult
	switch {
	case has("chicken") && has("tomato"):
		result = chickenTomatoPasta()
	case has("beef"):
		result = beefStirFry()
	case producePantryCount(pantry) >= 3 && !has("chicken") && !has("beef") && !has("pork") && !has("fish"):
		result = vegetableMedley()
	default:
		result = pantryWrap("", pantry)
	}
	return &result, nil
}

func (r templateRule) matches(query string) bool {
	for _, kw := range r.requireAll {
		if !strings.Contains(query, kw) {
			return false
		}
	}
	if len(r.requireAny) == 0 {
		return true
	}
	for _, kw := range r.requireAny {
		if strings.Contains(query, kw) {
			return true
		}
	}
	return false
}

func producePantryCount(pantry []types.PantryIngredient) int {
	count := 0
	for _, item := range pantry {
		if CategorizeIngredient(item.Name) == models.CategoryProduce {
			count++
		}
	}
	return count
}

// tplIngredient is one {name, quantity, unit} row of a template's
// ingredient data.
type tplIngredient struct {
	name, quantity, unit string
}

func buildTemplate(id, title, description, cuisine string, prep, cook, servings int, tags []string, rows []tplIngredient, steps []string, tips []string) types.RecipeResult {
	ingredients := make([]models.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, models.Ingredient{
			Name:     row.name,
			Quantity: row.quantity,
			Unit:     row.unit,
			Category: CategorizeIngredient(row.name),
		})
	}
	instructions := make([]models.Instruction, 0, len(steps))
	for i, step := range steps {
		instructions = append(instructions, models.Instruction{Step: i + 1, Description: step})
	}
	return types.RecipeResult{
		ID:           "template-" + id,
		Title:        title,
		Description:  description,
		Ingredients:  ingredients,
		Instructions: instructions,
		PrepTime:     prep,
		CookTime:     cook,
		Servings:     servings,
		Difficulty:   DifficultyFromMinutes(prep + cook),
		Tags:         tags,
		Cuisine:      cuisine,
		Source:       models.SourceTemplate,
	}
}

func chickenCurry() types.RecipeResult {
	return buildTemplate("chicken-curry", "Classic Chicken Curry",
		"A rich and aromatic chicken curry simmered in a spiced coconut sauce.",
		"Indian", 20, 40, 4,
		[]string{"dinner", "curry", "comfort food"},
		[]tplIngredient{
			{"chicken thighs", "600", "g"},
			{"onion", "2", "medium"},
			{"garlic cloves", "4", ""},
			{"ginger", "1", "tbsp"},
			{"curry powder", "2", "tbsp"},
			{"coconut milk", "400", "ml"},
			{"tomato paste", "2", "tbsp"},
			{"vegetable oil", "2", "tbsp"},
			{"salt", "1", "tsp"},
		},
		[]string{
			"Heat the oil in a large pot and brown the chicken pieces on all sides.",
			"Remove the chicken and soften the diced onion, garlic and ginger in the same pot.",
			"Stir in the curry powder and tomato paste and cook for one minute until fragrant.",
			"Return the chicken, pour in the coconut milk and season with salt.",
			"Simmer uncovered for 30 minutes until the sauce thickens and the chicken is tender.",
			"Serve over steamed rice.",
		},
		[]string{"Marinate the chicken in yogurt for an hour for extra tenderness."})
}

func vegetableCurry() types.RecipeResult {
	return buildTemplate("vegetable-curry", "Coconut Vegetable Curry",
		"A hearty vegetable curry with chickpeas in a fragrant coconut broth.",
		"Indian", 15, 30, 4,
		[]string{"dinner", "curry", "vegetarian"},
		[]tplIngredient{
			{"cauliflower", "1", "head"},
			{"carrot", "2", "medium"},
			{"chickpeas", "400", "g"},
			{"onion", "1", "large"},
			{"garlic cloves", "3", ""},
			{"curry paste", "3", "tbsp"},
			{"coconut milk", "400", "ml"},
			{"spinach", "100", "g"},
			{"vegetable oil", "2", "tbsp"},
		},
		[]string{
			"Soften the onion and garlic in oil over medium heat.",
			"Stir in the curry paste and cook until fragrant.",
			"Add the cauliflower florets, sliced carrot and drained chickpeas.",
			"Pour in the coconut milk and simmer for 20 minutes.",
			"Fold in the spinach just before serving.",
		},
		nil)
}

func carbonara() types.RecipeResult {
	return buildTemplate("carbonara", "Spaghetti Carbonara",
		"The Roman classic of spaghetti tossed with eggs, pecorino and crispy pancetta.",
		"Italian", 10, 20, 2,
		[]string{"dinner", "pasta", "classic"},
		[]tplIngredient{
			{"spaghetti", "200", "g"},
			{"pancetta", "100", "g"},
			{"eggs", "2", ""},
			{"pecorino cheese", "50", "g"},
			{"black pepper", "1", "tsp"},
			{"salt", "1", "pinch"},
		},
		[]string{
			"Cook the spaghetti in well salted boiling water until al dente.",
			"Fry the pancetta in a dry pan until crispy.",
			"Whisk the eggs with the grated pecorino and plenty of black pepper.",
			"Toss the drained pasta with the pancetta off the heat.",
			"Stir in the egg mixture quickly, loosening with pasta water until glossy.",
		},
		[]string{"Keep the pan off the heat when adding the eggs so they do not scramble."})
}

func creamyGarlicPasta() types.RecipeResult {
	return buildTemplate("creamy-garlic-pasta", "Creamy Garlic Pasta",
		"A quick weeknight pasta in a silky garlic and parmesan cream sauce.",
		"Italian", 10, 15, 2,
		[]string{"dinner", "pasta", "quick"},
		[]tplIngredient{
			{"penne pasta", "200", "g"},
			{"garlic cloves", "4", ""},
			{"heavy cream", "200", "ml"},
			{"parmesan cheese", "40", "g"},
			{"butter", "2", "tbsp"},
			{"parsley", "2", "tbsp"},
		},
		[]string{
			"Cook the pasta until al dente and reserve a cup of pasta water.",
			"Melt the butter and gently cook the sliced garlic without browning.",
			"Pour in the cream and simmer for two minutes.",
			"Toss the pasta through the sauce with the parmesan.",
			"Loosen with pasta water as needed and finish with chopped parsley.",
		},
		nil)
}

func crispyFriedChicken() types.RecipeResult {
	return buildTemplate("crispy-fried-chicken", "Crispy Fried Chicken",
		"Buttermilk-brined chicken with a seasoned crunchy crust.",
		"American", 20, 25, 4,
		[]string{"dinner", "fried", "comfort food"},
		[]tplIngredient{
			{"chicken drumsticks", "8", ""},
			{"buttermilk", "500", "ml"},
			{"flour", "2", "cups"},
			{"paprika", "1", "tbsp"},
			{"garlic powder", "1", "tbsp"},
			{"salt", "2", "tsp"},
			{"frying oil", "1", "l"},
		},
		[]string{
			"Soak the chicken in buttermilk for at least four hours.",
			"Mix the flour with paprika, garlic powder and salt.",
			"Dredge each piece in the seasoned flour, pressing to coat.",
			"Fry at 170C for 12 to 14 minutes until deep golden.",
			"Drain on a rack and rest for five minutes before serving.",
		},
		[]string{"Double-dredge for an extra thick crust."})
}

func grilledBBQChicken() types.RecipeResult {
	return buildTemplate("grilled-bbq-chicken", "Grilled BBQ Chicken",
		"Char-grilled chicken glazed with a smoky barbecue sauce.",
		"American", 15, 25, 4,
		[]string{"dinner", "grilled", "bbq"},
		[]tplIngredient{
			{"chicken thighs", "8", ""},
			{"bbq sauce", "1", "cup"},
			{"olive oil", "2", "tbsp"},
			{"smoked paprika", "1", "tsp"},
			{"salt", "1", "tsp"},
			{"black pepper", "1", "tsp"},
		},
		[]string{
			"Rub the chicken with oil, paprika, salt and pepper.",
			"Grill over medium heat for 10 minutes, turning once.",
			"Brush with barbecue sauce and grill another 10 minutes, glazing twice.",
			"Rest for five minutes before serving.",
		},
		nil)
}

func honeyGarlicChicken() types.RecipeResult {
	return buildTemplate("honey-garlic-chicken", "Honey Garlic Chicken",
		"Pan-seared chicken coated in a sticky honey garlic glaze.",
		"Asian", 10, 20, 4,
		[]string{"dinner", "quick"},
		[]tplIngredient{
			{"chicken breast", "4", ""},
			{"honey", "3", "tbsp"},
			{"garlic cloves", "4", ""},
			{"soy sauce", "3", "tbsp"},
			{"vegetable oil", "2", "tbsp"},
			{"sesame seeds", "1", "tsp"},
		},
		[]string{
			"Sear the chicken in oil until golden on both sides.",
			"Add the minced garlic and cook for thirty seconds.",
			"Stir in the honey and soy sauce and simmer until the glaze coats the chicken.",
			"Scatter with sesame seeds and serve.",
		},
		nil)
}

func lemonHerbChicken() types.RecipeResult {
	return buildTemplate("lemon-herb-chicken", "Lemon Herb Roast Chicken",
		"Juicy chicken roasted with lemon, garlic and fresh herbs.",
		"Mediterranean", 15, 45, 4,
		[]string{"dinner", "roast"},
		[]tplIngredient{
			{"chicken thighs", "8", ""},
			{"lemon", "2", ""},
			{"garlic cloves", "6", ""},
			{"rosemary", "2", "sprigs"},
			{"thyme", "4", "sprigs"},
			{"olive oil", "3", "tbsp"},
			{"salt", "2", "tsp"},
		},
		[]string{
			"Toss the chicken with oil, lemon juice, garlic and herbs.",
			"Arrange in a roasting tin with the lemon halves.",
			"Roast at 200C for 40 to 45 minutes, basting once.",
			"Rest briefly and spoon the pan juices over to serve.",
		},
		nil)
}

func chickenStirFry() types.RecipeResult {
	return buildTemplate("chicken-stir-fry", "Chicken and Vegetable Stir Fry",
		"A fast wok-fried chicken dinner loaded with crisp vegetables.",
		"Chinese", 15, 10, 3,
		[]string{"dinner", "quick", "stir fry"},
		[]tplIngredient{
			{"chicken breast", "400", "g"},
			{"broccoli", "1", "head"},
			{"bell pepper", "1", ""},
			{"carrot", "1", ""},
			{"soy sauce", "3", "tbsp"},
			{"garlic cloves", "3", ""},
			{"vegetable oil", "2", "tbsp"},
		},
		[]string{
			"Slice the chicken thinly and the vegetables into bite-size pieces.",
			"Stir fry the chicken over high heat until just cooked and set aside.",
			"Stir fry the vegetables with the garlic for three minutes.",
			"Return the chicken, add the soy sauce and toss for one minute.",
			"Serve immediately over rice.",
		},
		[]string{"Keep the wok screaming hot so the vegetables stay crisp."})
}

func chickenTikkaMasala() types.RecipeResult {
	return buildTemplate("chicken-tikka-masala", "Chicken Tikka Masala",
		"Charred marinated chicken folded into a creamy spiced tomato sauce.",
		"Indian", 25, 35, 4,
		[]string{"dinner", "curry"},
		[]tplIngredient{
			{"chicken breast", "600", "g"},
			{"plain yogurt", "150", "g"},
			{"garam masala", "2", "tbsp"},
			{"crushed tomatoes", "400", "g"},
			{"heavy cream", "150", "ml"},
			{"onion", "1", "large"},
			{"garlic cloves", "4", ""},
			{"ginger", "1", "tbsp"},
			{"butter", "2", "tbsp"},
		},
		[]string{
			"Marinate the chicken in yogurt and half the garam masala for twenty minutes.",
			"Grill or broil the chicken until lightly charred.",
			"Soften the onion, garlic and ginger in butter.",
			"Add the remaining spices and crushed tomatoes and simmer for ten minutes.",
			"Stir in the cream and the chicken and simmer another ten minutes.",
		},
		nil)
}

func quinoaPowerBowl() types.RecipeResult {
	return buildTemplate("quinoa-power-bowl", "Quinoa Power Bowl",
		"A bright vegetarian bowl of quinoa, roasted vegetables and tahini dressing.",
		"Mediterranean", 15, 25, 2,
		[]string{"lunch", "vegetarian", "healthy"},
		[]tplIngredient{
			{"quinoa", "1", "cup"},
			{"sweet potato", "1", "large"},
			{"chickpeas", "400", "g"},
			{"spinach", "2", "cups"},
			{"avocado", "1", ""},
			{"tahini", "2", "tbsp"},
			{"lemon", "1", ""},
			{"olive oil", "2", "tbsp"},
		},
		[]string{
			"Roast the cubed sweet potato and chickpeas with olive oil at 200C for 25 minutes.",
			"Cook the quinoa in salted water until fluffy.",
			"Whisk the tahini with lemon juice and a splash of water.",
			"Assemble bowls with quinoa, spinach, roasted vegetables and sliced avocado.",
			"Drizzle with the tahini dressing.",
		},
		nil)
}

func chickenTomatoPasta() types.RecipeResult {
	return buildTemplate("chicken-tomato-pasta", "Chicken and Tomato Pasta",
		"Seared chicken tossed with pasta in a quick garlicky tomato sauce.",
		"Italian", 10, 25, 3,
		[]string{"dinner", "pasta"},
		[]tplIngredient{
			{"chicken breast", "400", "g"},
			{"penne pasta", "250", "g"},
			{"tomatoes", "4", ""},
			{"garlic cloves", "3", ""},
			{"olive oil", "3", "tbsp"},
			{"basil", "1", "handful"},
		},
		[]string{
			"Cook the pasta until al dente.",
			"Sear the diced chicken in olive oil until golden.",
			"Add the garlic and chopped tomatoes and simmer for ten minutes.",
			"Toss the pasta through the sauce and finish with torn basil.",
		},
		nil)
}

func beefStirFry() types.RecipeResult {
	return buildTemplate("beef-stir-fry", "Ginger Beef Stir Fry",
		"Thin-sliced beef flash-fried with ginger, garlic and whatever vegetables are on hand.",
		"Chinese", 15, 10, 3,
		[]string{"dinner", "quick", "stir fry"},
		[]tplIngredient{
			{"beef sirloin", "400", "g"},
			{"ginger", "1", "tbsp"},
			{"garlic cloves", "3", ""},
			{"soy sauce", "3", "tbsp"},
			{"mixed vegetables", "3", "cups"},
			{"vegetable oil", "2", "tbsp"},
		},
		[]string{
			"Slice the beef thinly against the grain.",
			"Sear the beef over high heat in batches and set aside.",
			"Stir fry the vegetables with ginger and garlic for three minutes.",
			"Return the beef, add the soy sauce and toss to coat.",
		},
		nil)
}

func vegetableMedley() types.RecipeResult {
	return buildTemplate("vegetable-medley", "Mediterranean Vegetable Medley",
		"Roasted seasonal vegetables with herbs, olive oil and a squeeze of lemon.",
		"Mediterranean", 15, 35, 4,
		[]string{"dinner", "vegetarian", "healthy"},
		[]tplIngredient{
			{"zucchini", "2", ""},
			{"bell pepper", "2", ""},
			{"red onion", "1", ""},
			{"cherry tomatoes", "250", "g"},
			{"olive oil", "3", "tbsp"},
			{"oregano", "1", "tsp"},
			{"lemon", "1", ""},
		},
		[]string{
			"Chop all the vegetables into even chunks.",
			"Toss with olive oil, oregano, salt and pepper.",
			"Roast at 200C for 35 minutes, stirring halfway.",
			"Finish with a squeeze of lemon before serving.",
		},
		nil)
}

// pantryWrap is the last-resort recipe built around whatever the caller
// has on hand.
func pantryWrap(query string, pantry []types.PantryIngredient) types.RecipeResult {
	rows := []tplIngredient{{"flour tortillas", "4", ""}}
	for i, item := range pantry {
		if i >= 6 || item.Name == "" {
			break
		}
		quantity := item.Quantity
		if quantity == "" {
			quantity = "1"
		}
		rows = append(rows, tplIngredient{item.Name, quantity, item.Unit})
	}
	rows = append(rows,
		tplIngredient{"olive oil", "2", "tbsp"},
		tplIngredient{"salt", "1", "pinch"},
	)

	title := "Everything Pantry Wrap"
	if q := strings.TrimSpace(query); q != "" {
		title = fmt.Sprintf("Pantry Wrap with %s", q)
	}

	return buildTemplate("pantry-wrap", title,
		"A flexible wrap that turns whatever is in the pantry into lunch.",
		"Fusion", 10, 10, 2,
		[]string{"lunch", "quick", "flexible"},
		rows,
		[]string{
			"Chop the fillings into bite-size pieces.",
			"Saute anything that needs cooking in olive oil and season with salt.",
			"Warm the tortillas in a dry pan.",
			"Pile the fillings onto the tortillas, roll tightly and serve.",
		},
		nil)
}
