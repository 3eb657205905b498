package services

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"beer-vote/config"
	"beer-vote/models"
)

// specificity ranks general styles for resolving multi-rule matches, most
// specific first. Within the ale family: IPA > Pale Ale > Red/Amber Ale > Other Ale.
// Lager outranks every ale bucket except IPA.
var specificity = map[models.StyleCategory]int{
	models.StylePilsner:     0,
	models.StyleIPA:         1,
	models.StylePorter:      2,
	models.StyleStout:       3,
	models.StyleLager:       4,
	models.StylePaleAle:     5,
	models.StyleRedAmberAle: 6,
	models.StyleOtherAle:    7,
}

// tokenSet is a style label split on single spaces.
type tokenSet map[string]struct{}

func tokenize(style string) ([]string, tokenSet) {
	tokens := strings.Split(style, " ")
	set := make(tokenSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return tokens, set
}

func (s tokenSet) has(words ...string) bool {
	for _, w := range words {
		if _, ok := s[w]; !ok {
			return false
		}
	}
	return true
}

// StyleRule is a predicate over a style's tokens mapped to a general style.
type StyleRule struct {
	Category models.StyleCategory
	Match    func(tokens []string, set tokenSet) (bool, error)
}

// BuiltinStyleRules are the keyword rules for the eight general styles.
func BuiltinStyleRules() []StyleRule {
	return []StyleRule{
		{models.StylePaleAle, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Ale", "Pale") && !s.has("India"), nil
		}},
		{models.StyleLager, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Lager"), nil
		}},
		{models.StyleIPA, func(_ []string, s tokenSet) (bool, error) {
			return s.has("IPA") || s.has("India", "Pale", "Ale"), nil
		}},
		{models.StyleRedAmberAle, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Ale") && (s.has("Amber") || s.has("Red")), nil
		}},
		{models.StyleStout, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Stout"), nil
		}},
		{models.StylePorter, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Porter"), nil
		}},
		{models.StylePilsner, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Pilsener"), nil
		}},
		{models.StyleOtherAle, func(_ []string, s tokenSet) (bool, error) {
			return s.has("Ale"), nil
		}},
	}
}

// CELStyleRules compiles configured rules. Each expression sees the style
// tokens as `tokens` (list of strings) and must evaluate to a bool, e.g.
// `"Stout" in tokens && !("Imperial" in tokens)`.
func CELStyleRules(rules []config.StyleRule) ([]StyleRule, error) {
	env, err := cel.NewEnv(cel.Variable("tokens", cel.ListType(cel.StringType)))
	if err != nil {
		return nil, fmt.Errorf("styles: cel env: %w", err)
	}

	out := make([]StyleRule, 0, len(rules))
	for i, r := range rules {
		category, ok := models.ParseStyleCategory(r.Category)
		if !ok {
			return nil, fmt.Errorf("styles: rule %d: unknown category %q", i, r.Category)
		}

		ast, issues := env.Compile(r.Expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("styles: rule %d: compile %q: %w", i, r.Expr, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("styles: rule %d: %q must return bool", i, r.Expr)
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("styles: rule %d: program: %w", i, err)
		}

		expr := r.Expr
		out = append(out, StyleRule{
			Category: category,
			Match: func(tokens []string, _ tokenSet) (bool, error) {
				val, _, err := prg.Eval(map[string]any{"tokens": tokens})
				if err != nil {
					return false, fmt.Errorf("styles: eval %q: %w", expr, err)
				}
				b, ok := val.Value().(bool)
				if !ok {
					return false, fmt.Errorf("styles: %q returned %T", expr, val.Value())
				}
				return b, nil
			},
		})
	}
	return out, nil
}

// StyleClassifier assigns free-text beer styles to general styles.
// It memoises results per distinct label and is not safe for concurrent use.
type StyleClassifier struct {
	rules []StyleRule
	cache map[string]classification
}

type classification struct {
	category models.StyleCategory
	ok       bool
}

// NewStyleClassifier creates a classifier over the given rules.
func NewStyleClassifier(rules []StyleRule) *StyleClassifier {
	return &StyleClassifier{rules: rules, cache: make(map[string]classification)}
}

// NewDefaultStyleClassifier uses the built-in keyword rules.
func NewDefaultStyleClassifier() *StyleClassifier {
	return NewStyleClassifier(BuiltinStyleRules())
}

// Classify returns the general style of a label, or ok=false when no rule
// matched and the review must be left out of aggregation.
func (c *StyleClassifier) Classify(style string) (models.StyleCategory, bool, error) {
	if hit, found := c.cache[style]; found {
		return hit.category, hit.ok, nil
	}

	tokens, set := tokenize(style)
	var matches []models.StyleCategory
	for _, r := range c.rules {
		ok, err := r.Match(tokens, set)
		if err != nil {
			return "", false, err
		}
		if ok {
			matches = append(matches, r.Category)
		}
	}

	category, ok := MostSpecific(matches)
	c.cache[style] = classification{category: category, ok: ok}
	return category, ok, nil
}

// MostSpecific resolves a set of matched styles to a single one.
func MostSpecific(matches []models.StyleCategory) (models.StyleCategory, bool) {
	if len(matches) == 0 {
		return "", false
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if specificity[m] < specificity[best] {
			best = m
		}
	}
	return best, true
}
