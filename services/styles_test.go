package services

import (
	"testing"

	"beer-vote/config"
	"beer-vote/models"
)

func TestClassifyBuiltinRules(t *testing.T) {
	c := NewDefaultStyleClassifier()

	tests := []struct {
		style string
		want  models.StyleCategory
		ok    bool
	}{
		{"American IPA", models.StyleIPA, true},
		{"American Double / Imperial IPA", models.StyleIPA, true},
		{"English India Pale Ale (IPA)", models.StyleIPA, true},
		{"American Pale Ale (APA)", models.StylePaleAle, true},
		{"Belgian Pale Ale", models.StylePaleAle, true},
		{"Irish Red Ale", models.StyleRedAmberAle, true},
		{"American Amber / Red Ale", models.StyleRedAmberAle, true},
		{"American Amber / Red Lager", models.StyleLager, true},
		{"Euro Pale Lager", models.StyleLager, true},
		{"Pale Ale Lager", models.StyleLager, true},
		{"Red Ale Lager", models.StyleLager, true},
		{"Czech Pilsener", models.StylePilsner, true},
		{"Russian Imperial Stout", models.StyleStout, true},
		{"Baltic Porter", models.StylePorter, true},
		{"Scotch Ale / Wee Heavy", models.StyleOtherAle, true},
		{"American Brown Ale", models.StyleOtherAle, true},
		{"Hefeweizen", "", false},
		{"Kölsch", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok, err := c.Classify(tt.style)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.style, err)
		}
		if ok != tt.ok || got != tt.want {
			t.Errorf("Classify(%q) = %q, %t; want %q, %t", tt.style, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyIPANeverOtherAle(t *testing.T) {
	c := NewDefaultStyleClassifier()
	for _, style := range []string{
		"American IPA", "Black IPA", "India Pale Ale", "Belgian India Pale Ale",
		"Red IPA Ale", "Session IPA Ale", "Amber India Pale Ale",
	} {
		got, ok, err := c.Classify(style)
		if err != nil {
			t.Fatalf("Classify(%q): %v", style, err)
		}
		if !ok || got != models.StyleIPA {
			t.Errorf("Classify(%q) = %q; want IPA", style, got)
		}
	}
}

func TestClassifyTokensAreSpaceDelimited(t *testing.T) {
	c := NewDefaultStyleClassifier()
	// "Ale," is not the token "Ale".
	if _, ok, _ := c.Classify("Pale Ale,"); ok {
		t.Error("punctuation attached to a keyword should not match")
	}
	// Keywords are case sensitive.
	if _, ok, _ := c.Classify("pale ale"); ok {
		t.Error("lower-case keywords should not match")
	}
}

func TestMostSpecific(t *testing.T) {
	tests := []struct {
		in   []models.StyleCategory
		want models.StyleCategory
		ok   bool
	}{
		{nil, "", false},
		{[]models.StyleCategory{models.StyleOtherAle, models.StyleIPA}, models.StyleIPA, true},
		{[]models.StyleCategory{models.StyleOtherAle, models.StyleRedAmberAle, models.StylePaleAle}, models.StylePaleAle, true},
		{[]models.StyleCategory{models.StyleOtherAle, models.StyleRedAmberAle}, models.StyleRedAmberAle, true},
		{[]models.StyleCategory{models.StyleLager, models.StylePilsner}, models.StylePilsner, true},
		{[]models.StyleCategory{models.StylePaleAle, models.StyleLager}, models.StyleLager, true},
	}
	for _, tt := range tests {
		got, ok := MostSpecific(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MostSpecific(%v) = %q, %t; want %q, %t", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCELStyleRules(t *testing.T) {
	rules, err := CELStyleRules([]config.StyleRule{
		{Category: "Stout", Expr: `"Stout" in tokens`},
		{Category: "Other Ale", Expr: `"Ale" in tokens || "Weizen" in tokens`},
		{Category: "IPA", Expr: `tokens.exists(t, t.endsWith("IPA"))`},
	})
	if err != nil {
		t.Fatalf("CELStyleRules: %v", err)
	}
	c := NewStyleClassifier(rules)

	tests := []struct {
		style string
		want  models.StyleCategory
		ok    bool
	}{
		{"Oatmeal Stout", models.StyleStout, true},
		{"Berliner Weizen", models.StyleOtherAle, true},
		{"New England NEIPA Ale", models.StyleIPA, true},
		{"Euro Pale Lager", "", false},
	}
	for _, tt := range tests {
		got, ok, err := c.Classify(tt.style)
		if err != nil {
			t.Fatalf("Classify(%q): %v", tt.style, err)
		}
		if got != tt.want || ok != tt.ok {
			t.Errorf("Classify(%q) = %q, %t; want %q, %t", tt.style, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCELStyleRulesRejectsBadRules(t *testing.T) {
	tests := []config.StyleRule{
		{Category: "Sour", Expr: `"Sour" in tokens`},
		{Category: "Stout", Expr: `"Stout" in`},
		{Category: "Stout", Expr: `size(tokens)`},
	}
	for _, r := range tests {
		if _, err := CELStyleRules([]config.StyleRule{r}); err == nil {
			t.Errorf("expected error for rule %+v", r)
		}
	}
}

func TestClassifyMemoises(t *testing.T) {
	calls := 0
	c := NewStyleClassifier([]StyleRule{{
		Category: models.StyleLager,
		Match: func(_ []string, s tokenSet) (bool, error) {
			calls++
			return s.has("Lager"), nil
		},
	}})
	for i := 0; i < 3; i++ {
		if _, _, err := c.Classify("Pale Lager"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("rule evaluated %d times, want 1", calls)
	}
}
