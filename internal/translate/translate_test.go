package translate

import (
	"context"
	"strings"
	"testing"
)

func TestFactoryProviders(t *testing.T) {
	ctx := context.Background()
	opts := Options{TargetLanguage: "Japanese"}

	tests := []struct {
		provider Provider
		check    func(Translator) bool
	}{
		{ProviderGemini, func(tr Translator) bool { _, ok := tr.(*GeminiTranslator); return ok }},
		{ProviderOpenAI, func(tr Translator) bool { _, ok := tr.(*OpenAITranslator); return ok }},
		{ProviderAnthropic, func(tr Translator) bool { _, ok := tr.(*AnthropicTranslator); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			translator, err := Factory(ctx, tt.provider, "fake-key", opts)
			if err != nil {
				t.Fatalf("Factory(%s) returned error: %v", tt.provider, err)
			}
			if !tt.check(translator) {
				t.Errorf("unexpected translator type %T", translator)
			}
			if _, ok := translator.(ConcurrentTranslator); !ok {
				t.Errorf("%T should implement ConcurrentTranslator", translator)
			}
		})
	}
}

func TestFactoryRequiresTargetLanguage(t *testing.T) {
	_, err := Factory(context.Background(), ProviderGemini, "fake-key", Options{})
	if err == nil {
		t.Error("expected error for missing target language")
	}
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	opts := Options{TargetLanguage: "French"}
	for _, p := range []Provider{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		if _, err := Factory(context.Background(), p, "", opts); err == nil {
			t.Errorf("%s: expected error for missing API key", p)
		}
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	opts := Options{TargetLanguage: "French"}
	_, err := Factory(context.Background(), Provider("unknown"), "fake-key", opts)
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestAPIKeyEnv(t *testing.T) {
	if got := ProviderAnthropic.APIKeyEnv(); got != "ANTHROPIC_API_KEY" {
		t.Errorf("APIKeyEnv() = %q", got)
	}
	if got := ProviderGemini.APIKeyEnv(); got != "GEMINI_API_KEY" {
		t.Errorf("APIKeyEnv() = %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	opts := Options{
		InputLanguage:  "English",
		TargetLanguage: "Japanese",
		Prompt:         "Use polite forms.",
	}
	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(opts, items)

	for _, want := range []string{
		"English subtitle cues to Japanese",
		"Hello world",
		`"index": 0`,
		"Additional instructions: Use polite forms.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPromptWithoutInputLanguage(t *testing.T) {
	prompt := BuildPrompt(Options{TargetLanguage: "Spanish"}, []TranslationItem{{Index: 0, Text: "Hello"}})

	if strings.Contains(prompt, "English") {
		t.Error("prompt should not contain input language when not specified")
	}
	if !strings.Contains(prompt, "subtitle cues to Spanish") {
		t.Error("prompt should contain target language")
	}
}
