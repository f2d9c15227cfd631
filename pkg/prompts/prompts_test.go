package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	p := Defaults()

	if p.System.Content == "" {
		t.Error("System.Content is empty")
	}
	if p.System.SEO == "" {
		t.Error("System.SEO is empty")
	}
	if !strings.Contains(p.Content.Plan, "imagePrompt") {
		t.Error("Content.Plan should request imagePrompt")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	originalWd, _ := os.Getwd()
	defer func() { _ = os.Chdir(originalWd) }()

	promptsContent := `
system:
  content: "Custom content system prompt"
content:
  request: "Write about {{.Description}}"
`
	if err := os.WriteFile(filepath.Join(tmpDir, "prompts.yaml"), []byte(promptsContent), 0644); err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	p, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.System.Content != "Custom content system prompt" {
		t.Errorf("System.Content = %q, want override", p.System.Content)
	}
	if p.System.SEO != Defaults().System.SEO {
		t.Error("System.SEO should keep the default when not overridden")
	}
	if p.Content.Request != "Write about {{.Description}}" {
		t.Errorf("Content.Request = %q", p.Content.Request)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	p, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if p.Content.Plan != Defaults().Content.Plan {
		t.Error("missing file should yield defaults")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("system: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail on invalid YAML")
	}
}

func TestRenderPlan(t *testing.T) {
	p := Defaults()

	got, err := p.RenderPlan(PlanParams{
		Theme:       "summer",
		Description: "new iced coffee",
		Media:       "instagram, youtube_shorts",
	})
	if err != nil {
		t.Fatalf("RenderPlan() error = %v", err)
	}

	for _, want := range []string{"new iced coffee", "summer", "instagram, youtube_shorts", `"caption"`} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderPlan() missing %q", want)
		}
	}
}

func TestRenderRequest(t *testing.T) {
	p := Defaults()

	got, err := p.RenderRequest(RequestParams{Description: "launch post"})
	if err != nil {
		t.Fatalf("RenderRequest() error = %v", err)
	}
	if got != "Create content for: launch post" {
		t.Errorf("RenderRequest() = %q", got)
	}
}

func TestRenderDocument(t *testing.T) {
	p := Defaults()

	got, err := p.RenderDocument(DocumentParams{Text: "quarterly report"})
	if err != nil {
		t.Fatalf("RenderDocument() error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(got), "quarterly report") {
		t.Errorf("RenderDocument() should end with the document text, got %q", got)
	}
}

func TestRenderInvalidTemplate(t *testing.T) {
	p := &Prompts{Content: ContentPrompts{Request: "{{.Missing"}}

	if _, err := p.RenderRequest(RequestParams{}); err == nil {
		t.Error("RenderRequest() should fail on invalid template")
	}
}
