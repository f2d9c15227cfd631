package prompts

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

// Names of prompt templates that can be overridden from the prompt_templates table.
const (
	TemplateContentGenerator = "default_content_generator"
	TemplateSEOAnalyzer      = "seo_analyzer"
	TemplateDocumentAnalyzer = "document_analyzer"
)

//go:embed defaults.yaml
var defaultPrompts []byte

type Prompts struct {
	System   SystemPrompts   `yaml:"system"`
	Content  ContentPrompts  `yaml:"content"`
	Analysis AnalysisPrompts `yaml:"analysis"`
}

type SystemPrompts struct {
	Content  string `yaml:"content"`
	SEO      string `yaml:"seo"`
	Document string `yaml:"document"`
}

type ContentPrompts struct {
	Request string `yaml:"request"`
	Plan    string `yaml:"plan"`
}

type AnalysisPrompts struct {
	Document string `yaml:"document"`
}

type RequestParams struct {
	Theme       string
	Description string
}

type PlanParams struct {
	Theme       string
	Description string
	Media       string
}

type DocumentParams struct {
	Text string
}

// Defaults returns the built-in prompts.
func Defaults() *Prompts {
	p, err := parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return p
}

func Load() (*Prompts, error) {
	return LoadFrom(defaultPromptsPath)
}

// LoadFrom overlays the prompts file at path on the built-in defaults. A
// missing file yields the defaults.
func LoadFrom(path string) (*Prompts, error) {
	p := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}

	return p, nil
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Prompts) RenderRequest(params RequestParams) (string, error) {
	return render(p.Content.Request, params)
}

func (p *Prompts) RenderPlan(params PlanParams) (string, error) {
	return render(p.Content.Plan, params)
}

func (p *Prompts) RenderDocument(params DocumentParams) (string, error) {
	return render(p.Analysis.Document, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
