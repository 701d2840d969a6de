package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-pagekit/internal/pages"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema guards the wire shape handed to search backends. Upserting
// a malformed document would poison the index silently, so documents are
// validated before they leave the synchronizer.
const documentSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "type", "website_id", "variants"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"type": {"type": "string", "minLength": 1},
		"website_id": {"type": "string", "minLength": 1},
		"title": {"type": "array", "items": {"type": "string"}},
		"lead": {"type": "array", "items": {"type": "string"}},
		"content": {"type": "array", "items": {"type": "string"}},
		"variants": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["language_id", "status"],
				"properties": {
					"language_id": {"type": "string", "minLength": 1},
					"status": {"type": "string", "minLength": 1},
					"title": {"type": "string"},
					"lead": {"type": "string"},
					"content": {"type": "string"},
					"route": {"type": "string"},
					"tags": {"type": "array", "items": {"type": "string"}}
				}
			}
		}
	}
}`

var (
	compiledSchema     *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaError error
)

func documentValidator() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("page-document.json", bytes.NewReader([]byte(documentSchema))); err != nil {
			compileSchemaError = err
			return
		}
		compiledSchema, compileSchemaError = compiler.Compile("page-document.json")
	})
	return compiledSchema, compileSchemaError
}

// BuildDocument flattens a page aggregate into the document shape stored in
// the index. The document id is the page id, so repeated upserts replace the
// previous body.
func BuildDocument(page *pages.Page) map[string]any {
	titles := make([]string, 0, len(page.Variants))
	leads := make([]string, 0, len(page.Variants))
	contents := make([]string, 0, len(page.Variants))
	variants := make([]any, 0, len(page.Variants))

	for _, variant := range page.Variants {
		titles = append(titles, variant.Title)
		leads = append(leads, variant.Lead)
		contents = append(contents, variant.Content)

		entry := map[string]any{
			"language_id": variant.LanguageID.String(),
			"status":      string(variant.Status),
			"title":       variant.Title,
			"lead":        variant.Lead,
			"content":     variant.Content,
		}
		if variant.Route != nil {
			entry["route"] = variant.Route.URL
		}
		if len(variant.Tags) > 0 {
			names := make([]string, 0, len(variant.Tags))
			for _, tag := range variant.Tags {
				names = append(names, tag.Name)
			}
			entry["tags"] = names
		}
		variants = append(variants, entry)
	}

	return map[string]any{
		"id":         page.ID.String(),
		"type":       string(page.Type),
		"website_id": page.WebsiteID.String(),
		"title":      titles,
		"lead":       leads,
		"content":    contents,
		"variants":   variants,
	}
}

// ValidateDocument checks a document against the index schema.
func ValidateDocument(doc map[string]any) error {
	schema, err := documentValidator()
	if err != nil {
		return fmt.Errorf("search: compile document schema: %w", err)
	}

	// Round-trip through JSON so nested values carry plain JSON types.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search: encode document: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return fmt.Errorf("search: decode document: %w", err)
	}

	if err := schema.Validate(decoded); err != nil {
		return fmt.Errorf("search: invalid document: %s", summarizeValidation(err))
	}
	return nil
}

func summarizeValidation(err error) string {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}

	var parts []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "#"
			}
			parts = append(parts, location+": "+strings.TrimSpace(node.Message))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	return strings.Join(parts, "; ")
}
