package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// CredentialSchemaValidator checks credential data payloads against the
// JSON schema n8n publishes per credential type, catching shape errors
// before the API turns them into an opaque 400. Safe for concurrent use;
// compiled schemas are cached per schema document.
type CredentialSchemaValidator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewCredentialSchemaValidator creates a validator with an empty cache.
func NewCredentialSchemaValidator() *CredentialSchemaValidator {
	return &CredentialSchemaValidator{cache: make(map[string]*jsonschema.Schema)}
}

// Validate returns the list of violations of data against credSchema.
// An empty list means the data conforms. A schema that cannot be compiled
// is an error: the caller asked for validation it cannot have.
func (v *CredentialSchemaValidator) Validate(data map[string]any, credSchema map[string]any) ([]string, error) {
	raw, err := json.Marshal(credSchema)
	if err != nil {
		return nil, fmt.Errorf("serialize credential schema: %w", err)
	}

	compiled, err := v.getOrCompile(raw)
	if err != nil {
		return nil, err
	}

	doc, err := toJSONValue(data)
	if err != nil {
		return nil, fmt.Errorf("serialize credential data: %w", err)
	}

	verr := compiled.Validate(doc)
	if verr == nil {
		return nil, nil
	}
	if tree, ok := verr.(*jsonschema.ValidationError); ok {
		return collectViolations(tree), nil
	}
	return []string{verr.Error()}, nil
}

func (v *CredentialSchemaValidator) getOrCompile(schemaBytes []byte) (*jsonschema.Schema, error) {
	key := string(schemaBytes)

	v.mu.RLock()
	if cached, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return cached, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if cached, ok := v.cache[key]; ok {
		return cached, nil
	}

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(key))
	if err != nil {
		return nil, fmt.Errorf("unmarshal credential schema: %w", err)
	}

	// Fresh compiler per schema; resource URLs would otherwise collide.
	url := fmt.Sprintf("n8n://credential-schema/%d", len(v.cache))
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add credential schema resource: %w", err)
	}

	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile credential schema: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}

// toJSONValue round-trips a Go value through JSON so numbers become
// json.Number, which the jsonschema library requires.
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(strings.NewReader(string(b)))
}

// collectViolations walks a ValidationError tree and collects leaf messages
// with their instance locations.
func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}

	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
