// Package expressions provides jq-based reshaping of n8n API responses, so
// agents can trim noisy payloads server-side instead of burning tokens on
// full resource lists.
package expressions

import (
	"context"
	"sync"

	"github.com/itchyny/gojq"

	"n8nmcp/pkg/schema"
)

// JQ compiles and evaluates jq expressions against decoded API responses.
// Thread-safe: compiled *gojq.Code objects are cached and reused.
type JQ struct {
	mu    sync.RWMutex
	cache map[string]*gojq.Code
}

// NewJQ creates a JQ filter engine with an empty compile cache.
func NewJQ() *JQ {
	return &JQ{cache: make(map[string]*gojq.Code)}
}

// Apply evaluates a jq expression against a decoded JSON document.
// jq expressions can produce multiple outputs: a single output is returned
// directly, multiple outputs are collected into a slice, zero outputs yield
// nil.
func (j *JQ) Apply(ctx context.Context, expression string, doc any) (any, error) {
	if expression == "" {
		return nil, schema.NewError(schema.ErrCodeBadInput, "empty jq expression")
	}

	code, err := j.getOrCompile(expression)
	if err != nil {
		return nil, err
	}

	iter := code.RunWithContext(ctx, doc)

	var results []any
	for {
		val, ok := iter.Next()
		if !ok {
			break
		}
		if evalErr, isErr := val.(error); isErr {
			return nil, schema.NewErrorf(schema.ErrCodeBadInput,
				"jq evaluation failed for %q: %s", expression, evalErr.Error()).
				WithCause(evalErr)
		}
		results = append(results, val)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func (j *JQ) getOrCompile(expression string) (*gojq.Code, error) {
	j.mu.RLock()
	if code, ok := j.cache[expression]; ok {
		j.mu.RUnlock()
		return code, nil
	}
	j.mu.RUnlock()

	j.mu.Lock()
	defer j.mu.Unlock()

	if code, ok := j.cache[expression]; ok {
		return code, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeBadInput,
			"jq parse error in %q: %s", expression, err.Error()).WithCause(err)
	}

	code, err := gojq.Compile(query,
		// Block $ENV/env so expressions can't read the API key.
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeBadInput,
			"jq compile error in %q: %s", expression, err.Error()).WithCause(err)
	}

	j.cache[expression] = code
	return code, nil
}
