package schema

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationReport_ToMap(t *testing.T) {
	r := &ValidationReport{}
	assert.True(t, r.Valid())

	m := r.ToMap()
	assert.Equal(t, true, m["valid"])
	assert.Equal(t, []string{}, m["errors"])
	assert.Equal(t, []string{}, m["warnings"])

	// Empty slices marshal as [], never null.
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")

	r.AddError("broken")
	r.AddWarning("suspicious")
	m = r.ToMap()
	assert.Equal(t, false, m["valid"])
	assert.Equal(t, 1, m["error_count"])
	assert.Equal(t, 1, m["warning_count"])
}

func TestFieldListsSorted(t *testing.T) {
	assert.True(t, sort.StringsAreSorted(ForbiddenWorkflowFields))
	assert.True(t, sort.StringsAreSorted(RequiredWorkflowFields))
	assert.True(t, sort.StringsAreSorted(RequiredNodeFields))
	assert.True(t, sort.StringsAreSorted(AllowedCloneFields))
}

func TestParseCredentialRef(t *testing.T) {
	ref := ParseCredentialRef(map[string]any{"id": "c1", "name": "GitHub"})
	assert.Equal(t, CredentialRefByID, ref.Kind)
	assert.Equal(t, "c1", ref.ID)
	assert.Equal(t, "GitHub", ref.Name)

	ref = ParseCredentialRef(map[string]any{"name": "GitHub"})
	assert.Equal(t, CredentialRefByName, ref.Kind)
	assert.Equal(t, "GitHub", ref.Name)

	ref = ParseCredentialRef(map[string]any{})
	assert.Equal(t, CredentialRefOther, ref.Kind)

	ref = ParseCredentialRef("just a string")
	assert.Equal(t, CredentialRefOther, ref.Kind)
}

func TestBridgeError(t *testing.T) {
	err := NewErrorf(ErrCodeBadInput, "bad %s", "argument")
	assert.Equal(t, ErrCodeBadInput, err.Code)
	assert.Contains(t, err.Error(), "bad argument")

	cause := NewError(ErrCodeTransport, "inner")
	wrapped := NewError(ErrCodeInternal, "outer").WithCause(cause)
	assert.ErrorIs(t, wrapped, cause)
}
