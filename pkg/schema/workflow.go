package schema

// ForbiddenWorkflowFields are workflow-level keys the n8n API rejects on
// create/update with "must NOT have additional properties". Kept sorted so
// derived error lists are deterministic.
var ForbiddenWorkflowFields = []string{
	"active",
	"createdAt",
	"description",
	"id",
	"meta",
	"pinData",
	"staticData",
	"triggerCount",
	"updatedAt",
	"versionCounter",
	"versionId",
}

// RequiredWorkflowFields must be present at the workflow root level.
var RequiredWorkflowFields = []string{"connections", "name", "nodes"}

// RequiredNodeFields must be present on every node in the nodes array.
var RequiredNodeFields = []string{"id", "name", "position", "type", "typeVersion"}

// AllowedCloneFields are the only workflow fields copied when cloning;
// everything else is read-only server state.
var AllowedCloneFields = []string{"connections", "name", "nodes", "settings"}

// CredentialRefKind tags how a node references a credential.
type CredentialRefKind int

const (
	// CredentialRefOther covers malformed or unrecognized references.
	CredentialRefOther CredentialRefKind = iota
	// CredentialRefByID references a credential by its stable ID.
	CredentialRefByID
	// CredentialRefByName references a credential by display name only,
	// which breaks when credentials are renamed.
	CredentialRefByName
)

// CredentialRef is the tagged form of a node credential reference.
type CredentialRef struct {
	Kind CredentialRefKind
	ID   string
	Name string
}

// ParseCredentialRef classifies a raw credential reference value. A
// reference carrying an id is by-id regardless of whether a name is also
// present; one carrying only a name is the unreliable by-name form.
func ParseCredentialRef(v any) CredentialRef {
	m, ok := v.(map[string]any)
	if !ok {
		return CredentialRef{Kind: CredentialRefOther}
	}
	id, hasID := m["id"]
	name, hasName := m["name"]
	switch {
	case hasID:
		s, _ := id.(string)
		n, _ := name.(string)
		return CredentialRef{Kind: CredentialRefByID, ID: s, Name: n}
	case hasName:
		n, _ := name.(string)
		return CredentialRef{Kind: CredentialRefByName, Name: n}
	default:
		return CredentialRef{Kind: CredentialRefOther}
	}
}
