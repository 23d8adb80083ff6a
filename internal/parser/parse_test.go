package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaneck/refstack/internal/guideline"
)

const validGuideline = `{
	"version": "2026.01",
	"components": [
		{
			"name": "compute-core",
			"capabilities": [
				{
					"id": "compute-servers-create",
					"status": "required",
					"tests": [
						{"name": "tempest.api.compute.test_create"},
						{"name": "tempest.api.compute.test_delete", "aliases": ["tempest.compute.test_delete"]}
					]
				},
				{
					"id": "compute-quotas",
					"status": "advisory",
					"tests": [
						{"name": "tempest.api.compute.test_quotas", "flagged": true}
					]
				}
			]
		},
		{
			"name": "object-core",
			"capabilities": [
				{
					"id": "object-container-create",
					"status": "required",
					"tests": [
						{"name": "tempest.api.object.test_container"}
					]
				}
			]
		}
	],
	"targets": {
		"compute": ["compute-core"],
		"object": ["object-core"],
		"platform": ["compute-core", "object-core"]
	}
}`

func TestParse_ValidDocument(t *testing.T) {
	doc, err := Parse([]byte(validGuideline))
	require.NoError(t, err)

	assert.Equal(t, "2026.01", doc.Version)
	require.Len(t, doc.Components, 2)
	assert.Equal(t, "compute-core", doc.Components[0].Name)
	require.Len(t, doc.Components[0].Capabilities, 2)

	cap := doc.Components[0].Capabilities[0]
	assert.Equal(t, "compute-servers-create", cap.ID)
	assert.Equal(t, guideline.StatusRequired, cap.Status)
	require.Len(t, cap.Tests, 2)
	assert.Equal(t, []string{"tempest.compute.test_delete"}, cap.Tests[1].Aliases)

	assert.True(t, doc.Components[0].Capabilities[1].Tests[0].Flagged)
	assert.Equal(t, []string{"compute-core", "object-core"}, doc.Targets["platform"])
}

// requireMalformed asserts err is a MalformedGuidelineError containing the
// given code and returns the matching errors.
func requireMalformed(t *testing.T, err error, code string) []ValidationError {
	t.Helper()
	require.Error(t, err)
	require.True(t, IsMalformed(err), "expected MalformedGuidelineError, got %T: %v", err, err)

	me := err.(*MalformedGuidelineError)
	var matching []ValidationError
	for _, ve := range me.Errors {
		if ve.Code == code {
			matching = append(matching, ve)
		}
	}
	require.NotEmpty(t, matching, "expected code %s among %v", code, me.Errors)
	return matching
}

func TestParse_UndefinedComponentReference(t *testing.T) {
	raw := `{
		"version": "2026.01",
		"components": [
			{"name": "compute-core", "capabilities": [
				{"id": "c1", "status": "required", "tests": [{"name": "t1"}]}
			]}
		],
		"targets": {"object": ["missing"]}
	}`

	// The defect must surface at parse time, not evaluation time.
	doc, err := Parse([]byte(raw))
	assert.Nil(t, doc, "no partially constructed document on failure")

	errs := requireMalformed(t, err, ErrUndefinedComponent)
	assert.Equal(t, "targets.object[0]", errs[0].Field)
	assert.Contains(t, errs[0].Message, `"missing"`)
}

func TestParse_MissingVersion(t *testing.T) {
	raw := `{
		"components": [
			{"name": "c", "capabilities": [{"id": "c1", "status": "required", "tests": []}]}
		],
		"targets": {"compute": ["c"]}
	}`

	_, err := Parse([]byte(raw))
	// The CUE gate reports the missing required field before structural checks.
	require.Error(t, err)
	require.True(t, IsMalformed(err))
}

func TestParse_UnrecognizedStatus(t *testing.T) {
	raw := `{
		"version": "2026.01",
		"components": [
			{"name": "c", "capabilities": [
				{"id": "c1", "status": "optional", "tests": [{"name": "t1"}]}
			]}
		],
		"targets": {"compute": ["c"]}
	}`

	_, err := Parse([]byte(raw))
	errs := requireMalformed(t, err, ErrInvalidStatus)
	assert.Equal(t, "components[0].capabilities[0].status", errs[0].Field)
}

func TestParse_DuplicateCapabilityID(t *testing.T) {
	raw := `{
		"version": "2026.01",
		"components": [
			{"name": "c", "capabilities": [
				{"id": "c1", "status": "required", "tests": [{"name": "t1"}]},
				{"id": "c1", "status": "required", "tests": [{"name": "t2"}]}
			]}
		],
		"targets": {"compute": ["c"]}
	}`

	_, err := Parse([]byte(raw))
	requireMalformed(t, err, ErrDuplicateCapability)
}

func TestParse_DuplicateEvidenceWithinCapability(t *testing.T) {
	raw := `{
		"version": "2026.01",
		"components": [
			{"name": "c", "capabilities": [
				{"id": "c1", "status": "required", "tests": [
					{"name": "t1"},
					{"name": "t2", "aliases": ["t1"]}
				]}
			]}
		],
		"targets": {"compute": ["c"]}
	}`

	_, err := Parse([]byte(raw))
	errs := requireMalformed(t, err, ErrDuplicateEvidence)
	assert.Contains(t, errs[0].Message, `"t1"`)
}

func TestParse_SharedEvidenceAcrossCapabilitiesAllowed(t *testing.T) {
	raw := `{
		"version": "2026.01",
		"components": [
			{"name": "c", "capabilities": [
				{"id": "c1", "status": "required", "tests": [{"name": "shared"}]},
				{"id": "c2", "status": "required", "tests": [{"name": "shared"}]}
			]}
		],
		"targets": {"compute": ["c"]}
	}`

	_, err := Parse([]byte(raw))
	assert.NoError(t, err, "the same test may back multiple capabilities")
}

func TestParse_CollectsAllErrors(t *testing.T) {
	raw := `{
		"version": "",
		"components": [
			{"name": "c", "capabilities": [
				{"id": "c1", "status": "bogus", "tests": [{"name": "t1"}]},
				{"id": "c1", "status": "required", "tests": [{"name": ""}]}
			]}
		],
		"targets": {"compute": ["nope"]}
	}`

	_, err := Parse([]byte(raw))
	require.Error(t, err)
	require.True(t, IsMalformed(err))

	me := err.(*MalformedGuidelineError)
	codes := make(map[string]bool)
	for _, ve := range me.Errors {
		codes[ve.Code] = true
	}
	assert.True(t, codes[ErrMissingVersion])
	assert.True(t, codes[ErrInvalidStatus])
	assert.True(t, codes[ErrDuplicateCapability])
	assert.True(t, codes[ErrEmptyTestName])
	assert.True(t, codes[ErrUndefinedComponent])
}

func TestParse_NotJSON(t *testing.T) {
	_, err := Parse([]byte("this is not json"))
	requireMalformed(t, err, ErrGenericParse)
}

func TestParse_WrongFieldType(t *testing.T) {
	raw := `{
		"version": 2026,
		"components": [],
		"targets": {}
	}`

	_, err := Parse([]byte(raw))
	requireMalformed(t, err, ErrSchemaMismatch)
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	require.Error(t, err)
	require.True(t, IsMalformed(err))
}
