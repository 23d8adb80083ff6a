package guideline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{
		"zebra":  1,
		"apple":  2,
		"mantis": 3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"apple":2,"mantis":3,"zebra":1}`, string(data))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	value := map[string]any{
		"overall": true,
		"targets": []any{
			map[string]any{"target": "object", "compliant": false},
		},
		"version": "2026.01",
	}

	first, err := MarshalCanonical(value)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(value)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(data))
}

func TestMarshalCanonical_RejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"ratio": 0.5})
	assert.Error(t, err)
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	assert.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"field": nil})
	assert.Error(t, err)
}

func TestHashWithDomain_DomainSeparation(t *testing.T) {
	data := []byte(`{"overall":true}`)
	a := HashWithDomain(DomainReport, data)
	b := HashWithDomain(DomainDocument, data)
	assert.NotEqual(t, a, b, "different domains must hash differently")
	assert.Equal(t, a, HashWithDomain(DomainReport, data), "same domain and data must be stable")
}
