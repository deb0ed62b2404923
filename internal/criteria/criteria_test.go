package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	cat := Catalog()
	require.Len(t, cat, 11)

	for _, c := range cat {
		assert.NotEmpty(t, c.Key)
		assert.NotEmpty(t, c.Label)
		assert.NotEmpty(t, c.Description)
		assert.Equal(t, c.Key, Normalize(c.Key), "catalog keys must be pre-normalized")
	}
}

func TestNormalize(t *testing.T) {
	t.Run("collapses naming variants", func(t *testing.T) {
		assert.Equal(t, Normalize("Error Handling"), Normalize("error-handling"))
		assert.Equal(t, Normalize("error-handling"), Normalize("error_handling"))
		assert.Equal(t, "error_handling", Normalize("Error Handling"))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, name := range []string{"Error Handling", "SECURITY", "design", "  clarity  "} {
			once := Normalize(name)
			assert.Equal(t, once, Normalize(once))
		}
	})
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("Error Handling")
	require.True(t, ok)
	assert.Equal(t, "error_handling", c.Key)
	assert.Equal(t, "Error Handling", c.Label)

	_, ok = Lookup("vibes")
	assert.False(t, ok)
}

func TestNewSelection(t *testing.T) {
	t.Run("normalizes and dedupes", func(t *testing.T) {
		sel, err := NewSelection("Correctness", "error-handling", "correctness")
		require.NoError(t, err)
		assert.Equal(t, Selection{"correctness", "error_handling"}, sel)
	})

	t.Run("rejects unknown criteria", func(t *testing.T) {
		_, err := NewSelection("correctness", "nonsense")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonsense")
	})

	t.Run("empty means general review", func(t *testing.T) {
		sel, err := NewSelection()
		require.NoError(t, err)
		assert.True(t, sel.IsEmpty())
	})
}

func TestFullSelection(t *testing.T) {
	sel := FullSelection()
	assert.Len(t, sel, len(Catalog()))
	assert.Contains(t, sel, "error_handling")
	assert.Contains(t, sel, "correctness")
}
