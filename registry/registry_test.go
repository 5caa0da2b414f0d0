package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/deeplink/uritemplate"
)

func TestNew(t *testing.T) {
	t.Run("builds from valid entries", func(t *testing.T) {
		reg, err := New(
			Entry{Template: "myapp://gallery/photos/{photo_id}", Handler: "gallery"},
			Entry{Template: "myapp://settings/about", Handler: "about"},
		)
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("empty registry is valid", func(t *testing.T) {
		reg, err := New()
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())

		_, err = reg.Match("myapp://anything")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed template fails the whole batch", func(t *testing.T) {
		_, err := New(
			Entry{Template: "myapp://settings/about", Handler: "about"},
			Entry{Template: "a://h//{}", Handler: "broken"},
		)
		require.Error(t, err)

		var syntaxErr *uritemplate.SyntaxError
		require.ErrorAs(t, err, &syntaxErr)
		assert.Equal(t, "a://h//{}", syntaxErr.Template)
	})
}

func TestTemplates(t *testing.T) {
	t.Run("registration order preserved", func(t *testing.T) {
		reg, err := New(
			Entry{Template: "a://h/one", Handler: 1},
			Entry{Template: "a://h/two", Handler: 2},
			Entry{Template: "b://h/three", Handler: 3},
		)
		require.NoError(t, err)

		tpls := reg.Templates()
		require.Len(t, tpls, 3)
		assert.Equal(t, "a://h/one", tpls[0].String())
		assert.Equal(t, "a://h/two", tpls[1].String())
		assert.Equal(t, "b://h/three", tpls[2].String())
	})
}

func TestAmbiguities(t *testing.T) {
	t.Run("identical shapes reported", func(t *testing.T) {
		reg, err := New(
			Entry{Template: "a://h/x/{id}", Handler: 1},
			Entry{Template: "a://h/x/{name}", Handler: 2},
			Entry{Template: "a://h/y", Handler: 3},
		)
		require.NoError(t, err)

		amb := reg.Ambiguities()
		require.Len(t, amb, 1)
		assert.Equal(t, "a://h/x/{id}", amb[0].First)
		assert.Equal(t, "a://h/x/{name}", amb[0].Second)
	})

	t.Run("distinct shapes are not ambiguous", func(t *testing.T) {
		reg, err := New(
			Entry{Template: "a://h/x/{id}", Handler: 1},
			Entry{Template: "a://h/x/y", Handler: 2},
			Entry{Template: "b://h/x/{id}", Handler: 3},
			Entry{Template: "a://g/x/{id}", Handler: 4},
		)
		require.NoError(t, err)
		assert.Empty(t, reg.Ambiguities())
	})

	t.Run("three identical shapes report two pairs", func(t *testing.T) {
		reg, err := New(
			Entry{Template: "a://h/{p}", Handler: 1},
			Entry{Template: "a://h/{q}", Handler: 2},
			Entry{Template: "a://h/{r}", Handler: 3},
		)
		require.NoError(t, err)

		amb := reg.Ambiguities()
		require.Len(t, amb, 2)
		assert.Equal(t, "a://h/{p}", amb[0].First)
		assert.Equal(t, "a://h/{q}", amb[0].Second)
		assert.Equal(t, "a://h/{p}", amb[1].First)
		assert.Equal(t, "a://h/{r}", amb[1].Second)
	})
}
