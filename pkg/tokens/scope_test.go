package tokens_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glimtools/glimtok/pkg/tokens"
)

func TestScope(t *testing.T) {
	var root *tokens.Scope

	assert.False(t, root.IsBound("x"), "nil scope binds nothing")
	assert.Equal(t, 0, root.Depth())

	outer := root.Push([]string{"item", "index"})
	assert.Equal(t, 1, outer.Depth())
	assert.True(t, outer.IsBound("item"))
	assert.True(t, outer.IsBound("index"))
	assert.False(t, outer.IsBound("other"))

	inner := outer.Push([]string{"row"})
	assert.Equal(t, 2, inner.Depth())
	assert.True(t, inner.IsBound("row"))
	assert.True(t, inner.IsBound("item"), "outer frames stay visible")

	assert.Same(t, outer, inner.Parent())
	assert.False(t, outer.IsBound("row"), "pushing never mutates the parent")
}

func TestScopePushEmptyIsNoop(t *testing.T) {
	var root *tokens.Scope
	assert.Nil(t, root.Push(nil))
	assert.Nil(t, root.Push([]string{}))

	outer := root.Push([]string{"a"})
	assert.Same(t, outer, outer.Push(nil))
}

func TestScopeMatchingIsExact(t *testing.T) {
	s := (*tokens.Scope)(nil).Push([]string{"Bar"})
	assert.True(t, s.IsBound("Bar"))
	assert.False(t, s.IsBound("bar"), "case-sensitive")
	assert.False(t, s.IsBound("Ba"), "no prefix matching")
}
