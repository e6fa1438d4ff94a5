package scope

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/tmplresolve/internal/rules"
)

func TestStack_InScope(t *testing.T) {
	var s Stack
	s.Push([]string{"a"})
	s.Push([]string{"b", "c"})

	assert.True(t, s.InScope("a"))
	assert.True(t, s.InScope("c"))
	assert.False(t, s.InScope("d"))

	require.NoError(t, s.Pop())
	assert.False(t, s.InScope("c"))
	assert.True(t, s.InScope("a"))
	assert.Equal(t, 1, s.Depth())
}

func TestStack_PopFiresMarker(t *testing.T) {
	// Arrange
	var s Stack
	s.Push(nil)
	var got []string
	s.EnterComponentBlock(nil, []string{"title"}, func(args []string) error {
		got = args
		return nil
	})
	s.Push([]string{"m"})

	// Act
	err := s.Pop()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, got)
	assert.Equal(t, 1, s.Depth())
}

func TestStack_PopReturnsHookError(t *testing.T) {
	var s Stack
	boom := errors.New("boom")
	s.EnterComponentBlock(nil, nil, func([]string) error { return boom })
	s.Push(nil)
	assert.ErrorIs(t, s.Pop(), boom)
	assert.Equal(t, 0, s.Depth())
}

func TestStack_SafeComponentInScope(t *testing.T) {
	yields := []rules.YieldSlot{
		{Yield: rules.Yield{Kind: rules.YieldSafeComponent}},
		{Fields: map[string]rules.Yield{"header": {Kind: rules.YieldSafeComponent}}},
	}
	testCases := []struct {
		path string
		want bool
	}{
		{path: "whole", want: true},
		{path: "parts.header", want: true},
		{path: "parts.footer", want: false},
		{path: "parts", want: false},
		{path: "whole.field", want: false},
		{path: "extra", want: false},
		{path: "unbound", want: false},
		{path: "parts.header.deep", want: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			var s Stack
			s.Push(nil)
			s.EnterComponentBlock(yields, nil, nil)
			s.Push([]string{"whole", "parts", "extra"})
			assert.Equal(t, tc.want, s.SafeComponentInScope(tc.path))
		})
	}
}

func TestStack_SafeComponentInScope_ForwardsArgument(t *testing.T) {
	// Arrange
	var s Stack
	var fired []string
	s.EnterComponentBlock([]rules.YieldSlot{
		{Yield: rules.Yield{Kind: rules.YieldForwardsArgument, Argument: "title"}},
		{Fields: map[string]rules.Yield{"footer": {Kind: rules.YieldForwardsArgument, Argument: "footer"}}},
	}, []string{"body"}, func(args []string) error {
		fired = args
		return nil
	})
	s.Push([]string{"t", "f"})

	// Act
	assert.True(t, s.SafeComponentInScope("t"))
	assert.True(t, s.SafeComponentInScope("f.footer"))
	require.NoError(t, s.Pop())

	// Assert
	assert.Equal(t, []string{"body", "title", "footer"}, fired)
}

func TestStack_NearestBindingShadows(t *testing.T) {
	safe := []rules.YieldSlot{{Yield: rules.Yield{Kind: rules.YieldSafeComponent}}}

	t.Run("inner plain frame", func(t *testing.T) {
		var s Stack
		s.EnterComponentBlock(safe, nil, nil)
		s.Push([]string{"x"})
		s.Push([]string{"x"})
		assert.False(t, s.SafeComponentInScope("x"))
		require.NoError(t, s.Pop())
		assert.True(t, s.SafeComponentInScope("x"))
	})

	t.Run("inner unsafe marker", func(t *testing.T) {
		var s Stack
		s.EnterComponentBlock(safe, nil, nil)
		s.Push([]string{"x"})
		s.EnterComponentBlock(nil, nil, nil)
		s.Push([]string{"x"})
		assert.False(t, s.SafeComponentInScope("x"))
	})

	t.Run("inner frame binding another name", func(t *testing.T) {
		var s Stack
		s.EnterComponentBlock(safe, nil, nil)
		s.Push([]string{"x"})
		s.Push([]string{"y"})
		assert.True(t, s.SafeComponentInScope("x"))
	})
}
