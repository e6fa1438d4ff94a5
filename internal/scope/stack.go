// Package scope tracks the lexical names bound while walking a template, and
// the component blocks whose yielded values are known to be safe components.
package scope

import (
	"slices"
	"strings"

	"github.com/specialistvlad/tmplresolve/internal/rules"
)

// Marker annotates the block parameters of one component invocation with
// what that component yields.
type Marker struct {
	Yields []rules.YieldSlot
	// Args is the live list of named arguments that must resolve as
	// components. It grows when a forwarded yield is used inside the block.
	Args   []string
	onExit func(args []string) error
}

type frame struct {
	params []string
	marker *Marker
}

// Stack is the scope stack of a single walk. The zero value is empty and
// ready to use. It is not safe for concurrent use.
type Stack struct {
	frames []frame
}

// Push opens a block-parameter frame binding names.
func (s *Stack) Push(names []string) {
	s.frames = append(s.frames, frame{params: names})
}

// EnterComponentBlock pushes a marker above the current top frame. The next
// Push is expected to bind the component's block parameters; when that
// frame is popped onExit is called with the final argument list.
func (s *Stack) EnterComponentBlock(yields []rules.YieldSlot, args []string, onExit func(args []string) error) *Marker {
	m := &Marker{Yields: yields, Args: slices.Clone(args), onExit: onExit}
	s.frames = append(s.frames, frame{marker: m})
	return m
}

// Pop closes the innermost block-parameter frame, then fires and removes
// the marker directly beneath it, if any.
func (s *Stack) Pop() error {
	if n := len(s.frames); n > 0 && s.frames[n-1].marker == nil {
		s.frames = s.frames[:n-1]
	}
	n := len(s.frames)
	if n == 0 || s.frames[n-1].marker == nil {
		return nil
	}
	m := s.frames[n-1].marker
	s.frames = s.frames[:n-1]
	if m.onExit != nil {
		return m.onExit(m.Args)
	}
	return nil
}

// Depth reports the number of frames, markers included.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// InScope reports whether name is bound by any block-parameter frame.
func (s *Stack) InScope(name string) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if slices.Contains(s.frames[i].params, name) {
			return true
		}
	}
	return false
}

// SafeComponentInScope reports whether the dotted reference path is a value
// an enclosing component block yields as a safe component. Paths of more
// than two segments are never safe. The nearest frame binding the root
// segment decides: a frame that is not annotated by a marker shadows any
// outer yield.
//
// When the matching yield forwards one of the component's own arguments,
// that argument is added to the marker's Args and the reference is safe.
func (s *Stack) SafeComponentInScope(path string) bool {
	parts := strings.Split(path, ".")
	if len(parts) > 2 {
		return false
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.marker != nil {
			continue
		}
		pos := slices.Index(f.params, parts[0])
		if pos < 0 {
			continue
		}
		if i == 0 || s.frames[i-1].marker == nil {
			return false
		}
		m := s.frames[i-1].marker
		if pos >= len(m.Yields) {
			return false
		}
		y := m.Yields[pos].Yield
		if len(parts) == 2 {
			y = m.Yields[pos].Field(parts[1])
		}
		switch y.Kind {
		case rules.YieldSafeComponent:
			return true
		case rules.YieldForwardsArgument:
			m.Args = append(m.Args, y.Argument)
			return true
		}
		return false
	}
	return false
}
