package preprocessor

import "github.com/KikuchiTomo/cclint/internal/token"

var zeroPos = token.Position{}

// branchFrame tracks one level of #if/#ifdef/#ifndef ... #endif nesting.
type branchFrame struct {
	// active is whether the current branch's tokens should be emitted.
	active bool
	// anyTaken latches true once some branch in this frame has been active:
	// once a branch emits tokens, subsequent #elif branches become inactive.
	anyTaken bool
	// sawElse records whether #else has already appeared, to diagnose a
	// stray second #else or #elif following it.
	sawElse bool
}

// conditionalStack is the preprocessor's nested #if stack.
type conditionalStack struct {
	frames []branchFrame
}

// active reports whether tokens should currently be emitted: true iff the
// stack is empty (top level) or every frame on the stack is active.
func (s *conditionalStack) active() bool {
	for _, f := range s.frames {
		if !f.active {
			return false
		}
	}
	return true
}

// parentActive reports whether the frame enclosing the current top frame
// (i.e. everything but the frame currently being pushed/popped) is active.
// Used to decide whether a new #if's condition should even be evaluated.
func (s *conditionalStack) parentActive() bool {
	if len(s.frames) == 0 {
		return true
	}
	for _, f := range s.frames[:len(s.frames)-1] {
		if !f.active {
			return false
		}
	}
	return true
}

func (s *conditionalStack) push(conditionTrue bool) {
	s.frames = append(s.frames, branchFrame{active: conditionTrue, anyTaken: conditionTrue})
}

func (s *conditionalStack) elif(conditionTrue bool) error {
	if len(s.frames) == 0 {
		return newError(zeroPos, "#elif without matching #if")
	}
	top := &s.frames[len(s.frames)-1]
	if top.sawElse {
		return newError(zeroPos, "#elif after #else")
	}
	if top.anyTaken {
		top.active = false
		return nil
	}
	top.active = conditionTrue
	top.anyTaken = conditionTrue
	return nil
}

func (s *conditionalStack) els() error {
	if len(s.frames) == 0 {
		return newError(zeroPos, "#else without matching #if")
	}
	top := &s.frames[len(s.frames)-1]
	if top.sawElse {
		return newError(zeroPos, "#else after #else")
	}
	top.sawElse = true
	top.active = !top.anyTaken
	if !top.anyTaken {
		top.anyTaken = true
	}
	return nil
}

func (s *conditionalStack) endif() error {
	if len(s.frames) == 0 {
		return newError(zeroPos, "#endif without matching #if")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

func (s *conditionalStack) unterminated() bool {
	return len(s.frames) > 0
}
