package sframe

import (
	"github.com/npillmayer/mxl"
	"github.com/npillmayer/mxl/variables"
)

// For MXL, scopes and memory frames collapse to one. There is no static scope
// tree, as scopes are dynamically created for groups.

// DynamicScopeFrame is a scope holding a symbol table for the variables
// declared within it.
type DynamicScopeFrame struct {
	Name    string
	symbols *variables.SymbolTable
	Parent  *DynamicScopeFrame
}

// MakeScopeFrame creates a scope frame with an empty symbol table.
func MakeScopeFrame(name string) DynamicScopeFrame {
	if name == "" {
		name = "⟨scope⟩"
	}
	return DynamicScopeFrame{
		Name:    name,
		symbols: variables.NewSymbolTable(name),
	}
}

// Symbols returns the symbol table of this frame.
func (dsf *DynamicScopeFrame) Symbols() *variables.SymbolTable {
	return dsf.symbols
}

// Declare enters a variable into this frame. It is an error to declare the
// same name twice in one frame, but inner frames may shadow outer ones.
func (dsf *DynamicScopeFrame) Declare(v *variables.VarRef) error {
	if err := dsf.symbols.Insert(v); err != nil {
		return err
	}
	tracer().P("var", v.Name()).Debugf("declared in scope %s", dsf.Name)
	return nil
}

// Resolve searches for a variable, starting at this frame and continuing
// outwards. Returns the variable and the frame it lives in, or nil.
func (dsf *DynamicScopeFrame) Resolve(name string) (*variables.VarRef, *DynamicScopeFrame) {
	for sc := dsf; sc != nil; sc = sc.Parent {
		if v := sc.symbols.Resolve(name); v != nil {
			return v, sc
		}
	}
	return nil, nil
}

// ScopeFrameTree can be treated as a stack during static analysis, thus we'll be
// building a tree from scopes which are pushed and popped to/from the stack.
//
type ScopeFrameTree struct {
	ScopeBase *DynamicScopeFrame
	ScopeTOS  *DynamicScopeFrame
}

// NewScopeFrameTree creates a scope tree with the global scope in place.
func NewScopeFrameTree() *ScopeFrameTree {
	scst := &ScopeFrameTree{}
	scst.PushNewFrame("globals")
	return scst
}

// Current gets the current scope of a stack (TOS).
func (scst *ScopeFrameTree) Current() *DynamicScopeFrame {
	if scst.ScopeTOS == nil {
		panic("attempt to access scope from empty stack")
	}
	return scst.ScopeTOS
}

// Globals gets the outermost scope, containing global symbols.
func (scst *ScopeFrameTree) Globals() *DynamicScopeFrame {
	if scst.ScopeBase == nil {
		panic("attempt to access global scope from empty stack")
	}
	return scst.ScopeBase
}

// Depth returns the number of frames on the stack, including the global one.
func (scst *ScopeFrameTree) Depth() int {
	d := 0
	for sc := scst.ScopeTOS; sc != nil; sc = sc.Parent {
		d++
	}
	return d
}

// PushNewFrame pushes a scope onto the stack of scopes. A scope is constructed, including a symbol table
// for variable declarations.
func (scst *ScopeFrameTree) PushNewFrame(name string) *DynamicScopeFrame {
	scp := scst.ScopeTOS
	newsc := MakeScopeFrame(name)
	newsc.Parent = scp
	if scp == nil { // the new scope is the global scope
		scst.ScopeBase = &newsc // make new scope anchor
	}
	scst.ScopeTOS = &newsc // new scope now TOS
	tracer().P("scope", newsc.Name).Debugf("pushing new scope")
	return &newsc
}

// PopFrame pops the top-most (recent) scope. The global scope cannot be
// popped, trying to do so results in an error with code SyntaxError, as it
// stems from an unbalanced group.
func (scst *ScopeFrameTree) PopFrame() (*DynamicScopeFrame, error) {
	if scst.ScopeTOS == nil {
		panic("attempt to pop scope from empty stack")
	}
	if scst.ScopeTOS == scst.ScopeBase {
		tracer().Errorf("attempt to pop global scope")
		return nil, mxl.Errorf(mxl.SyntaxError, "endgroup without begingroup")
	}
	sc := scst.ScopeTOS
	tracer().Debugf("popping scope [%s]", sc.Name)
	scst.ScopeTOS = scst.ScopeTOS.Parent
	return sc, nil
}

// Resolve searches for a variable, starting at the current scope.
func (scst *ScopeFrameTree) Resolve(name string) (*variables.VarRef, *DynamicScopeFrame) {
	return scst.Current().Resolve(name)
}
