package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/ast"
	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

type fakeTextRule struct {
	name, category string
	onCheck        func(path, content string, eng *diag.Engine)
}

func (r *fakeTextRule) Name() string                { return r.name }
func (r *fakeTextRule) Description() string         { return "fake" }
func (r *fakeTextRule) Category() string             { return r.category }
func (r *fakeTextRule) Initialize(rules.Parameters)  {}
func (r *fakeTextRule) CheckText(path, content string, eng *diag.Engine) {
	if r.onCheck != nil {
		r.onCheck(path, content, eng)
	}
}

type panicRule struct{ name string }

func (r *panicRule) Name() string              { return r.name }
func (r *panicRule) Description() string       { return "panics" }
func (r *panicRule) Category() string          { return "style" }
func (r *panicRule) Initialize(rules.Parameters) {}
func (r *panicRule) CheckText(path, content string, eng *diag.Engine) {
	panic("boom")
}

func TestRegistryRegisterIsIdempotentLatestWins(t *testing.T) {
	reg := rules.NewRegistry()
	first := &fakeTextRule{name: "r1", category: "style"}
	second := &fakeTextRule{name: "r1", category: "naming"}

	reg.Register(first)
	reg.Register(second)

	require.Equal(t, 1, reg.Size())
	assert.Equal(t, []string{"r1"}, reg.AllNames())
	assert.Same(t, second, reg.Get("r1"))
}

func TestRegistryEnabledRespectsMeta(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{name: "a", category: "style"})
	reg.Register(&fakeTextRule{name: "b", category: "style"})

	reg.SetMeta("b", rules.Meta{Enabled: false, Severity: diag.Warning})

	enabled := reg.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "a", enabled[0].Name())
}

func TestRegistryByCategorySortsByName(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{name: "zeta", category: "naming"})
	reg.Register(&fakeTextRule{name: "alpha", category: "naming"})
	reg.Register(&fakeTextRule{name: "other", category: "style"})

	got := reg.ByCategory("naming")
	require.Len(t, got, 2)
	assert.Equal(t, "alpha", got[0].Name())
	assert.Equal(t, "zeta", got[1].Name())
}

func TestRegistryClearRemovesEverything(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{name: "a", category: "style"})
	reg.Clear()
	assert.Equal(t, 0, reg.Size())
	assert.Empty(t, reg.AllNames())
}

func TestExecutorRunsEnabledRulesAndCountsDiagnostics(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{
		name:     "adds-warning",
		category: "style",
		onCheck: func(path, content string, eng *diag.Engine) {
			eng.AddWarning("adds-warning", "hi", token.Position{Filename: path, Line: 1, Column: 1})
		},
	})

	exec := rules.NewExecutor(reg, 0, 0)
	eng := diag.NewEngine()
	stats := exec.Execute("a.cc", "content", nil, nil, eng)

	require.Len(t, stats, 1)
	assert.Equal(t, "adds-warning", stats[0].RuleName)
	assert.Equal(t, 1, stats[0].DiagnosticsCount)
	assert.False(t, stats[0].Failed)
	assert.Equal(t, 1, eng.TotalCount())
}

func TestExecutorRecoversFromPanickingRule(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&panicRule{name: "boom-rule"})

	exec := rules.NewExecutor(reg, 0, 0)
	eng := diag.NewEngine()
	stats := exec.Execute("a.cc", "content", nil, nil, eng)

	require.Len(t, stats, 1)
	assert.True(t, stats[0].Failed)
	assert.Contains(t, stats[0].ErrorMessage, "boom")
}

func TestExecutorMarksTimedOutAfterExceedingTimeout(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{
		name:     "slow",
		category: "style",
		onCheck: func(path, content string, eng *diag.Engine) {
			time.Sleep(5 * time.Millisecond)
		},
	})

	exec := rules.NewExecutor(reg, time.Millisecond, 0)
	eng := diag.NewEngine()
	stats := exec.Execute("a.cc", "content", nil, nil, eng)

	require.Len(t, stats, 1)
	assert.True(t, stats[0].TimedOut)
	assert.False(t, stats[0].Failed)
}

func TestExecutorStopsEarlyWhenMaxErrorsReached(t *testing.T) {
	reg := rules.NewRegistry()
	reg.Register(&fakeTextRule{
		name:     "errors-out",
		category: "style",
		onCheck: func(path, content string, eng *diag.Engine) {
			eng.AddError("errors-out", "bad", token.Position{Filename: path, Line: 1, Column: 1})
		},
	})

	exec := rules.NewExecutor(reg, 0, 2)

	eng1 := diag.NewEngine()
	exec.Execute("a.cc", "", nil, nil, eng1)
	assert.False(t, exec.StoppedEarly())

	eng2 := diag.NewEngine()
	exec.Execute("b.cc", "", nil, nil, eng2)
	assert.True(t, exec.StoppedEarly())
}

func TestExecutorDispatchesASTChannelOnlyWhenRootPresent(t *testing.T) {
	called := false
	reg := rules.NewRegistry()
	rule := &astOnlyRule{name: "ast-rule", onCheck: func() { called = true }}
	reg.Register(rule)

	exec := rules.NewExecutor(reg, 0, 0)
	eng := diag.NewEngine()

	exec.Execute("a.cc", "", nil, nil, eng)
	assert.False(t, called, "AST channel must not run without a root node")

	root := ast.New(ast.TranslationUnit, "", token.Position{Filename: "a.cc", Line: 1, Column: 1})
	exec.Execute("a.cc", "", nil, root, eng)
	assert.True(t, called)
}

type astOnlyRule struct {
	name    string
	onCheck func()
}

func (r *astOnlyRule) Name() string              { return r.name }
func (r *astOnlyRule) Description() string       { return "ast only" }
func (r *astOnlyRule) Category() string          { return "style" }
func (r *astOnlyRule) Initialize(rules.Parameters) {}
func (r *astOnlyRule) CheckAST(path string, root *ast.Node, eng *diag.Engine) {
	r.onCheck()
}
