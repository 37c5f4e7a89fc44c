package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KikuchiTomo/cclint/internal/diag"
	"github.com/KikuchiTomo/cclint/internal/plugin"
	"github.com/KikuchiTomo/cclint/internal/rules"
	"github.com/KikuchiTomo/cclint/internal/token"
)

type stubRule struct {
	name string
}

func (r *stubRule) Name() string                { return r.name }
func (r *stubRule) Description() string         { return "a stub rule" }
func (r *stubRule) Category() string            { return "test" }
func (r *stubRule) Initialize(rules.Parameters) {}
func (r *stubRule) CheckText(path, content string, eng *diag.Engine) {
	eng.AddWarning(r.name, "stub finding", token.Position{Filename: path, Line: 1, Column: 1})
}

func TestRegisterAndNewConstructFreshInstances(t *testing.T) {
	r := plugin.NewRegistrar()
	r.Register("custom-rule", func() rules.Rule { return &stubRule{name: "custom-rule"} })

	rule1, err := r.New("custom-rule")
	require.NoError(t, err)
	rule2, err := r.New("custom-rule")
	require.NoError(t, err)

	assert.Equal(t, "custom-rule", rule1.Name())
	assert.NotSame(t, rule1, rule2, "each New call should mint a fresh instance")
}

func TestNewReturnsErrorForUnregisteredName(t *testing.T) {
	r := plugin.NewRegistrar()
	_, err := r.New("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestNamesReportsSortedRegisteredNames(t *testing.T) {
	r := plugin.NewRegistrar()
	r.Register("zeta", func() rules.Rule { return &stubRule{name: "zeta"} })
	r.Register("alpha", func() rules.Rule { return &stubRule{name: "alpha"} })

	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
	assert.Equal(t, 2, r.Size())
}

func TestClearRemovesAllRegistrations(t *testing.T) {
	r := plugin.NewRegistrar()
	r.Register("a", func() rules.Rule { return &stubRule{name: "a"} })
	r.Clear()

	assert.Equal(t, 0, r.Size())
	assert.Empty(t, r.Names())
}

func TestNewRulesConstructsOneRulePerName(t *testing.T) {
	r := plugin.NewRegistrar()
	r.Register("a", func() rules.Rule { return &stubRule{name: "a"} })
	r.Register("b", func() rules.Rule { return &stubRule{name: "b"} })

	built := r.NewRules()
	require.Len(t, built, 2)
	assert.Equal(t, "a", built[0].Name())
	assert.Equal(t, "b", built[1].Name())
}
