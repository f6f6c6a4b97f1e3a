package constraint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip pushes a constraint through its declarative form and back.
func roundTrip(t *testing.T, c Constraint) Constraint {
	t.Helper()
	cfg, err := c.Config()
	require.NoError(t, err)
	decoded, err := FromConfig(cfg)
	require.NoError(t, err)
	return decoded
}

func TestRoundTripAllVariants(t *testing.T) {
	deps, err := NewDependencies(
		[]string{"s1", "s2"},
		[]Condition{mustSubSelection(t, "on"), mustThreshold(t, 0, ">")},
		[][]string{{"x1"}, {"x2"}},
	)
	require.NoError(t, err)

	exclude, err := NewExclude(
		[]string{"temp", "solvent"},
		[]Condition{mustThreshold(t, 50, ">"), mustSubSelection(t, "water", "ethanol")},
		CombinerXor,
	)
	require.NoError(t, err)

	sum, err := NewSum([]string{"x1", "x2"}, mustThreshold(t, 2, ">="))
	require.NoError(t, err)
	product, err := NewProduct([]string{"x1", "x2"}, mustThreshold(t, 1, "=="))
	require.NoError(t, err)
	noDup, err := NewNoLabelDuplicates([]string{"p1", "p2", "p3"})
	require.NoError(t, err)
	linked, err := NewLinkedParameters([]string{"e1", "e2"})
	require.NoError(t, err)
	permInv, err := NewPermutationInvariance([]string{"x1", "x2"}, deps)
	require.NoError(t, err)
	permInvPlain, err := NewPermutationInvariance([]string{"x1", "x2"}, nil)
	require.NoError(t, err)

	opts := cmp.AllowUnexported(Dependencies{})
	for _, c := range []Constraint{exclude, sum, product, noDup, linked, deps, permInv, permInvPlain} {
		decoded := roundTrip(t, c)
		if diff := cmp.Diff(c, decoded, opts); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", c.ConstraintType(), diff)
		}
	}
}

func TestRoundTripPreservesWiredInvariance(t *testing.T) {
	deps, err := NewDependencies(
		[]string{"s"},
		[]Condition{mustSubSelection(t, "on")},
		[][]string{{"x"}},
	)
	require.NoError(t, err)

	permInv, err := NewPermutationInvariance([]string{"a", "b"}, deps)
	require.NoError(t, err)

	decoded := roundTrip(t, permInv).(*PermutationInvariance)
	assert.True(t, decoded.Dependencies.PermutationInvariant())

	// a standalone dependency constraint stays ordered
	decodedDeps := roundTrip(t, deps).(*Dependencies)
	assert.False(t, decodedDeps.PermutationInvariant())
}

func TestConditionRoundTrip(t *testing.T) {
	for _, c := range []Condition{
		mustThreshold(t, 1.5, "<="),
		mustThreshold(t, 3, "!="),
		mustSubSelection(t, "water", "ethanol"),
	} {
		decoded, err := ConditionFromConfig(c.Config())
		require.NoError(t, err)
		if diff := cmp.Diff(c, decoded); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", c.ConditionType(), diff)
		}
	}
}

func TestUnknownTypes(t *testing.T) {
	_, err := FromConfig(Config{"type": "FROBNICATE", "parameters": []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a recognized constraint type")
	assert.Contains(t, err.Error(), "EXCLUDE")

	_, err = ConditionFromConfig(Config{"type": "REGEX"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a recognized condition type")
	assert.Contains(t, err.Error(), "THRESHOLD")

	_, err = FromConfig(Config{"parameters": []string{"x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestFromConfigFieldErrors(t *testing.T) {
	// tolerance with an ordering operator is rejected at construction
	_, err := ConditionFromConfig(Config{"type": "THRESHOLD", "threshold": 1.0, "operator": ">", "tolerance": 0.1})
	require.Error(t, err)

	_, err = FromConfig(Config{"type": "SUM", "parameters": []string{"x"}, "condition": Config{"type": "SUBSELECTION", "selection": []string{"a"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "THRESHOLD")

	_, err = FromConfig(Config{"type": "EXCLUDE", "parameters": []string{"x"}, "conditions": "nope"})
	require.Error(t, err)
}

// declarative shapes as produced by yaml decoding: []any and float64 scalars
func TestFromConfigDecodedShapes(t *testing.T) {
	c, err := FromConfig(Config{
		"type":       "EXCLUDE",
		"parameters": []any{"temp", "solvent"},
		"conditions": []any{
			map[string]any{"type": "THRESHOLD", "threshold": 50, "operator": ">"},
			map[string]any{"type": "SUBSELECTION", "selection": []any{"water"}},
		},
		"combiner": "OR",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"temp", "solvent"}, c.Parameters())

	// combiner defaults to AND when absent
	c, err = FromConfig(Config{
		"type":       "EXCLUDE",
		"parameters": []string{"x"},
		"conditions": []Config{{"type": "THRESHOLD", "threshold": 1, "operator": "<"}},
	})
	require.NoError(t, err)
	assert.Equal(t, CombinerAnd, c.(*Exclude).Combiner)
}

func TestMarshalRoundTrip(t *testing.T) {
	sum, err := NewSum([]string{"x1", "x2"}, mustThreshold(t, 2, ">="))
	require.NoError(t, err)

	data, err := Marshal(sum)
	require.NoError(t, err)
	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	if diff := cmp.Diff(Constraint(sum), decoded); diff != "" {
		t.Errorf("marshal round trip mismatch (-want +got):\n%s", diff)
	}

	cond := mustSubSelection(t, "a", "b")
	cdata, err := MarshalCondition(cond)
	require.NoError(t, err)
	cdecoded, err := UnmarshalCondition(cdata)
	require.NoError(t, err)
	if diff := cmp.Diff(Condition(cond), cdecoded); diff != "" {
		t.Errorf("condition marshal round trip mismatch (-want +got):\n%s", diff)
	}
}

// serialized threshold conditions survive arbitrary parameters
func TestThresholdMarshalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	operators := gen.OneConstOf("<", "<=", "=", "==", "!=", ">", ">=")

	properties := gopter.NewProperties(parameters)
	properties.Property("UnmarshalCondition(MarshalCondition(c)) == c", prop.ForAll(
		func(threshold float64, operator string) bool {
			c, err := NewThreshold(threshold, operator)
			if err != nil {
				return false
			}
			data, err := MarshalCondition(c)
			if err != nil {
				return false
			}
			decoded, err := UnmarshalCondition(data)
			if err != nil {
				return false
			}
			return cmp.Equal(Condition(c), decoded)
		},
		gen.Float64Range(-1e9, 1e9),
		operators,
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
