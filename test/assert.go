package test

import (
	"testing"

	"github.com/PolyhedraZK/zkmlp/checker"
	"github.com/PolyhedraZK/zkmlp/field"
	"github.com/consensys/gnark/constraint"
	"github.com/stretchr/testify/require"
)

type Assert struct {
	t *testing.T
}

func NewAssert(t *testing.T) *Assert {
	return &Assert{t: t}
}

// Satisfied synthesizes circuit and fails the test unless every constraint
// holds.
func (a *Assert) Satisfied(k int, f field.Field, circuit checker.Circuit, instances [][]constraint.Element) *checker.MockProver {
	a.t.Helper()
	p, err := checker.Run(k, f, circuit, instances)
	require.NoError(a.t, err, "synthesis should succeed")
	require.NoError(a.t, p.Verify(), "should succeed")
	return p
}

// Unsatisfied synthesizes circuit and fails the test unless verification
// reports at least one failure. The failures are returned.
func (a *Assert) Unsatisfied(k int, f field.Field, circuit checker.Circuit, instances [][]constraint.Element) []checker.VerifyFailure {
	a.t.Helper()
	p, err := checker.Run(k, f, circuit, instances)
	require.NoError(a.t, err, "synthesis should succeed")
	err = p.Verify()
	require.Error(a.t, err, "should fail")
	var fe *checker.FailureError
	require.ErrorAs(a.t, err, &fe)
	return fe.Failures
}

// SynthesisFails expects checker.Run itself to return an error matching
// target.
func (a *Assert) SynthesisFails(k int, f field.Field, circuit checker.Circuit, instances [][]constraint.Element, target error) {
	a.t.Helper()
	_, err := checker.Run(k, f, circuit, instances)
	require.Error(a.t, err)
	if target != nil {
		require.ErrorIs(a.t, err, target)
	}
}

// Kinds lists the kinds of failures, in order.
func Kinds(failures []checker.VerifyFailure) []checker.FailureKind {
	res := make([]checker.FailureKind, len(failures))
	for i, f := range failures {
		res[i] = f.Kind
	}
	return res
}
