package plonkish

import (
	"testing"

	"github.com/PolyhedraZK/zkmlp/expr"
	"github.com/PolyhedraZK/zkmlp/field/bn254"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnID(t *testing.T) {
	for _, c := range []Column{{Advice, 0}, {Fixed, 7}, {Instance, 1 << 20}} {
		assert.Equal(t, c, ColumnFromID(c.ID()))
		assert.Equal(t, expr.Var{Column: c.ID(), Rotation: -1}, c.Query(-1))
	}
	assert.Equal(t, "fixed[3]", Column{Fixed, 3}.String())
}

func TestConstraintSystem(t *testing.T) {
	cs := NewConstraintSystem(&bn254.Field{})
	a, b := cs.AdviceColumn(), cs.AdviceColumn()
	q := cs.Selector()
	tbl := cs.TableColumn()
	inst := cs.InstanceColumn()

	assert.True(t, cs.IsSelector(q.Column))
	assert.False(t, cs.IsSelector(tbl))
	assert.True(t, cs.IsTableColumn(tbl))
	assert.False(t, cs.IsTableColumn(q.Column))

	cs.EnableEquality(a)
	cs.EnableEquality(inst)
	cs.EnableEquality(a)
	assert.Equal(t, []Column{a, inst}, cs.EqualityColumns())
	assert.False(t, cs.EqualityEnabled(b))
	assert.Panics(t, func() { cs.EnableEquality(tbl) })

	cs.CreateGate("square", func(vc *VirtualCells) []Constraint {
		s := vc.QuerySelector(q)
		x := vc.QueryAdvice(a, 0)
		return []Constraint{
			{Name: "next", Poly: vc.Mul(s, vc.Sub(vc.Mul(x, x), vc.QueryAdvice(a, 1)))},
			{Name: "prev", Poly: vc.Mul(s, vc.Sub(x, vc.QueryAdvice(b, -1)))},
		}
	})
	cs.Lookup("range", func(vc *VirtualCells) []LookupPair {
		return []LookupPair{{Input: vc.Mul(vc.QuerySelector(q), vc.QueryAdvice(b, 0)), Table: tbl}}
	})

	require.Len(t, cs.Gates, 1)
	g := cs.Gates[0]
	assert.Equal(t, []string{"next", "prev"}, g.Names)
	assert.Equal(t, []Selector{q}, g.Selectors)
	assert.Equal(t, []expr.Var{a.Query(0), a.Query(1), b.Query(-1)}, g.QueriedCells())
	assert.Equal(t, 3, cs.Degree())
	// three rotations at most, so the floor of 3 applies
	assert.Equal(t, 5, cs.BlindingFactors())
	assert.Equal(t, 7, cs.MinimumRows())

	stats := cs.GetStats()
	assert.Equal(t, 2, stats.NbAdvice)
	assert.Equal(t, 2, stats.NbFixed)
	assert.Equal(t, 1, stats.NbSelector)
	assert.Equal(t, 1, stats.NbTable)
	assert.Equal(t, 2, stats.NbPolys)
	assert.Equal(t, 1, stats.NbLookups)
	assert.Equal(t, 2, stats.NbEquality)

	assert.Panics(t, func() {
		cs.Lookup("bad", func(vc *VirtualCells) []LookupPair {
			return []LookupPair{{Input: vc.QueryAdvice(a, 0), Table: b}}
		})
	})
	assert.Panics(t, func() {
		cs.CreateGate("empty", func(vc *VirtualCells) []Constraint { return nil })
	})
	assert.Panics(t, func() {
		cs.CreateGate("kind", func(vc *VirtualCells) []Constraint {
			return []Constraint{{Poly: vc.QueryFixed(a, 0)}}
		})
	})
}

func TestBlindingFactorsRotations(t *testing.T) {
	cs := NewConstraintSystem(&bn254.Field{})
	a := cs.AdviceColumn()
	cs.CreateGate("wide", func(vc *VirtualCells) []Constraint {
		var e []expr.Expression
		for rot := -2; rot <= 3; rot++ {
			e = append(e, vc.QueryAdvice(a, rot))
		}
		return []Constraint{{Poly: vc.Add(e...)}}
	})
	assert.Equal(t, 8, cs.BlindingFactors())
}
