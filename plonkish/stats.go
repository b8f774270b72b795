package plonkish

type Stats struct {
	// number of columns per kind; selectors and table columns are fixed columns
	NbAdvice   int
	NbFixed    int
	NbInstance int
	NbSelector int
	NbTable    int
	// number of gates and of the polynomials they hold
	NbGates int
	NbPolys int
	// number of lookup arguments
	NbLookups int
	// number of columns taking part in equality constraints
	NbEquality int
	// maximum degree of the constraint system
	Degree int
	// rows reserved for blinding at the bottom of the table
	BlindingFactors int
}

// GetStats collects statistical information about the constraint system.
func (cs *ConstraintSystem) GetStats() Stats {
	s := Stats{
		NbAdvice:        cs.NbAdvice,
		NbFixed:         cs.NbFixed,
		NbInstance:      cs.NbInstance,
		NbSelector:      len(cs.Selectors),
		NbTable:         len(cs.tableColumns),
		NbGates:         len(cs.Gates),
		NbLookups:       len(cs.Lookups),
		NbEquality:      len(cs.equality),
		Degree:          cs.Degree(),
		BlindingFactors: cs.BlindingFactors(),
	}
	for _, g := range cs.Gates {
		s.NbPolys += len(g.Polys)
	}
	return s
}
