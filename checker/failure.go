package checker

import (
	"fmt"
	"strings"

	"github.com/PolyhedraZK/zkmlp/plonkish"
)

type FailureKind int

const (
	CellNotAssigned FailureKind = iota
	ConstraintNotSatisfied
	LookupNotSatisfied
	PermutationNotSatisfied
)

func (k FailureKind) String() string {
	switch k {
	case CellNotAssigned:
		return "cell not assigned"
	case ConstraintNotSatisfied:
		return "constraint not satisfied"
	case LookupNotSatisfied:
		return "lookup not satisfied"
	case PermutationNotSatisfied:
		return "equality constraint not satisfied"
	}
	return fmt.Sprintf("failure(%d)", int(k))
}

// CellValue is a queried cell and its value, reported for diagnostics.
type CellValue struct {
	Column   plonkish.Column
	Rotation int
	Value    string
}

func (c CellValue) String() string {
	return fmt.Sprintf("%s[%+d]=%s", c.Column, c.Rotation, c.Value)
}

// VerifyFailure describes a single reason the witness is rejected.
type VerifyFailure struct {
	Kind FailureKind
	// gate or lookup name
	Name string
	// constraint name within the gate, and its index
	Constraint string
	Index      int
	Region     string
	Row        int
	Cells      []CellValue
}

func (f VerifyFailure) String() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	if f.Name != "" {
		fmt.Fprintf(&sb, ": %q", f.Name)
	}
	if f.Constraint != "" {
		fmt.Fprintf(&sb, " constraint %d (%s)", f.Index, f.Constraint)
	}
	fmt.Fprintf(&sb, " at row %d", f.Row)
	if f.Region != "" {
		fmt.Fprintf(&sb, " in region %q", f.Region)
	}
	if len(f.Cells) > 0 {
		cells := make([]string, len(f.Cells))
		for i, c := range f.Cells {
			cells[i] = c.String()
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(cells, ", "))
	}
	return sb.String()
}

const maxReportedFailures = 16

// FailureError aggregates the failures found by Verify.
type FailureError struct {
	Failures []VerifyFailure
}

func (e *FailureError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "circuit not satisfied: %d failure(s)", len(e.Failures))
	for i, f := range e.Failures {
		if i == maxReportedFailures {
			fmt.Fprintf(&sb, "\n  ... and %d more", len(e.Failures)-maxReportedFailures)
			break
		}
		sb.WriteString("\n  ")
		sb.WriteString(f.String())
	}
	return sb.String()
}
