package gnarkref

import (
	"github.com/PolyhedraZK/zkmlp/mlp"
	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/logger"
	"github.com/consensys/gnark/test"
	"github.com/pkg/errors"
)

// Check solves the circuit with gnark's test engine.
func Check(assignment *Circuit) error {
	return test.IsSolved(New(assignment.params), assignment, ecc.BN254.ScalarField())
}

func Compile(params mlp.Params) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, New(params))
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}
	return ccs, nil
}

// ProveGroth16 compiles the circuit, runs a fresh setup, proves the
// assignment and verifies the proof against its public output.
func ProveGroth16(assignment *Circuit) error {
	log := logger.Logger()
	ccs, err := Compile(assignment.params)
	if err != nil {
		return err
	}
	log.Debug().Int("nbConstraints", ccs.GetNbConstraints()).Msg("compiled gnark rendition")

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return errors.Wrap(err, "setup")
	}
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return errors.Wrap(err, "witness")
	}
	proof, err := groth16.Prove(ccs, pk, w)
	if err != nil {
		return errors.Wrap(err, "prove")
	}
	public, err := w.Public()
	if err != nil {
		return errors.Wrap(err, "public witness")
	}
	if err := groth16.Verify(proof, vk, public); err != nil {
		return errors.Wrap(err, "verify")
	}
	return nil
}
