package checker

import (
	"github.com/PolyhedraZK/zkmlp/utils"
	"golang.org/x/crypto/sha3"
)

// Digest is the Keccak-256 hash of the assigned witness: every assigned
// advice and fixed cell with its coordinates, then the instance columns and
// the equality constraints in the order they were added.
func (p *MockProver) Digest() [32]byte {
	f := p.cs.Field()
	var buf utils.OutputBuf
	for c := range p.asm.advice {
		for row, ok := range p.asm.adviceAssigned[c] {
			if !ok {
				continue
			}
			buf.AppendUint32(0)
			buf.AppendInt(c)
			buf.AppendInt(row)
			buf.AppendBigInt(f.ToBigInt(p.asm.advice[c][row]))
		}
	}
	for c := range p.asm.fixed {
		for row, ok := range p.asm.fixedAssigned[c] {
			if !ok {
				continue
			}
			buf.AppendUint32(1)
			buf.AppendInt(c)
			buf.AppendInt(row)
			buf.AppendBigInt(f.ToBigInt(p.asm.fixed[c][row]))
		}
	}
	for c := range p.asm.instance {
		buf.AppendUint32(2)
		buf.AppendInt(c)
		for _, v := range p.asm.instance[c] {
			buf.AppendBigInt(f.ToBigInt(v))
		}
	}
	for _, cp := range p.asm.copies {
		for _, k := range cp {
			buf.AppendString(k.column.String())
			buf.AppendInt(k.row)
		}
	}

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(buf.Bytes())
	var res [32]byte
	copy(res[:], hasher.Sum(nil))
	return res
}
