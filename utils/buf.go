package utils

import (
	"encoding/binary"
	"math/big"
)

type OutputBuf struct {
	buf []byte
}

// AppendBigInt appends x as 32 little-endian bytes.
func (o *OutputBuf) AppendBigInt(x *big.Int) {
	zbuf := make([]byte, 32)
	b := x.Bytes()
	for i := 0; i < len(b); i++ {
		zbuf[i] = b[len(b)-i-1]
	}
	o.buf = append(o.buf, zbuf...)
}

func (o *OutputBuf) AppendUint32(x uint32) {
	o.buf = binary.LittleEndian.AppendUint32(o.buf, x)
}

func (o *OutputBuf) AppendUint64(x uint64) {
	o.buf = binary.LittleEndian.AppendUint64(o.buf, x)
}

func (o *OutputBuf) AppendInt(x int) {
	o.AppendUint64(uint64(int64(x)))
}

// AppendString appends a length-prefixed string.
func (o *OutputBuf) AppendString(s string) {
	o.AppendUint32(uint32(len(s)))
	o.buf = append(o.buf, s...)
}

func (o *OutputBuf) Bytes() []byte {
	return o.buf
}
