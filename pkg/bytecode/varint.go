package bytecode

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// ErrVarintOverflow is returned when a varint would require more than 64
// bits to represent — either a corrupt stream or a hostile input.
var ErrVarintOverflow = errors.New("bytecode: varint overflow")

// ErrUnexpectedEOF is returned when the byte stream ends mid-varint.
var ErrUnexpectedEOF = errors.New("bytecode: unexpected EOF decoding varint")

// maxVarintShift caps decoding at 63 bits.
const maxVarintShift = 63

// EncodeUvarint appends the standard LEB128 unsigned encoding of v to buf
// and returns the extended slice. Used for operand counts.
func EncodeUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// DecodeUvarint reads an unsigned varint from r.
func DecodeUvarint(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, ErrUnexpectedEOF
			}
			return 0, err
		}
		if shift > maxVarintShift || (shift == maxVarintShift && b > 1) {
			return 0, ErrVarintOverflow
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
}

// zigZagEncode maps a signed value to an unsigned one so small-magnitude
// negative numbers stay compact: 0,-1,1,-2,2,... -> 0,1,2,3,4,...
func zigZagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func zigZagDecode(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// EncodeVarint appends the ZigZag-varint encoding of a signed v.
func EncodeVarint(buf []byte, v int64) []byte {
	return EncodeUvarint(buf, zigZagEncode(v))
}

// DecodeVarint reads a ZigZag-varint signed value from r.
func DecodeVarint(r io.ByteReader) (int64, error) {
	u, err := DecodeUvarint(r)
	if err != nil {
		return 0, err
	}
	return zigZagDecode(u), nil
}

// byteReader adapts a []byte to io.ByteReader without allocating a
// bufio.Reader, for the hot decode path.
type byteReader struct {
	data []byte
	pos  int
}

func (b *byteReader) ReadByte() (byte, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	c := b.data[b.pos]
	b.pos++
	return c, nil
}

// NewByteReader wraps a []byte for varint decoding.
func NewByteReader(data []byte) io.ByteReader { return &byteReader{data: data} }

// bufioReader exists only so callers decoding from an io.Reader (e.g. file
// loads) get ReadByte without re-implementing buffering.
func bufioReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return bufio.NewReader(r)
}
