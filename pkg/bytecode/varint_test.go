package bytecode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarintRoundTripSigned(t *testing.T) {
	cases := []int64{0, 1, -1, 42, -42, math.MaxInt64, math.MinInt64, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		buf := EncodeVarint(nil, v)
		got, err := DecodeVarint(NewByteReader(buf))
		require.NoError(t, err)
		require.Equal(t, v, got, "round trip for %d", v)
	}
}

func TestVarintRoundTripUnsigned(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, math.MaxUint64}
	for _, v := range cases {
		buf := EncodeUvarint(nil, v)
		got, err := DecodeUvarint(NewByteReader(buf))
		require.NoError(t, err)
		require.Equal(t, v, got, "round trip for %d", v)
	}
}

func TestVarintUnexpectedEOF(t *testing.T) {
	// A continuation byte with nothing following.
	_, err := DecodeUvarint(NewByteReader([]byte{0x80}))
	require.ErrorIs(t, err, ErrUnexpectedEOF)
}

func TestZigZagCompactsSmallNegatives(t *testing.T) {
	small := EncodeVarint(nil, -1)
	large := EncodeVarint(nil, math.MinInt64)
	require.Less(t, len(small), len(large))
}
