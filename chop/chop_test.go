package chop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApply_ZeroSpecIsIdentity(t *testing.T) {
	payload := []byte("ABCDEFGHIJ")
	caplen, length, out := Apply(Spec{}, 10, 10, append([]byte(nil), payload...))
	require.Equal(t, 10, caplen)
	require.Equal(t, 10, length)
	require.Equal(t, payload, out)
}

func TestApply_S2FromSpec(t *testing.T) {
	// -C 4 -C -3 -L on caplen=10, payload A..J
	s := Spec{LenBegin: 4, LenEnd: -3, AdjLen: true}
	caplen, length, out := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 3, caplen)
	require.Equal(t, []byte("EFG"), out)
	require.Equal(t, 3, length) // 10 - 7
}

func TestApply_BeginChopWithPositiveOffset(t *testing.T) {
	// remove 2 bytes starting at offset 3: "DE" out of "ABCDEFGHIJ"
	s := Spec{LenBegin: 2, OffBeginPos: 3}
	caplen, _, out := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 8, caplen)
	require.Equal(t, []byte("ABCFGHIJ"), out)
	require.Len(t, out, caplen)
}

func TestApply_EndChopWithNegativeOffset(t *testing.T) {
	// cut 2 bytes 4 bytes before the end, preserving a 2-byte tail
	s := Spec{LenEnd: -2, OffEndNeg: -4}
	caplen, _, out := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 8, caplen)
	require.Equal(t, []byte("ABCDEFIJ"), out)
	require.Len(t, out, caplen)
}

func TestApply_ClampWhenChopExceedsCaplen(t *testing.T) {
	s := Spec{LenBegin: 7, LenEnd: -8, AdjLen: true}
	caplen, length, out := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 0, caplen)
	require.Equal(t, 0, length)
	require.Empty(t, out)
}

func TestApply_ClampWithoutAdjLenKeepsLen(t *testing.T) {
	s := Spec{LenBegin: 7, LenEnd: -8}
	caplen, length, _ := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 0, caplen)
	require.Equal(t, 10, length) // len untouched since AdjLen is false
}

func TestApply_NegativeBeginOffsetConvertsToPositive(t *testing.T) {
	// off_begin_neg == -3 on caplen 10 means off_begin_pos becomes 7
	s := Spec{LenBegin: 2, OffBeginNeg: -3}
	caplen, _, out := Apply(s, 10, 10, []byte("ABCDEFGHIJ"))
	require.Equal(t, 8, caplen)
	require.Equal(t, []byte("ABCDEFGJ"), out)
}
