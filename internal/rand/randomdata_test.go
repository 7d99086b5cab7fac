package rand

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLetterString(t *testing.T) {
	name := LetterString(20)
	require.Len(t, name, 20)
	for _, c := range name {
		require.True(t, (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'))
	}
}

func TestBytes(t *testing.T) {
	require.Len(t, Bytes(64), 64)
}
