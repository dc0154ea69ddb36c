package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIssueProducesFourDigitCodes(t *testing.T) {
	issuer := NewIssuer()
	for i := 0; i < 1000; i++ {
		code := issuer.Issue()
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1000)
		require.LessOrEqual(t, n, 9999)
	}
}

func TestIssueVaries(t *testing.T) {
	issuer := NewIssuer()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[issuer.Issue()] = true
	}
	// 200 draws from 9000 values collide, but never collapse to a handful.
	require.Greater(t, len(seen), 100)
}
