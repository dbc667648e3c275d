package dispute_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/onflow/dispute-client/model/dispute"
)

func TestBufferToInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		tokens := dispute.BufferToInput(nil)
		assert.Empty(t, tokens)

		buf, err := dispute.InputToBuffer(tokens)
		require.NoError(t, err)
		assert.Empty(t, buf)
	})

	t.Run("single byte is zero padded", func(t *testing.T) {
		assert.Equal(t, []string{"0x00"}, dispute.BufferToInput([]byte{0x00}))
		assert.Equal(t, []string{"0x0a"}, dispute.BufferToInput([]byte{0x0a}))
		assert.Equal(t, []string{"0xff"}, dispute.BufferToInput([]byte{0xff}))
	})

	t.Run("multiple bytes", func(t *testing.T) {
		tokens := dispute.BufferToInput([]byte{0x00, 0x10, 0xab, 0xff})
		assert.Equal(t, []string{"0x00", "0x10", "0xab", "0xff"}, tokens)
	})
}

func TestInputToBuffer_Malformed(t *testing.T) {
	for _, token := range []string{"", "0x", "0x100", "0xzz", "hello"} {
		_, err := dispute.InputToBuffer([]string{"0x01", token})
		require.ErrorIs(t, err, dispute.ErrMalformedToken, "token %q", token)
	}

	// unpadded and upper case tokens are accepted on input
	buf, err := dispute.InputToBuffer([]string{"0x1", "0XAB", "ff"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0xab, 0xff}, buf)
}

// TestHexTokens_RoundTrip checks that bytes -> tokens -> bytes reproduces the input
// for arbitrary byte slices, including the boundary bytes 0x00 and 0xff.
func TestHexTokens_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		buf := rapid.SliceOf(rapid.Byte()).Draw(t, "buf")
		if rapid.Bool().Draw(t, "boundaries") {
			buf = append(buf, 0x00, 0xff)
		}

		decoded, err := dispute.InputToBuffer(dispute.BufferToInput(buf))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(decoded) != len(buf) {
			t.Fatalf("length mismatch: %d != %d", len(decoded), len(buf))
		}
		for i := range buf {
			if decoded[i] != buf[i] {
				t.Fatalf("byte %d mismatch: %#x != %#x", i, decoded[i], buf[i])
			}
		}
	})
}

// TestHexTokens_TokenRoundTrip checks that well-formed tokens -> bytes -> tokens is the identity.
func TestHexTokens_TokenRoundTrip(t *testing.T) {
	token := rapid.Custom(func(t *rapid.T) string {
		hi := rapid.SampledFrom([]byte("0123456789abcdef")).Draw(t, "hi")
		lo := rapid.SampledFrom([]byte("0123456789abcdef")).Draw(t, "lo")
		return "0x" + string([]byte{hi, lo})
	})

	rapid.Check(t, func(t *rapid.T) {
		tokens := rapid.SliceOf(token).Draw(t, "tokens")

		buf, err := dispute.InputToBuffer(tokens)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		encoded := dispute.BufferToInput(buf)
		if len(encoded) != len(tokens) {
			t.Fatalf("length mismatch: %d != %d", len(encoded), len(tokens))
		}
		for i := range tokens {
			if encoded[i] != tokens[i] {
				t.Fatalf("token %d mismatch: %s != %s", i, encoded[i], tokens[i])
			}
		}
	})
}
