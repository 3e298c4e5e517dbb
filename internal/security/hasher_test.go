package security

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps derivation cheap in tests.
var testParams = Params{Time: 1, MemKiB: 8, Par: 1}

func TestGenerateSalt(t *testing.T) {
	h := NewHasher(testParams)

	a, err := h.GenerateSalt()
	require.NoError(t, err)
	b, err := h.GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltLength*2)
	_, err = hex.DecodeString(a)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHash_Deterministic(t *testing.T) {
	h := NewHasher(testParams)

	d1 := h.Hash("GoodPass1!", "aabbccdd")
	d2 := h.Hash("GoodPass1!", "aabbccdd")

	assert.Equal(t, d1, d2)
	assert.True(t, strings.HasPrefix(d1, "$argon2id$"))
}

func TestHash_DivergesOnInputs(t *testing.T) {
	h := NewHasher(testParams)

	base := h.Hash("GoodPass1!", "aabbccdd")

	assert.NotEqual(t, base, h.Hash("GoodPass2!", "aabbccdd"))
	assert.NotEqual(t, base, h.Hash("GoodPass1!", "aabbccde"))
}

func TestHash_FixedWidth(t *testing.T) {
	h := NewHasher(testParams)

	d1 := h.Hash("GoodPass1!", "aabbccdd")
	d2 := h.Hash("another password entirely", "00112233")

	assert.Equal(t, len(d1), len(d2))
}

func TestVerify(t *testing.T) {
	h := NewHasher(testParams)

	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	digest := h.Hash("GoodPass1!", salt)

	assert.True(t, h.Verify("GoodPass1!", salt, digest))
	assert.False(t, h.Verify("WrongPass1!", salt, digest))
	assert.False(t, h.Verify("GoodPass1!", "deadbeef", digest))
}

func TestVerify_AcrossParamChange(t *testing.T) {
	// Digests record their parameters, so a hasher with different costs
	// still verifies old digests.
	old := NewHasher(Params{Time: 2, MemKiB: 16, Par: 1})
	digest := old.Hash("GoodPass1!", "aabbccdd")

	current := NewHasher(testParams)
	assert.True(t, current.Verify("GoodPass1!", "aabbccdd", digest))
}

func TestVerify_MalformedDigest(t *testing.T) {
	h := NewHasher(testParams)

	tests := []struct {
		name   string
		digest string
	}{
		{name: "empty", digest: ""},
		{name: "garbage", digest: "not-a-digest"},
		{name: "wrong algorithm", digest: "$bcrypt$v=19$m=8,t=1,p=1$AAAA"},
		{name: "bad base64", digest: "$argon2id$v=19$m=8,t=1,p=1$!!!!"},
		{name: "missing key", digest: "$argon2id$v=19$m=8,t=1,p=1$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, h.Verify("GoodPass1!", "aabbccdd", tt.digest))
		})
	}
}

func TestNewHasher_ZeroFieldsFallBack(t *testing.T) {
	h := NewHasher(Params{})
	assert.Equal(t, DefaultParams, h.params)
}
