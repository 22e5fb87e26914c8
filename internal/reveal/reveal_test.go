package reveal

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
)

type fakeSigner struct {
	address string
	err     error
	signed  []string
}

func (f *fakeSigner) Address() string { return f.address }

func (f *fakeSigner) SignMessage(ctx context.Context, msg string) ([]byte, error) {
	f.signed = append(f.signed, msg)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("sig"), nil
}

func fixedParams() SessionParams {
	return SessionParams{
		PublicKey:       "0xdeadbeef",
		ContractAddress: "0x1111111111111111111111111111111111111111",
		ChainID:         11155111,
		StartTimestamp:  1700000000,
		DurationDays:    30,
	}
}

func TestChallengeMessageTemplate(t *testing.T) {
	msg := ChallengeMessage(fixedParams())
	want := "publickey:0xdeadbeef\n" +
		"contractAddresses:0x1111111111111111111111111111111111111111\n" +
		"contractsChainId:11155111\n" +
		"startTimestamp:1700000000\n" +
		"durationDays:30"
	assert.Equal(t, want, msg)
}

func TestNewSessionParams(t *testing.T) {
	now := func() time.Time { return time.Unix(1700000000, 0) }
	p := NewSessionParams("0xabc", 5, 0, now)
	assert.Equal(t, int64(1700000000), p.StartTimestamp)
	assert.Equal(t, 30, p.DurationDays, "zero duration falls back to the default window")
	assert.True(t, strings.HasPrefix(p.PublicKey, "0x"))
	assert.Len(t, p.PublicKey, 2+2000)
}

func TestRevealWithoutIdentity(t *testing.T) {
	tok, err := codec.Encode(0.25)
	require.NoError(t, err)

	s := NewSession(fixedParams())
	_, err = s.Reveal(context.Background(), nil, tok)
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Equal(t, StateHidden, s.State())

	_, err = s.Reveal(context.Background(), &fakeSigner{address: ""}, tok)
	assert.ErrorIs(t, err, ErrNoIdentity)
	assert.Equal(t, StateHidden, s.State())
}

func TestRevealRejectedSignature(t *testing.T) {
	tok, err := codec.Encode(0.25)
	require.NoError(t, err)

	signer := &fakeSigner{address: "0xAAA", err: fmt.Errorf("wallet: %w", ErrUserRejected)}
	s := NewSession(fixedParams())
	_, err = s.Reveal(context.Background(), signer, tok)
	assert.ErrorIs(t, err, ErrUserRejected)
	assert.Equal(t, StateHidden, s.State())
	_, ok := s.Value()
	assert.False(t, ok)
}

func TestRevealSuccess(t *testing.T) {
	tok, err := codec.Encode(0.25)
	require.NoError(t, err)

	signer := &fakeSigner{address: "0xAAA"}
	s := NewSession(fixedParams())
	got, err := s.Reveal(context.Background(), signer, tok)
	require.NoError(t, err)
	assert.Equal(t, 0.25, got)
	assert.Equal(t, StateRevealed, s.State())

	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 0.25, v)

	// The signer saw the exact challenge template.
	require.Len(t, signer.signed, 1)
	assert.Equal(t, ChallengeMessage(fixedParams()), signer.signed[0])
}

func TestRevealMalformedToken(t *testing.T) {
	signer := &fakeSigner{address: "0xAAA"}
	s := NewSession(fixedParams())
	_, err := s.Reveal(context.Background(), signer, codec.Token("FHE-???"))
	assert.ErrorIs(t, err, codec.ErrMalformedToken)
	assert.Equal(t, StateHidden, s.State())
}

func TestHide(t *testing.T) {
	tok, err := codec.Encode(0.25)
	require.NoError(t, err)

	s := NewSession(fixedParams())
	_, err = s.Reveal(context.Background(), &fakeSigner{address: "0xAAA"}, tok)
	require.NoError(t, err)

	s.Hide()
	assert.Equal(t, StateHidden, s.State())
	_, ok := s.Value()
	assert.False(t, ok)
}
