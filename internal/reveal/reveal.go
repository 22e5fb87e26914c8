// Package reveal gates display of a decoded drop rate behind a wallet
// signature over a deterministic challenge message. The signature is an
// explicit user-intent confirmation, not authentication: this client never
// verifies it.
package reveal

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/james-harris851b/Loot-Table-FHE/internal/codec"
)

var (
	// ErrNoIdentity rejects a reveal attempted without a connected wallet.
	ErrNoIdentity = errors.New("no connected identity")
	// ErrUserRejected marks a signature the user explicitly declined.
	// Signer implementations return it so callers can render the decline as
	// a non-alarming status.
	ErrUserRejected = errors.New("signature rejected by user")
)

// SessionParams are fixed for the life of the client process and feed every
// challenge message it builds.
type SessionParams struct {
	PublicKey       string
	ContractAddress string
	ChainID         int64
	StartTimestamp  int64
	DurationDays    int
}

func NewSessionParams(contractAddress string, chainID int64, durationDays int, now func() time.Time) SessionParams {
	if now == nil {
		now = time.Now
	}
	if durationDays <= 0 {
		durationDays = 30
	}
	return SessionParams{
		PublicKey:       generatePublicKey(),
		ContractAddress: contractAddress,
		ChainID:         chainID,
		StartTimestamp:  now().Unix(),
		DurationDays:    durationDays,
	}
}

// generatePublicKey produces the throwaway 2000-hex-char session key the
// challenge embeds. It identifies the session only; nothing is derived from
// it.
func generatePublicKey() string {
	b := make([]byte, 1000)
	if _, err := rand.Read(b); err != nil {
		binary.LittleEndian.PutUint64(b, uint64(time.Now().UnixNano()))
	}
	return "0x" + hex.EncodeToString(b)
}

// ChallengeMessage formats the session parameters into the fixed five-line
// template other clients of the contract also sign. The field order and
// key names are part of the protocol.
func ChallengeMessage(p SessionParams) string {
	return fmt.Sprintf(
		"publickey:%s\ncontractAddresses:%s\ncontractsChainId:%d\nstartTimestamp:%d\ndurationDays:%d",
		p.PublicKey, p.ContractAddress, p.ChainID, p.StartTimestamp, p.DurationDays,
	)
}

// Signer is the wallet surface the protocol needs.
type Signer interface {
	Address() string
	SignMessage(ctx context.Context, msg string) ([]byte, error)
}

type State int

const (
	StateHidden State = iota
	StateRevealing
	StateRevealed
)

func (s State) String() string {
	switch s {
	case StateRevealing:
		return "revealing"
	case StateRevealed:
		return "revealed"
	default:
		return "hidden"
	}
}

// Session is the per-item reveal state machine. Revealed state persists
// until Hide; there is no expiry.
type Session struct {
	params SessionParams
	state  State
	value  float64
}

func NewSession(params SessionParams) *Session {
	return &Session{params: params}
}

func (s *Session) State() State { return s.state }

// Value returns the decoded drop rate while the session is revealed.
func (s *Session) Value() (float64, bool) {
	return s.value, s.state == StateRevealed
}

// Reveal asks the signer for a signature over the session challenge and, on
// success, decodes the token and holds the plain value. Without an identity
// the state does not change; any signing or decoding failure reverts to
// hidden with no partial state. The signature bytes themselves are
// discarded.
func (s *Session) Reveal(ctx context.Context, signer Signer, token codec.Token) (float64, error) {
	if signer == nil || signer.Address() == "" {
		return 0, ErrNoIdentity
	}

	s.state = StateRevealing
	if _, err := signer.SignMessage(ctx, ChallengeMessage(s.params)); err != nil {
		s.state = StateHidden
		s.value = 0
		return 0, err
	}

	x, err := codec.Decode(token)
	if err != nil {
		s.state = StateHidden
		s.value = 0
		return 0, err
	}

	s.state = StateRevealed
	s.value = x
	return x, nil
}

// Hide discards the revealed value. No re-signature is needed to reveal
// again.
func (s *Session) Hide() {
	s.state = StateHidden
	s.value = 0
}
