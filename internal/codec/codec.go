// Package codec obfuscates drop rates into opaque string tokens and applies
// arithmetic transforms to a token without handing the plain value back to
// the caller. The encoding is reversible on purpose; it stands in for a real
// confidentiality scheme behind the same interface.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Token is the encoded form of a drop rate. Opaque to everything but this
// package.
type Token string

// ErrMalformedToken reports a token this codec cannot parse, after the
// raw-decimal fallback for legacy records has also failed.
var ErrMalformedToken = errors.New("malformed token")

const tokenPrefix = "FHE-"

// Encode obfuscates a drop rate in [0,1].
func Encode(x float64) (Token, error) {
	if math.IsNaN(x) || x < 0 || x > 1 {
		return "", fmt.Errorf("drop rate %v outside [0,1]", x)
	}
	return encode(x), nil
}

func encode(x float64) Token {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	return Token(tokenPrefix + base64.StdEncoding.EncodeToString([]byte(s)))
}

// Decode recovers the plain value from a token. Strings without the token
// prefix are parsed as raw decimals so records written before obfuscation
// still display a number.
func Decode(t Token) (float64, error) {
	s := string(t)
	if rest, ok := strings.CutPrefix(s, tokenPrefix); ok {
		raw, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedToken, t)
		}
		x, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedToken, t)
		}
		return x, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedToken, t)
	}
	return x, nil
}

// Op is a named transform over an encoded value.
type Op int

const (
	OpIdentity Op = iota
	OpIncrease10
	OpDecrease10
	OpDouble
)

func (op Op) String() string {
	switch op {
	case OpIncrease10:
		return "increase10pct"
	case OpDecrease10:
		return "decrease10pct"
	case OpDouble:
		return "double"
	default:
		return "identity"
	}
}

// ParseOp maps an op name to its Op.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "identity":
		return OpIdentity, true
	case "increase10pct":
		return OpIncrease10, true
	case "decrease10pct":
		return OpDecrease10, true
	case "double":
		return OpDouble, true
	}
	return OpIdentity, false
}

// Multiplier is the factor an op applies to the plain value.
func (op Op) Multiplier() float64 {
	switch op {
	case OpIncrease10:
		return 1.1
	case OpDecrease10:
		return 0.9
	case OpDouble:
		return 2.0
	default:
		return 1.0
	}
}

// Transform applies op to a token. The plain value never leaves this call.
// The result is not clamped: repeated increases can drift past 1, so that
// Decode(Transform(t, op)) == Decode(t) * op.Multiplier() always holds.
func Transform(t Token, op Op) (Token, error) {
	x, err := Decode(t)
	if err != nil {
		return "", err
	}
	return encode(x * op.Multiplier()), nil
}
