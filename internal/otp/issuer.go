// Package otp issues the spoken liveness codes. The code is a shared secret
// of convenience, not a cryptographic one: its security property comes from
// being bound to exactly one in-flight session attempt.
package otp

import (
	"math/rand"
	"strconv"
)

// Issuer produces one-time verification codes.
type Issuer interface {
	Issue() string
}

// RandomIssuer draws 4-digit codes uniformly from [1000, 9999].
type RandomIssuer struct{}

// NewIssuer returns the production code issuer.
func NewIssuer() *RandomIssuer {
	return &RandomIssuer{}
}

// Issue returns a fresh 4-digit numeric code.
func (RandomIssuer) Issue() string {
	return strconv.Itoa(1000 + rand.Intn(9000))
}
