package pnr

import (
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPrefix = "CHUBBFLIGHT"
	suffixLength  = 6
)

type Issuer interface {
	Next() string
}

// RandomIssuer derives references from random UUIDs. Uniqueness is
// probabilistic, not enforced; the store's primary key catches collisions.
type RandomIssuer struct {
	prefix string
}

func NewRandomIssuer(prefix string) *RandomIssuer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &RandomIssuer{prefix: prefix}
}

func (i *RandomIssuer) Next() string {
	return i.prefix + strings.ToUpper(uuid.NewString()[:suffixLength])
}

var _ Issuer = (*RandomIssuer)(nil)
