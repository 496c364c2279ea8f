package appointment

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	referenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referenceRandLen  = 5
	referenceAttempts = 10
)

// ReferencePrefix is the first three alphanumerics of the business slug,
// upper-cased and padded with X.
func ReferencePrefix(slug string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(slug) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	for b.Len() < 3 {
		b.WriteByte('X')
	}
	return b.String()
}

// NewReference builds {PREFIX}-{YYYYMMDD}-{RANDOM5}. The date is taken from
// start as given, so callers pass it in business time.
func NewReference(slug string, start time.Time) (string, error) {
	suffix := make([]byte, referenceRandLen)
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reference random: %w", err)
		}
		suffix[i] = referenceAlphabet[n.Int64()]
	}

	return fmt.Sprintf("%s-%s-%s", ReferencePrefix(slug), start.Format("20060102"), suffix), nil
}

// UniqueReference retries NewReference until exists reports a free value.
func UniqueReference(
	ctx context.Context,
	slug string,
	start time.Time,
	exists func(ctx context.Context, ref string) (bool, error),
) (string, error) {

	for range referenceAttempts {
		ref, err := NewReference(slug, start)
		if err != nil {
			return "", err
		}

		taken, err := exists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
	}

	return "", ErrReferenceExhausted
}
