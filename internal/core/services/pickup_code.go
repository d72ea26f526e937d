package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"freshpress-pos/internal/core/domain"

	"gorm.io/gorm"
)

const (
	pickupCodeLen      = 6
	maxPickupCodeTries = 20
)

func randomDigits(n int) (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < n; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v), nil
}

// assignPickupCode draws random six-digit codes and offers each to
// assign until one sticks. Uniqueness lives in the database: a
// duplicate-key rejection means an open order already holds the code,
// so another is drawn. Completed orders clear their codes, which frees
// them for reuse.
func assignPickupCode(assign func(code string) error) (string, error) {
	for i := 0; i < maxPickupCodeTries; i++ {
		code, err := randomDigits(pickupCodeLen)
		if err != nil {
			return "", domain.WrapErr(domain.KindInternalServer, err, "draw pickup code")
		}
		err = assign(code)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}
	return "", domain.E(domain.KindInternalServer, "could not find a free pickup code")
}
