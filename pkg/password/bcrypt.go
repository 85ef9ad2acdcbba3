// Package password isolates the hashing algorithm choice from the rest of
// the codebase. Callers see a hash/verify pair; the bcrypt work factor is
// the only tunable.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher produces and checks salted bcrypt digests.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher with the given work factor. Out-of-range costs
// fall back to the bcrypt default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns a salted one-way digest of the plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest. A malformed
// digest fails closed: the answer is false, never an error.
func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
