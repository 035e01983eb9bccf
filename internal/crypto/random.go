package crypto

import (
	"crypto/rand"
	"fmt"
	"time"
)

// SecureRandomBytes fills buf from the operating-system entropy source.
// Failure is fatal to the caller: the engine never falls back to a weaker
// source.
func SecureRandomBytes(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("%w: %v", ErrEntropyFailure, err)
	}
	return nil
}

// wallClock is the default time source: Unix seconds.
func wallClock() uint64 {
	return uint64(time.Now().Unix())
}
