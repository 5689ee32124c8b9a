/*
Package randx provides functions for generating cryptographically secure random
values and unique identifiers used across the feed service.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// UsernameSuffixLength is the number of random characters appended when a
	// generated username collides with an existing one.
	UsernameSuffixLength = 4
)

// NewID generates a standard UUID v4 string used as the identifier for users,
// profiles, and posts.
func NewID() string {
	return uuid.New().String()
}

// Base62String generates a Base62 string of the given length using crypto/rand.
func Base62String(length int) (string, error) {
	result := make([]byte, length)

	for i := range length {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random base62 character: %v", err)
		}

		result[i] = Base62Chars[num.Int64()]
	}

	return string(result), nil
}

// UsernameSuffix generates a short random Base62 suffix for username collision handling.
func UsernameSuffix() (string, error) {
	return Base62String(UsernameSuffixLength)
}
