package helpers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Default avatars are generated by dicebear, seeded per user at signup.
const avatarURLTemplate = "https://api.dicebear.com/7.x/adventurer/png?seed=%s"

// RandomSeed returns a short URL-safe random string.
func RandomSeed() (string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DefaultAvatarURL derives the generated avatar URL for a seed.
func DefaultAvatarURL(seed string) string {
	return fmt.Sprintf(avatarURLTemplate, seed)
}
