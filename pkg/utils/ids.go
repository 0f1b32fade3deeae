package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const discriminatorAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func GenerateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	// err == nil only if we read len(b) bytes.
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// NewGenerationID returns gen_<unix seconds>_<topic hash><nonce>: four hex digits
// derived from the normalised topic followed by six random characters.
func NewGenerationID(now time.Time, topic string) (string, error) {
	nonce, err := gonanoid.Generate(discriminatorAlphabet, 6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("gen_%d_%s%s", now.Unix(), TopicHash(topic), nonce), nil
}

// TopicHash is the first four hex digits of the FNV-1a hash of the trimmed, lowercased topic.
func TopicHash(topic string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(topic))))
	return fmt.Sprintf("%04x", h.Sum32()>>16)
}
