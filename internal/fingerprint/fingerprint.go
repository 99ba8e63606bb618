package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// Key derives a deterministic cache key from the identifying fields of an
// entity. Each part is lower-cased and trimmed before joining, so
// "Python " and "python" always collide to the same key. MD5 here is a
// content address, not a security boundary.
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := md5.Sum([]byte(strings.Join(normalized, "_")))
	return hex.EncodeToString(sum[:])
}

// Topic keys an outline by topic and difficulty.
func Topic(topic, difficulty string) string {
	return Key(topic, difficulty)
}

// Section keys a section body by topic, section title and difficulty.
func Section(topic, sectionTitle, difficulty string) string {
	return Key(topic, sectionTitle, difficulty)
}
