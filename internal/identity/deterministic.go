package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LanguageUUID derives the identifier for a language code.
func LanguageUUID(code string) uuid.UUID {
	return UUID("go-pagekit:language:" + strings.ToLower(strings.TrimSpace(code)))
}

// WebsiteUUID derives the identifier for a website key.
func WebsiteUUID(key string) uuid.UUID {
	return UUID("go-pagekit:website:" + strings.ToLower(strings.TrimSpace(key)))
}
