package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/fnv"
	mrand "math/rand"
)

// GenerateID создает короткий уникальный ID для предметов и сообщений лога.
// Для идентификаторов совместных боев используется google/uuid (см. internal/party).
func GenerateID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// StringToSeed детерминированно превращает строку в сид для rand.
// Один и тот же пользователь получает одни и те же броски генератора.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// NewRand возвращает генератор, засеянный строкой.
func NewRand(seed string) *mrand.Rand {
	return mrand.New(mrand.NewSource(StringToSeed(seed)))
}
