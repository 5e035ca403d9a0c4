// Package token генерирует одноразовые токены для ссылок подтверждения записи.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generate возвращает криптографически случайный токен: 32 байта в hex-кодировке.
func Generate() (string, error) {
	const op = "token.Generate"
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}
