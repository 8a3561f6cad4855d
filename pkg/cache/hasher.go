package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const verdictPrefix = "verdict"

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}

// ParamsHash хеширует параметры запуска в фиксированном порядке
func ParamsHash(params ...any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return ShortHash([]byte(strings.Join(parts, "|")))
}

// BuildVerdictKey строит ключ кэша для вердикта
func BuildVerdictKey(graphHash, paramsHash string) string {
	return fmt.Sprintf("%s:%s:%s", verdictPrefix, graphHash, paramsHash)
}
