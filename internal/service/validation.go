package service

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Blaxzter/secret-santa/internal/domain"
)

const (
	maxRoomNameLength        = 100
	maxParticipantNameLength = 100
	maxWishes                = 20
	maxWishLength            = 200
	maxOwnerIDLength         = 200
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, fmt.Sprintf(format, args...))
}

// ValidateRoomName проверяет название комнаты и возвращает его без пробелов по краям.
func ValidateRoomName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationError("room name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxRoomNameLength {
		return "", validationError("room name too long (max %d characters)", maxRoomNameLength)
	}
	return name, nil
}

// ValidateParticipants нормализует список участников: обрезает пробелы,
// запрещает пустые имена и повторы, требует не меньше minCount человек.
// Порядок сохраняется.
func ValidateParticipants(names []string, minCount int) ([]string, error) {
	result := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, validationError("participant #%d has an empty name", i+1)
		}
		if utf8.RuneCountInString(name) > maxParticipantNameLength {
			return nil, validationError("participant name %q too long (max %d characters)", name, maxParticipantNameLength)
		}
		if _, dup := seen[name]; dup {
			return nil, validationError("duplicate participant name %q", name)
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	if len(result) < minCount {
		return nil, validationError("at least %d participants required, got %d", minCount, len(result))
	}
	return result, nil
}

// ValidatePriceLimit проверяет лимит цены.
func ValidatePriceLimit(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return validationError("price limit must be a non-negative number")
	}
	return nil
}

// ValidateCurrency возвращает валюту, подставляя EUR для пустого значения.
func ValidateCurrency(c domain.Currency) (domain.Currency, error) {
	cur := domain.Currency(strings.ToUpper(strings.TrimSpace(string(c))))
	switch cur {
	case "":
		return domain.CurrencyEUR, nil
	case domain.CurrencyEUR, domain.CurrencyUSD, domain.CurrencyGBP, domain.CurrencyCHF:
		return cur, nil
	}
	return "", validationError("unsupported currency %q", c)
}

// ValidateLanguage возвращает язык, подставляя de для пустого значения.
func ValidateLanguage(l domain.Language) (domain.Language, error) {
	lang := domain.Language(strings.ToLower(strings.TrimSpace(string(l))))
	switch lang {
	case "":
		return domain.LanguageDE, nil
	case domain.LanguageDE, domain.LanguageEN:
		return lang, nil
	}
	return "", validationError("unsupported language %q", l)
}

// ValidateOwnerID проверяет идентификатор организатора. Пустой допустим при создании комнаты.
func ValidateOwnerID(ownerID string, required bool) (string, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" && required {
		return "", validationError("owner_id is required")
	}
	if len(ownerID) > maxOwnerIDLength {
		return "", validationError("owner_id too long (max %d characters)", maxOwnerIDLength)
	}
	return ownerID, nil
}

// ValidateToken проверяет, что токен передан.
func ValidateToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", validationError("token is required")
	}
	return token, nil
}

// NormalizeWishes обрезает пробелы, выбрасывает пустые пожелания и проверяет лимиты.
func NormalizeWishes(wishes []string) ([]string, error) {
	result := make([]string, 0, len(wishes))
	for _, raw := range wishes {
		wish := strings.TrimSpace(raw)
		if wish == "" {
			continue
		}
		if utf8.RuneCountInString(wish) > maxWishLength {
			return nil, validationError("wish too long (max %d characters)", maxWishLength)
		}
		result = append(result, wish)
	}
	if len(result) > maxWishes {
		return nil, validationError("too many wishes (max %d)", maxWishes)
	}
	return result, nil
}
