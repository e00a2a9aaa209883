package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxUsernameLength = 20
	maxChatLength     = 280
	lobbyCodeLength   = 6
	lobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			_, err := validateUsername(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("lobbycode", func(fl validator.FieldLevel) bool {
			return validLobbyCode(fl.Field().String())
		})
	})
}

func validateUsername(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("username is required")
	}
	if utf8.RuneCountInString(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '-', '_', '.', '\'':
			continue
		default:
			return "", errors.New("username contains unsupported characters")
		}
	}
	return trimmed, nil
}

func validateChat(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", errors.New("message is empty")
	}
	if utf8.RuneCountInString(trimmed) > maxChatLength {
		return "", fmt.Errorf("message must be %d characters or fewer", maxChatLength)
	}
	return trimmed, nil
}

func validLobbyCode(code string) bool {
	if len(code) != lobbyCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(lobbyCodeAlphabet, r) {
			return false
		}
	}
	return true
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

// usernameKey folds case and strips accents so "Zoë" and "zoe" collide.
func usernameKey(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(normalizeText(name)))
	if err != nil {
		return strings.ToLower(normalizeText(name))
	}
	return folded
}
