package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// PeerNamePattern определяет допустимый формат имени пира
// Латинские буквы, цифры, дефис и нижнее подчеркивание, длина 3-32 символа
var PeerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

const (
	// MinPeerNameLen минимальная длина имени пира
	MinPeerNameLen = 3
	// MaxPeerNameLen максимальная длина имени пира
	MaxPeerNameLen = 32
)

// ValidatePeerName проверяет, что имя пира соответствует требованиям.
// Имя видят другие участники как отправителя объявлений о выделении.
func ValidatePeerName(name string) error {
	if name == "" {
		return fmt.Errorf("peer name cannot be empty")
	}

	if len(name) < MinPeerNameLen {
		return fmt.Errorf("peer name must be at least %d characters long", MinPeerNameLen)
	}

	if len(name) > MaxPeerNameLen {
		return fmt.Errorf("peer name must not exceed %d characters", MaxPeerNameLen)
	}

	if !PeerNamePattern.MatchString(name) {
		return fmt.Errorf("peer name can only contain letters (a-z, A-Z), numbers (0-9), hyphens (-) and underscores (_)")
	}

	return nil
}

// GeneratePeerName returns a random valid peer name.
func GeneratePeerName() string {
	return "peer-" + uuid.NewString()[:8]
}
