package utils

import (
	"crypto/rand"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

const maxObjectKeyLength = 1024

var (
	ErrEmptyObjectKey   = errors.New("object key is empty")
	ErrObjectKeyTooLong = errors.New("object key exceeds 1024 bytes")
	ErrInvalidObjectKey = errors.New("object key is not valid UTF-8")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateObjectKey(key string) error
	FormatConfidence(confidence float64) string
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// ValidateObjectKey applies the S3 object key limits.
func (u *utils) ValidateObjectKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyObjectKey
	}
	if len(key) > maxObjectKeyLength {
		return ErrObjectKeyTooLong
	}
	if !utf8.ValidString(key) {
		return ErrInvalidObjectKey
	}
	return nil
}

// FormatConfidence renders a vision confidence the way a single-precision
// float prints: the shortest decimal that round-trips through float32,
// always with a fractional part.
func (u *utils) FormatConfidence(confidence float64) string {
	s := strconv.FormatFloat(float64(float32(confidence)), 'f', -1, 32)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
