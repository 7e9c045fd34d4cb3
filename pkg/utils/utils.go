package utils

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	MaskPhoneNumber(phone string) string
}

type utils struct {
	visibleDigits int
}

func New() IUtils {
	return &utils{
		visibleDigits: 4,
	}
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

// MaskPhoneNumber keeps the last few digits of a sender id for logs.
func (u *utils) MaskPhoneNumber(phone string) string {
	phone = strings.TrimSpace(phone)
	if len(phone) <= u.visibleDigits {
		return phone
	}
	return strings.Repeat("*", len(phone)-u.visibleDigits) + phone[len(phone)-u.visibleDigits:]
}
