package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// ParseOptionalUUID returns nil for an empty string
func ParseOptionalUUID(s string) (*uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewSaleID builds a sale identifier such as "TRX-482913"
func NewSaleID(now time.Time) string {
	return shortID("TRX", now)
}

// NewDeliveryID builds a delivery identifier such as "DEL-482913"
func NewDeliveryID(now time.Time) string {
	return shortID("DEL", now)
}

// shortID keeps the last six digits of the millisecond clock
func shortID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%06d", prefix, now.UnixMilli()%1_000_000)
}

var nonDigits = regexp.MustCompile(`\D`)

// DigitsOnly strips everything but 0-9, used for phone numbers and CPF
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// GenerateSKU generates a product code when none is supplied
func GenerateSKU() string {
	return "PRD-" + strings.ToUpper(uuid.New().String()[:8])
}
