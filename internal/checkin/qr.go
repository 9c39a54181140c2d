package checkin

import (
	"errors"
	"strings"
)

// Prefix is the literal marker every center QR payload starts with. The
// center id follows the prefix verbatim, with no escaping.
const Prefix = "paygo-center:"

var ErrEmptyCenterID = errors.New("center id cannot be empty")

// Generate builds the QR payload for a center.
func Generate(centerID string) (string, error) {
	if centerID == "" {
		return "", ErrEmptyCenterID
	}
	return Prefix + centerID, nil
}

// IsValid reports whether a scanned payload carries the center prefix.
func IsValid(payload string) bool {
	return payload != "" && strings.HasPrefix(payload, Prefix)
}

// ExtractCenterID returns the center id embedded in a payload. The second
// return is false for payloads that do not carry the prefix; no error, no
// panic, so scanners can feed arbitrary garbage through safely.
func ExtractCenterID(payload string) (string, bool) {
	if !IsValid(payload) {
		return "", false
	}
	return strings.TrimPrefix(payload, Prefix), true
}
