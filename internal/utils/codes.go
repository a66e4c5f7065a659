package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"
)

const redeemCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTicketCode returns a QR-encodable voucher code like
// "QR-K3JF-9XQ2": 6 random bytes, base58 encoded, uppercased and
// grouped in blocks of 4.
func GenerateTicketCode() (string, error) {
	var body string
	for len(body) < 8 {
		raw := make([]byte, 6)
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		body = strings.ToUpper(base58.Encode(raw))
	}
	body = body[:8]

	return "QR-" + body[:4] + "-" + body[4:], nil
}

// GenerateRedeemCode returns a code like "REDEEM-7GK2QW9T".
func GenerateRedeemCode() (string, error) {
	var sb strings.Builder
	sb.WriteString("REDEEM-")
	for i := 0; i < 8; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(redeemCodeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to read random index: %w", err)
		}
		sb.WriteByte(redeemCodeAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}

// GenerateResetCode returns a 6-digit password recovery code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to read random number: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
