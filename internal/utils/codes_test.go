package utils

import (
	"regexp"
	"testing"
)

var (
	ticketCodePattern = regexp.MustCompile(`^QR-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	redeemCodePattern = regexp.MustCompile(`^REDEEM-[A-Z0-9]{8}$`)
	resetCodePattern  = regexp.MustCompile(`^[0-9]{6}$`)
)

func TestGenerateTicketCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateTicketCode()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		if !ticketCodePattern.MatchString(code) {
			t.Fatalf("unexpected ticket code format: %q", code)
		}
		if seen[code] {
			t.Fatalf("duplicate ticket code after %d draws: %q", i, code)
		}
		seen[code] = true
	}
}

func TestGenerateRedeemCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateRedeemCode()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		if !redeemCodePattern.MatchString(code) {
			t.Fatalf("unexpected redeem code format: %q", code)
		}
	}
}

func TestGenerateResetCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateResetCode()
		if err != nil {
			t.Fatalf("generation failed: %v", err)
		}
		if !resetCodePattern.MatchString(code) {
			t.Fatalf("unexpected reset code format: %q", code)
		}
	}
}
