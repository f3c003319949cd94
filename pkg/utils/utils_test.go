package utils

import (
	"strings"
	"testing"
)

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	// hex 编码长度是字节数的两倍
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}
	for _, c := range token {
		if !strings.ContainsRune("0123456789abcdef", c) {
			t.Errorf("token contains non-hex character %q", c)
		}
	}

	other, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == other {
		t.Errorf("two tokens should never collide")
	}
}

func TestGenerateInviteCode(t *testing.T) {
	code, err := GenerateInviteCode(10)
	if err != nil {
		t.Fatalf("GenerateInviteCode: %v", err)
	}
	if len(code) != 10 {
		t.Errorf("code length = %d, want 10", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(inviteAlphabet, c) {
			t.Errorf("code contains character %q outside the alphabet", c)
		}
	}

	// 易混淆字符不在字母表里
	for _, c := range "0O1Il" {
		if strings.ContainsRune(inviteAlphabet, c) {
			t.Errorf("alphabet contains ambiguous character %q", c)
		}
	}
}
