package utils

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// 邀请码字母表：去掉 0/O/1/I 等易混淆字符，方便客户手动输入
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateToken 生成随机 Token（hex 编码，length 为字节数）
func GenerateToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateInviteCode 生成可手动输入的邀请码
func GenerateInviteCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(inviteAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteAlphabet[n.Int64()]
	}
	return string(code), nil
}
