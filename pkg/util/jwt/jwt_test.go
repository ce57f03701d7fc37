package jwt

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	Init("test-secret-at-least-32-characters", 15, 168)

	token, err := GenerateAccessToken("user_1", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Errorf("UserID = %q, want user_1", claims.UserID)
	}
	if claims.Role != "student" {
		t.Errorf("Role = %q, want student", claims.Role)
	}
	if claims.Subject != "access_token" {
		t.Errorf("Subject = %q, want access_token", claims.Subject)
	}
}

func TestRefreshTokenSubject(t *testing.T) {
	Init("test-secret-at-least-32-characters", 15, 168)

	token, tokenID, err := GenerateRefreshToken("user_1", "mentor")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if tokenID == "" {
		t.Fatal("tokenID 为空")
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	// Refresh Token 不能被当成 Access Token 使用，靠 Subject 区分
	if claims.Subject != "refresh_token" {
		t.Errorf("Subject = %q, want refresh_token", claims.Subject)
	}
	if claims.TokenID != tokenID {
		t.Errorf("TokenID = %q, want %q", claims.TokenID, tokenID)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	// 有效期 0 分钟，签出即过期
	Init("test-secret-at-least-32-characters", 0, 168)
	token, err := GenerateAccessToken("user_1", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Fatal("过期 Token 应被拒绝")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	Init("test-secret-at-least-32-characters", 15, 168)
	token, err := GenerateAccessToken("user_1", "student")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	Init("another-secret-that-does-not-match!!", 15, 168)
	if _, err := ParseToken(token); err == nil {
		t.Fatal("错误密钥签名的 Token 应被拒绝")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	Init("test-secret-at-least-32-characters", 15, 168)
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Fatal("非法 Token 字符串应被拒绝")
	}
}
