package service

import (
	"testing"

	"github.com/fulfillcore/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Member: config.JWTConfig{SecretKey: "member-secret", ExpireHours: 1},
		Admin:  config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
	}
}

func TestAuthServiceMemberToken(t *testing.T) {
	svc := NewAuthService(testAuthConfig())
	token, expiresAt, err := svc.GenerateMemberToken("member-1")
	if err != nil {
		t.Fatalf("generate member token failed: %v", err)
	}
	if expiresAt.IsZero() {
		t.Fatalf("expires_at should be set")
	}
	claims, err := ParseMemberToken(token, "member-secret")
	if err != nil {
		t.Fatalf("parse member token failed: %v", err)
	}
	if claims.MemberID != "member-1" {
		t.Fatalf("member_id want member-1 got %s", claims.MemberID)
	}
	if _, err := ParseMemberToken(token, "other-secret"); err == nil {
		t.Fatalf("token signed with another secret should fail")
	}
}

func TestAuthServiceAdminTokenRequiresAdminClaim(t *testing.T) {
	svc := NewAuthService(testAuthConfig())
	token, _, err := svc.GenerateAdminToken("admin")
	if err != nil {
		t.Fatalf("generate admin token failed: %v", err)
	}
	claims, err := ParseAdminToken(token, "admin-secret")
	if err != nil || !claims.IsAdmin {
		t.Fatalf("parse admin token failed: %v", err)
	}

	// 会员令牌即使密钥相同也不能通过管理端校验
	sameSecret := NewAuthService(config.AuthConfig{
		Member: config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
		Admin:  config.JWTConfig{SecretKey: "admin-secret", ExpireHours: 1},
	})
	memberToken, _, err := sameSecret.GenerateMemberToken("member-1")
	if err != nil {
		t.Fatalf("generate member token failed: %v", err)
	}
	if _, err := ParseAdminToken(memberToken, "admin-secret"); err == nil {
		t.Fatalf("member token must not pass admin check")
	}
}

func TestAuthServiceMissingSecret(t *testing.T) {
	svc := NewAuthService(config.AuthConfig{})
	if _, _, err := svc.GenerateMemberToken("member-1"); err == nil {
		t.Fatalf("expected error when secret missing")
	}
	if _, _, err := svc.GenerateMemberToken(" "); err == nil {
		t.Fatalf("expected error for blank member")
	}
}
