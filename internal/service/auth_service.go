package service

import (
	"errors"
	"strings"
	"time"

	"github.com/fulfillcore/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid 令牌无效
var ErrTokenInvalid = errors.New("invalid token")

// MemberClaims 会员令牌声明
type MemberClaims struct {
	MemberID string `json:"member_id"`
	jwt.RegisteredClaims
}

// AdminClaims 管理端令牌声明
type AdminClaims struct {
	AdminID string `json:"admin_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// AuthService 会员与管理端令牌签发、解析
type AuthService struct {
	cfg config.AuthConfig
}

// NewAuthService 创建令牌服务
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{cfg: cfg}
}

// GenerateMemberToken 签发会员令牌
func (s *AuthService) GenerateMemberToken(memberID string) (string, time.Time, error) {
	memberID, err := normalizeMemberID(memberID)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := tokenExpiresAt(s.cfg.Member)
	claims := MemberClaims{
		MemberID:         memberID,
		RegisteredClaims: registeredClaims(memberID, expiresAt),
	}
	return signToken(claims, s.cfg.Member.SecretKey, expiresAt)
}

// GenerateAdminToken 签发管理端令牌
func (s *AuthService) GenerateAdminToken(adminID string) (string, time.Time, error) {
	adminID = strings.TrimSpace(adminID)
	if adminID == "" {
		return "", time.Time{}, ErrTokenInvalid
	}
	expiresAt := tokenExpiresAt(s.cfg.Admin)
	claims := AdminClaims{
		AdminID:          adminID,
		IsAdmin:          true,
		RegisteredClaims: registeredClaims(adminID, expiresAt),
	}
	return signToken(claims, s.cfg.Admin.SecretKey, expiresAt)
}

// ParseMemberToken 解析会员令牌
func ParseMemberToken(tokenString, secretKey string) (*MemberClaims, error) {
	claims := &MemberClaims{}
	if err := parseToken(tokenString, secretKey, claims); err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.MemberID) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseAdminToken 解析管理端令牌，缺少 is_admin 视为无效
func ParseAdminToken(tokenString, secretKey string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := parseToken(tokenString, secretKey, claims); err != nil {
		return nil, err
	}
	if !claims.IsAdmin || strings.TrimSpace(claims.AdminID) == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func tokenExpiresAt(cfg config.JWTConfig) time.Time {
	hours := cfg.ExpireHours
	if hours <= 0 {
		hours = 24
	}
	return time.Now().Add(time.Duration(hours) * time.Hour)
}

func registeredClaims(subject string, expiresAt time.Time) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

func signToken(claims jwt.Claims, secretKey string, expiresAt time.Time) (string, time.Time, error) {
	if secretKey == "" {
		return "", time.Time{}, errors.New("jwt secret missing")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func parseToken(tokenString, secretKey string, claims jwt.Claims) error {
	if secretKey == "" {
		return errors.New("jwt secret missing")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// maxMemberIDLength 与 member_id 列宽 varchar(64) 一致
const maxMemberIDLength = 64

// normalizeMemberID 去除空白并校验会员 ID 非空且不超过列宽
func normalizeMemberID(raw string) (string, error) {
	memberID := strings.TrimSpace(raw)
	if memberID == "" || len(memberID) > maxMemberIDLength {
		return "", ErrInvalidMember
	}
	return memberID, nil
}
