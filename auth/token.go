package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token 驗證失敗的分類，呼叫端用 errors.Is 判斷
var (
	ErrTokenMalformed   = errors.New("token is malformed or has an invalid signature")
	ErrTokenExpired     = errors.New("token is expired")
	ErrTokenUnsupported = errors.New("token is of an unsupported format")
)

// HS512 需要至少 64 bytes 的密鑰才安全
const minSecretBytes = 64

// Claims 是 token 內攜帶的使用者資訊
type Claims struct {
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// RevocationChecker 查詢 token 是否已被撤銷 (登出)
type RevocationChecker interface {
	IsBlacklisted(ctx context.Context, token string) bool
}

// TokenService 負責簽發與驗證 session token
type TokenService struct {
	key       []byte
	validity  time.Duration
	blacklist RevocationChecker
}

// NewTokenService 建立 TokenService。
// 配置的密鑰短於 HS512 的安全長度時，改用隨機產生的行程內密鑰並記錄警告；
// 此時 token 無法跨行程重啟驗證，是單機部署下接受的限制。
func NewTokenService(secret string, validity time.Duration, blacklist RevocationChecker) *TokenService {
	key := []byte(secret)
	if len(key) < minSecretBytes {
		key = make([]byte, minSecretBytes)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("Failed to generate random JWT key: %v", err)
		}
		log.Println("Provided JWT secret is too short; generated a random in-process key. Tokens will not survive a restart.")
	}
	return &TokenService{key: key, validity: validity, blacklist: blacklist}
}

// Issue 為使用者簽發 token，回傳 token 字串與絕對到期時間
func (s *TokenService) Issue(userID, userName string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.validity)

	claims := Claims{
		UserName: userName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify 只做簽名與效期檢查，不查撤銷狀態。
// exp 是必要的 claim：沒有到期時間的 token 一律視為畸形
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenUnsupported
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// IsUsable 是所有需要授權的操作都要呼叫的檢查：
// 簽名與效期通過，且 token 不在撤銷名單裡
func (s *TokenService) IsUsable(ctx context.Context, tokenString string) bool {
	if _, err := s.Verify(tokenString); err != nil {
		return false
	}
	if s.blacklist == nil {
		return true
	}
	return !s.blacklist.IsBlacklisted(ctx, tokenString)
}

// ExpiresAt 取出 token 的到期時間，登出時用來計算撤銷的 TTL
func (s *TokenService) ExpiresAt(tokenString string) (time.Time, error) {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return time.Time{}, err
	}
	return claims.ExpiresAt.Time, nil
}
