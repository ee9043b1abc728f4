/**
 * 工具类:JWT令牌工具
 * @author: sun977
 * @date: 2025.10.09
 * @description: 无状态令牌的签发与校验,subject为用户ID
 * @func:
 * 	1.签发令牌
 * 	2.校验令牌
 * 	3.从令牌提取用户ID
 */
package auth

import (
	"fmt"
	"strconv"
	"time"

	"staffhub/internal/model"

	"github.com/golang-jwt/jwt/v5" // 引入jwt包
)

// TokenManager 令牌管理器
// 纯函数式:仅依赖签名密钥与输入,不持久化任何令牌,
// 已签发的令牌在自然过期前始终通过签名校验(没有吊销名单)
type TokenManager struct {
	secretKey []byte
	issuer    string
	tokenTTL  time.Duration
}

// NewTokenManager 创建令牌管理器
func NewTokenManager(secretKey, issuer string, tokenTTL time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		tokenTTL:  tokenTTL,
	}
}

// Issue 为指定用户签发令牌
// 载荷为 {subject: 用户ID十进制字符串, issuedAt, expiresAt = issuedAt + TTL}
func (tm *TokenManager) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Issuer:    tm.issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secretKey)
}

// Validate 校验令牌
// 失败关闭:签名不匹配、载荷损坏或已过期一律返回false,不向调用方泄露具体原因
func (tm *TokenManager) Validate(tokenString string) bool {
	_, err := tm.parse(tokenString)
	return err == nil
}

// SubjectOf 从令牌提取用户ID
// 校验不通过时返回 ErrInvalidToken
func (tm *TokenManager) SubjectOf(tokenString string) (uint, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return 0, model.ErrInvalidToken
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, model.ErrInvalidToken
	}
	return uint(userID), nil
}

// parse 解析并校验令牌
func (tm *TokenManager) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	// ParseWithClaims 已校验exp,这里兜底检查一次
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token has expired")
	}
	return claims, nil
}

// ExtractTokenFromHeader 从Authorization头中提取令牌
func ExtractTokenFromHeader(authHeader string) string {
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ""
}
