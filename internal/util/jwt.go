package util

import (
	"errors"
	"marketplace-backend/config"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 24 * time.Hour
)

func GenerateToken(userID int) (string, error) {
	return generateToken(userID, TokenTypeAccess, accessTokenTTL)
}

func GenerateRefreshToken(userID int) (string, error) {
	return generateToken(userID, TokenTypeRefresh, refreshTokenTTL)
}

func generateToken(userID int, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"exp":        time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验访问令牌并返回用户ID
func ValidateToken(tokenString string) (int, error) {
	return validateToken(tokenString, TokenTypeAccess)
}

func validateToken(tokenString, tokenType string) (int, error) {
	if tokenString == "" {
		return 0, errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("不支持的签名算法")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if claims["token_type"] != tokenType {
			return 0, errors.New("令牌类型错误")
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, errors.New("无效的用户ID")
		}
		return int(userID), nil
	}

	return 0, errors.New("无效的令牌")
}

// RefreshToken 使用刷新令牌换取新的访问令牌
func RefreshToken(refreshToken string) (string, error) {
	userID, err := validateToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return GenerateToken(userID)
}
