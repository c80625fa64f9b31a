package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type SessionClaims struct {
	UserID    uint
	SessionID string
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func CheckPassword(password string, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// GenerateJWT signs a bearer token for the given session.
func GenerateJWT(userID uint, sessionID, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"sid":     sessionID,
		"exp":     time.Now().Add(ttl).Unix(),
	})
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}
	return "Bearer " + tokenString, nil
}

func ParseJWT(tokenString, secret string) (*SessionClaims, error) {
	tokenString = strings.TrimPrefix(strings.TrimSpace(tokenString), "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, errors.New("user_id claim is not a number")
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return nil, errors.New("sid claim is not a string")
	}
	return &SessionClaims{UserID: uint(userID), SessionID: sessionID}, nil
}
