package jwtPkg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	OperatorKey       = "operator"
)

var (
	ErrMissingSecret = errors.New("JWT secret not configured")
	ErrEmptyHeader   = errors.New("empty Authorization header")
	ErrInvalidFormat = errors.New("invalid Authorization format")
	ErrMissingClaims = errors.New("token claims are missing required fields")
)

// Sign issues an HS256 operator token for subject.
func Sign(subject string, secret string, ttl time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, ErrMissingSecret
	}

	expiredAt := time.Now().Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiredAt),
	}

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt.Unix(), nil
}

func VerifyTokenHeader(c *fiber.Ctx, secret string) (*jwt.RegisteredClaims, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return nil, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	accessToken = strings.TrimSpace(accessToken)
	if !ok || accessToken == "" {
		return nil, ErrInvalidFormat
	}

	if secret == "" {
		log.Error("JWT_ACCESS_TOKEN_SECRET environment variable not set")
		return nil, ErrMissingSecret
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		log.WithError(err).Debug("Failed to parse JWT token")
		return nil, err
	}

	if claims.Subject == "" {
		return nil, ErrMissingClaims
	}

	return claims, nil
}

func GetOperator(c *fiber.Ctx) (string, error) {
	operator, ok := c.Locals(OperatorKey).(string)
	if !ok || operator == "" {
		return "", fiber.ErrUnauthorized
	}

	return operator, nil
}
