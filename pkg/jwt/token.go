package jwtPkg

import (
	"WaiAutoReply/internal/entity"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"strings"
	"time"
)

const LocalsKey = "admin"

var (
	ErrEmptyHeader      = errors.New("empty Authorization header")
	ErrInvalidFormat    = errors.New("invalid Authorization format")
	ErrSecretNotSet     = errors.New("JWT secret not configured")
	ErrMissingClaims    = errors.New("token claims are missing required fields")
	ErrInsufficientRole = errors.New("token does not grant admin access")
)

func Sign(secret string, data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	if secret == "" {
		return "", 0, ErrSecretNotSet
	}

	expiredAt := time.Now().Add(expiresIn).Unix()

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["iat"] = time.Now().Unix()

	for k, v := range data {
		claims[k] = v
	}

	logrus.WithField("claims", claims).Debug("Creating token with claims")

	to := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := to.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign token")
		return "", 0, err
	}

	return accessToken, expiredAt, nil
}

func SignAdmin(secret, subject string, expiresIn time.Duration) (string, int64, error) {
	return Sign(secret, map[string]interface{}{
		"sub":  subject,
		"role": entity.RoleAdmin,
	}, expiresIn)
}

func VerifyTokenHeader(c *fiber.Ctx, secret string) (*jwt.Token, error) {
	log := logrus.WithField("func", "VerifyTokenHeader")

	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		log.Debug("Empty Authorization header")
		return nil, ErrEmptyHeader
	}

	accessToken, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		log.Debug("Invalid Authorization format")
		return nil, ErrInvalidFormat
	}

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		log.Debug("Empty token after Bearer")
		return nil, ErrInvalidFormat
	}

	if secret == "" {
		log.Error("ADMIN_JWT_SECRET is not set")
		return nil, ErrSecretNotSet
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.WithField("method", token.Header["alg"]).Warn("Unexpected signing method")
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		log.WithError(err).Debug("Failed to parse JWT token")
		return nil, err
	}

	return token, nil
}

// AdminFromToken extracts the admin identity and checks the role claim.
func AdminFromToken(token *jwt.Token) (entity.AdminLoginData, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return entity.AdminLoginData{}, ErrMissingClaims
	}

	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return entity.AdminLoginData{}, ErrMissingClaims
	}
	if role != entity.RoleAdmin {
		return entity.AdminLoginData{}, ErrInsufficientRole
	}

	return entity.AdminLoginData{Subject: sub, Role: role}, nil
}

func GetAdminLoginData(c *fiber.Ctx) (entity.AdminLoginData, error) {
	admin, ok := c.Locals(LocalsKey).(entity.AdminLoginData)
	if !ok {
		return entity.AdminLoginData{}, fiber.ErrUnauthorized
	}

	return admin, nil
}
