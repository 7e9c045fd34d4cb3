package middleware

import (
	"WaiAutoReply/pkg/handlerUtil"
	jwtPkg "WaiAutoReply/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const unauthorizedMessage = "Unauthorized, access token invalid or expired"

type tokenMiddleware struct {
	secret string
}

func newTokenMiddleware(secret string) *tokenMiddleware {
	return &tokenMiddleware{secret: secret}
}

// NewTokenMiddleware admits requests carrying a valid admin bearer token and
// stores the admin identity under jwtPkg.LocalsKey.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)
	fields := logrus.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, m.token.secret)
	if err != nil {
		m.log.WithFields(fields).WithError(err).Debug("Token verification failed")
		return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, unauthorizedMessage)
	}

	admin, err := jwtPkg.AdminFromToken(token)
	if err != nil {
		m.log.WithFields(fields).WithError(err).Warn("Token claims check failed")
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden, admin role required",
		})
	}

	ctx.Locals(jwtPkg.LocalsKey, admin)

	m.log.WithFields(fields).WithField("subject", admin.Subject).Debug("Authentication successful")
	return ctx.Next()
}
