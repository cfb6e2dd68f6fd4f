package middleware

import (
	"PhotoAnalyzer/pkg/handlerUtil"
	jwtPkg "PhotoAnalyzer/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type tokenMiddleware struct {
	secret string
}

func newTokenMiddleware(secret string) *tokenMiddleware {
	return &tokenMiddleware{secret: secret}
}

func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if m.token.secret == "" {
		return ctx.Next()
	}

	claims, err := jwtPkg.VerifyTokenHeader(ctx, m.token.secret)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"client_ip":  ctx.IP(),
			"error":      err.Error(),
		}).Debug("Token verification failed")
		return handlerUtil.New(m.log).HandleUnauthorized(ctx, m.GetRequestID(ctx), "Unauthorized, access token invalid or expired")
	}

	ctx.Locals(jwtPkg.OperatorKey, claims.Subject)

	return ctx.Next()
}
