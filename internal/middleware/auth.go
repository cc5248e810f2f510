package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Buzz_Board/internal/pkg"
	"Buzz_Board/internal/repository/redis"
)

const ContextSessionKey = "session"

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadFormat     = errors.New("invalid authorization format")
	errBadToken      = errors.New("invalid or expired token")
	errLoggedOut     = errors.New("account has been logged in elsewhere")
)

type Authenticator struct {
	tokens   *pkg.TokenIssuer
	sessions *redis.SessionRepository
	log      *zap.Logger
}

func NewAuthenticator(tokens *pkg.TokenIssuer, sessions *redis.SessionRepository, log *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions, log: log}
}

// Required 没有有效会话时返回 401
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := a.authenticate(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized", "issues": []gin.H{{"field": "authorization", "message": err.Error()}}})
			return
		}
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// Optional 令牌缺失或无效时按匿名请求继续
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := a.authenticate(c); err == nil {
			c.Set(ContextSessionKey, sess)
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context) (*pkg.Session, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadFormat
	}
	tokenStr := parts[1]

	claims, err := a.tokens.ParseAccess(tokenStr)
	if err != nil {
		return nil, errBadToken
	}

	// redis校验是否是正确的token
	ctx := c.Request.Context()
	stored, err := a.sessions.Get(ctx, claims.UserID)
	if err != nil || stored != tokenStr {
		return nil, errLoggedOut
	}

	// 校验通过后更新过期时间
	if err = a.sessions.Extend(ctx, claims.UserID); err != nil {
		a.log.Warn("extend session failed", zap.Uint64("user", claims.UserID), zap.Error(err))
	}
	return claims.Session(), nil
}

// SessionFrom 取出当前请求的会话，匿名请求返回 nil
func SessionFrom(c *gin.Context) *pkg.Session {
	v, ok := c.Get(ContextSessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*pkg.Session)
	return sess
}
