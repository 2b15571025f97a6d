package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-RoomBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-RoomBookingService/internal/domain"
)

type contextKey int

const (
	userIDKey contextKey = iota
	roleKey
)

const (
	msgUnauthorized = "требуется авторизация"
	msgForbidden    = "недостаточно прав"
)

var errInvalidClaims = errors.New("invalid token claims")

// Claims полезная нагрузка access токена.
// Токены выпускает сервис авторизации, здесь они только проверяются.
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Authenticator проверяет Bearer токены (HS256)
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
	logger Logger
}

// NewAuthenticator создает проверку токенов; пустой issuer не проверяется
func NewAuthenticator(secret string, issuer string, logger Logger) *Authenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(opts...),
		logger: logger,
	}
}

// Middleware кладёт ID пользователя и роль из токена в контекст запроса
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.parse(r.Header.Get("Authorization"))
		if err != nil {
			a.logger.Warn("%s %s - Unauthorized: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}

		ctx := WithIdentity(r.Context(), claims.UserID, domain.Role(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) parse(header string) (*Claims, error) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return nil, fmt.Errorf("missing bearer token")
	}

	claims := &Claims{}
	if _, err := a.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}); err != nil {
		return nil, err
	}

	if claims.UserID <= 0 || !domain.Role(claims.Role).IsValid() {
		return nil, errInvalidClaims
	}

	return claims, nil
}

// RequireRole пропускает запрос, только если роль пользователя входит в roles
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRole(r.Context())
			if !ok {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			handlers.RespondForbidden(w, msgForbidden)
		})
	}
}

// WithIdentity кладёт пользователя в контекст
func WithIdentity(ctx context.Context, userID int64, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// GetRole возвращает роль пользователя из контекста
func GetRole(ctx context.Context) (domain.Role, bool) {
	role, ok := ctx.Value(roleKey).(domain.Role)
	return role, ok
}
