package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

const (
	// DefaultClaimsContextKey is where validated claims live in router locals.
	DefaultClaimsContextKey = "auth_claims"
	// DefaultAuthScheme is the bearer scheme expected in the Authorization header.
	DefaultAuthScheme = "Bearer"
)

// MiddlewareConfig wires token validation and a per-route access policy.
// Routes declare their policy explicitly here; there is no decorator or
// reflection-based role metadata.
type MiddlewareConfig struct {
	TokenService TokenService
	Evaluator    *Evaluator
	Policy       AccessPolicy
	ContextKey   string
	AuthScheme   string
	ErrorHandler func(router.Context, error) error
}

// RequireAccess validates the bearer token and evaluates the route policy.
// Absent/garbled/expired tokens produce ErrUnauthenticated; a valid
// identity with insufficient role or approval produces ErrForbidden. The
// distinction survives to the response.
func RequireAccess(cfg MiddlewareConfig) router.MiddlewareFunc {
	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultClaimsContextKey
	}
	if cfg.AuthScheme == "" {
		cfg.AuthScheme = DefaultAuthScheme
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = WriteErrorResponse
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := extractBearerToken(ctx, cfg.AuthScheme)
			if err != nil {
				return cfg.ErrorHandler(ctx, ErrUnauthenticated)
			}

			claims, err := cfg.TokenService.Validate(raw)
			if err != nil {
				// expired vs malformed stays visible in logs through the
				// token service; callers only see unauthenticated
				return cfg.ErrorHandler(ctx, ErrUnauthenticated)
			}

			if claims.Use() != TokenUseAccess {
				return cfg.ErrorHandler(ctx, ErrUnauthenticated)
			}

			evaluator := cfg.Evaluator
			if evaluator == nil {
				evaluator = NewEvaluator()
			}

			if err := evaluator.CanAccess(claims, cfg.Policy); err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, claims)

			return next(ctx)
		}
	}
}

// ClaimsFromContext retrieves the validated claims stored by RequireAccess.
func ClaimsFromContext(ctx router.Context, key string) (AuthClaims, error) {
	if key == "" {
		key = DefaultClaimsContextKey
	}

	value := ctx.Locals(key)
	if value == nil {
		return nil, ErrUnauthenticated
	}

	claims, ok := value.(AuthClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return claims, nil
}

// WriteErrorResponse renders a rich error as a JSON response, mapping the
// taxonomy onto HTTP status codes.
func WriteErrorResponse(ctx router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "unexpected server error").
			WithCode(errors.CodeInternal)
	}

	return ctx.JSON(richErr.Code, map[string]any{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}

func extractBearerToken(ctx router.Context, scheme string) (string, error) {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if header == "" {
		return "", ErrUnauthenticated
	}

	scheme = strings.TrimSpace(scheme)
	l := len(scheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], scheme) {
		return strings.TrimSpace(header[l:]), nil
	}

	return "", ErrUnauthenticated
}
