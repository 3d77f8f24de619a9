package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes are the mount points for the JSON API.
type AuthControllerRoutes struct {
	SignUp       string
	SignIn       string
	Refresh      string
	Profile      string
	Users        string
	Role         string
	LeaderStatus string
}

// AuthController exposes the auth core as a JSON API.
type AuthController struct {
	Auther       Authenticator
	TokenService TokenService
	Evaluator    *Evaluator
	Logger       Logger
	Routes       *AuthControllerRoutes
	ErrorHandler func(router.Context, error) error
}

// AuthControllerOption configures the controller.
type AuthControllerOption func(*AuthController) *AuthController

// WithController sets the facade plus the services middleware needs.
func WithController(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		c.TokenService = auther.TokenService()
		c.Evaluator = auther.Evaluator()
		return c
	}
}

// WithControllerLogger sets the logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// NewAuthController builds the controller with default routes.
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: WriteErrorResponse,
		Routes: &AuthControllerRoutes{
			SignUp:       "/auth/signup",
			SignIn:       "/auth/signin",
			Refresh:      "/auth/refresh",
			Profile:      "/auth/profile",
			Users:        "/users",
			Role:         "/users/:id/role",
			LeaderStatus: "/users/:id/leader-status",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the API. Each protected route carries its own
// explicit AccessPolicy.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	authed := func(policy AccessPolicy) router.MiddlewareFunc {
		return RequireAccess(MiddlewareConfig{
			TokenService: controller.TokenService,
			Evaluator:    controller.Evaluator,
			Policy:       policy,
			ErrorHandler: controller.ErrorHandler,
		})
	}

	app.Post(controller.Routes.SignUp, controller.SignUpPost).
		SetName("auth.signup")
	app.Post(controller.Routes.SignIn, controller.SignInPost).
		SetName("auth.signin")
	app.Post(controller.Routes.Refresh, controller.RefreshPost).
		SetName("auth.refresh")

	app.Get(controller.Routes.Profile, controller.ProfileGet, authed(AccessPolicy{})).
		SetName("auth.profile")

	app.Get(controller.Routes.Users, controller.UsersGet, authed(AdminOnly())).
		SetName("users.list")
	app.Put(controller.Routes.Role, controller.RolePut, authed(AdminOnly())).
		SetName("users.role")
	app.Put(controller.Routes.LeaderStatus, controller.LeaderStatusPut, authed(AdminOnly())).
		SetName("users.leader-status")
}

// SignUpRequest payload
type SignUpRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Role     string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(&r.Role, validation.In(
			RoleApplicant,
			RoleUnitLeader,
			RoleRegionalLeader,
		)),
	)
}

func (a *AuthController) SignUpPost(ctx router.Context) error {
	payload := new(SignUpRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "failed to parse body", err)
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "invalid payload", err)
	}

	res, err := a.Auther.SignUp(ctx.Context(), SignUpInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		a.Logger.Error("signup error", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, res)
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignInPost(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "failed to parse body", err)
	}

	if err := payload.Validate(); err != nil {
		// the response is the same generic rejection a bad password gets
		return a.ErrorHandler(ctx, ErrInvalidCredentials)
	}

	res, err := a.Auther.SignIn(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Info("signin rejected", "email", payload.Email)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `form:"refresh_token" json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	payload := new(RefreshRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "failed to parse body", err)
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	res, err := a.Auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

func (a *AuthController) ProfileGet(ctx router.Context) error {
	claims, err := ClaimsFromContext(ctx, DefaultClaimsContextKey)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	user, err := a.Auther.Profile(ctx.Context(), claims.UserID())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, user)
}

func (a *AuthController) UsersGet(ctx router.Context) error {
	users, err := a.Auther.ListUsers(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"users": users,
	})
}

// SetRolePayload carries an admin role assignment.
type SetRolePayload struct {
	Role string `form:"role" json:"role"`
}

// Validate will run validation rules
func (r SetRolePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Role, validation.Required, validation.In(
			RoleAdmin,
			RoleApplicant,
			RoleUnitLeader,
			RoleRegionalLeader,
		)),
	)
}

func (a *AuthController) RolePut(ctx router.Context) error {
	payload := new(SetRolePayload)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "failed to parse body", err)
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "invalid role", err)
	}

	claims, err := ClaimsFromContext(ctx, DefaultClaimsContextKey)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	actor := ActorRef{ID: claims.UserID(), Type: "admin"}
	if err := a.Auther.SetRole(ctx.Context(), actor, ctx.Param("id"), payload.Role); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "ok"})
}

// SetLeaderStatusPayload carries an admin approval decision.
type SetLeaderStatusPayload struct {
	Status string `form:"status" json:"status"`
}

// Validate will run validation rules
func (r SetLeaderStatusPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.In(
			LeaderStatusPending,
			LeaderStatusApproved,
		)),
	)
}

func (a *AuthController) LeaderStatusPut(ctx router.Context) error {
	payload := new(SetLeaderStatusPayload)

	if err := ctx.Bind(payload); err != nil {
		return a.badRequest(ctx, "failed to parse body", err)
	}

	if err := payload.Validate(); err != nil {
		return a.badRequest(ctx, "invalid status", err)
	}

	claims, err := ClaimsFromContext(ctx, DefaultClaimsContextKey)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	actor := ActorRef{ID: claims.UserID(), Type: "admin"}
	if err := a.Auther.SetLeaderStatus(ctx.Context(), actor, ctx.Param("id"), payload.Status); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{"status": "ok"})
}

func (a *AuthController) badRequest(ctx router.Context, msg string, err error) error {
	a.Logger.Error(msg, "error", err)
	return a.ErrorHandler(ctx, errors.Wrap(err, errors.CategoryBadInput, msg).
		WithCode(errors.CodeBadRequest))
}
