package auth_test

import (
	"context"
	"testing"

	auth "github.com/membrarium/go-member-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*auth.AuthController, *memoryStore) {
	t.Helper()

	auther, store := newTestAuther(t)
	controller := auth.NewAuthController(auth.WithController(auther))
	return controller, store
}

func TestNewAuthControllerPanicsWithoutAuthenticator(t *testing.T) {
	assert.Panics(t, func() {
		auth.NewAuthController()
	})
}

func TestSignUpPostCreatesAccount(t *testing.T) {
	controller, _ := newTestController(t)

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.SignUpRequest)
		payload.Name = "Ada"
		payload.Email = "ada@example.com"
		payload.Password = "pass-1234"
	}).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", 201, mock.MatchedBy(func(v any) bool {
		res, ok := v.(*auth.TokenResponse)
		return ok && res.AccessToken != "" && res.User.Email == "ada@example.com"
	})).Return(nil)

	err := controller.SignUpPost(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestSignUpPostRejectsShortPassword(t *testing.T) {
	controller, _ := newTestController(t)

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.SignUpRequest)
		payload.Name = "Ada"
		payload.Email = "ada@example.com"
		payload.Password = "short"
	}).Return(nil)
	ctx.On("JSON", 400, mock.Anything).Return(nil)

	err := controller.SignUpPost(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestSignUpPostDuplicateEmailConflict(t *testing.T) {
	controller, _ := newTestController(t)

	bind := func(ctx *MockContext) {
		ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
			payload := args.Get(0).(*auth.SignUpRequest)
			payload.Name = "Ada"
			payload.Email = "ada@example.com"
			payload.Password = "pass-1234"
		}).Return(nil)
		ctx.On("Context").Return(context.Background())
	}

	first := new(MockContext)
	bind(first)
	first.On("JSON", 201, mock.Anything).Return(nil)
	require.NoError(t, controller.SignUpPost(first))

	second := new(MockContext)
	bind(second)
	second.On("JSON", 409, mock.Anything).Return(nil)
	require.NoError(t, controller.SignUpPost(second))
	second.AssertExpectations(t)
}

func TestSignInPostInvalidPayloadLooksLikeBadCredentials(t *testing.T) {
	controller, _ := newTestController(t)

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.SignInRequest)
		payload.Email = "not-an-email"
		payload.Password = "whatever"
	}).Return(nil)
	ctx.On("JSON", 401, mock.MatchedBy(func(v any) bool {
		body, ok := v.(map[string]any)
		return ok && body["code"] == auth.TextCodeInvalidCreds
	})).Return(nil)

	err := controller.SignInPost(ctx)
	require.NoError(t, err)
	ctx.AssertExpectations(t)
}

func TestRefreshPostRotates(t *testing.T) {
	auther, _ := newTestAuther(t)
	controller := auth.NewAuthController(auth.WithController(auther))

	signup, err := auther.SignUp(context.Background(), auth.SignUpInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "pass-1234",
	})
	require.NoError(t, err)

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.RefreshRequest)
		payload.RefreshToken = signup.RefreshToken
	}).Return(nil)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", 200, mock.MatchedBy(func(v any) bool {
		res, ok := v.(*auth.TokenResponse)
		return ok && res.AccessToken != ""
	})).Return(nil)

	require.NoError(t, controller.RefreshPost(ctx))
	ctx.AssertExpectations(t)
}

func TestProfileGetUsesClaims(t *testing.T) {
	auther, _ := newTestAuther(t)
	controller := auth.NewAuthController(auth.WithController(auther))

	signup, err := auther.SignUp(context.Background(), auth.SignUpInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "pass-1234",
	})
	require.NoError(t, err)

	claims := auth.NewClaimsForUser(signup.User)

	ctx := new(MockContext)
	ctx.On("Locals", auth.DefaultClaimsContextKey).Return(claims)
	ctx.On("Context").Return(context.Background())
	ctx.On("JSON", 200, mock.MatchedBy(func(v any) bool {
		user, ok := v.(*auth.User)
		return ok && user.Email == "ada@example.com" && user.PasswordHash == ""
	})).Return(nil)

	require.NoError(t, controller.ProfileGet(ctx))
	ctx.AssertExpectations(t)
}

func TestRolePutDrivesStateMachine(t *testing.T) {
	auther, store := newTestAuther(t)
	controller := auth.NewAuthController(auth.WithController(auther))
	bg := context.Background()

	signup, err := auther.SignUp(bg, auth.SignUpInput{
		Name:     "Lena",
		Email:    "lena@example.com",
		Password: "pass-1234",
	})
	require.NoError(t, err)
	userID := signup.User.ID.String()

	adminClaims := claimsFor(auth.RoleAdmin, nil)

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.SetRolePayload)
		payload.Role = auth.RoleUnitLeader
	}).Return(nil)
	ctx.On("Locals", auth.DefaultClaimsContextKey).Return(adminClaims)
	ctx.On("Context").Return(bg)
	ctx.On("Param", "id").Return(userID)
	ctx.On("JSON", 200, mock.Anything).Return(nil)

	require.NoError(t, controller.RolePut(ctx))

	updated, err := store.FindUserByID(bg, userID)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUnitLeader, updated.Role)
	require.NotNil(t, updated.LeaderStatus)
	assert.Equal(t, auth.LeaderStatusPending, *updated.LeaderStatus)
}

func TestLeaderStatusPutApproves(t *testing.T) {
	auther, store := newTestAuther(t)
	controller := auth.NewAuthController(auth.WithController(auther))
	bg := context.Background()

	signup, err := auther.SignUp(bg, auth.SignUpInput{
		Name:     "Lena",
		Email:    "lena@example.com",
		Password: "pass-1234",
		Role:     auth.RoleUnitLeader,
	})
	require.NoError(t, err)
	userID := signup.User.ID.String()

	ctx := new(MockContext)
	ctx.On("Bind", mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(0).(*auth.SetLeaderStatusPayload)
		payload.Status = auth.LeaderStatusApproved
	}).Return(nil)
	ctx.On("Locals", auth.DefaultClaimsContextKey).Return(claimsFor(auth.RoleAdmin, nil))
	ctx.On("Context").Return(bg)
	ctx.On("Param", "id").Return(userID)
	ctx.On("JSON", 200, mock.Anything).Return(nil)

	require.NoError(t, controller.LeaderStatusPut(ctx))

	updated, err := store.FindUserByID(bg, userID)
	require.NoError(t, err)
	require.NotNil(t, updated.LeaderStatus)
	assert.Equal(t, auth.LeaderStatusApproved, *updated.LeaderStatus)
}
