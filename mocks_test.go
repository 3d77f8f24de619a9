package auth_test

import (
	"context"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	auth "github.com/membrarium/go-member-auth"
	"github.com/stretchr/testify/mock"
)

// MockIdentityStore implements auth.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) CreateUser(ctx context.Context, record auth.NewUserRecord) (*auth.User, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockIdentityStore) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockIdentityStore) FindUserByID(ctx context.Context, id string) (*auth.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockIdentityStore) UpdateUserFields(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockIdentityStore) ListUsers(ctx context.Context) ([]*auth.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auth.User), args.Error(1)
}

func (m *MockIdentityStore) VerifyCredentials(ctx context.Context, email, password string) (*auth.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// memoryStore is an in-memory auth.IdentityStore used for flow tests.
type memoryStore struct {
	mu    sync.Mutex
	users map[string]*auth.User

	createErr error
	findErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*auth.User{}}
}

func (ms *memoryStore) CreateUser(_ context.Context, record auth.NewUserRecord) (*auth.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.createErr != nil {
		return nil, ms.createErr
	}

	email := strings.ToLower(strings.TrimSpace(record.Email))
	for _, u := range ms.users {
		if u.Email == email {
			return nil, auth.NewAdapterError(auth.AdapterCodeDuplicate, nil)
		}
	}

	hash := ""
	if record.Password == "" {
		hash = auth.RandomPasswordHash()
	} else {
		h, err := auth.HashPassword(record.Password)
		if err != nil {
			return nil, auth.NewAdapterError(auth.AdapterCodeUnavailable, err)
		}
		hash = h
	}

	user := &auth.User{
		ID:           uuid.New(),
		Name:         record.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         record.Role,
		LeaderStatus: record.LeaderStatus,
		Provider:     record.Provider,
	}
	ms.users[user.ID.String()] = user

	out := *user
	return &out, nil
}

func (ms *memoryStore) FindUserByEmail(_ context.Context, email string) (*auth.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.findErr != nil {
		return nil, ms.findErr
	}

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range ms.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, auth.NewAdapterError(auth.AdapterCodeNotFound, nil)
}

func (ms *memoryStore) FindUserByID(_ context.Context, id string) (*auth.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.findErr != nil {
		return nil, ms.findErr
	}

	u, ok := ms.users[id]
	if !ok {
		return nil, auth.NewAdapterError(auth.AdapterCodeNotFound, nil)
	}
	out := *u
	return &out, nil
}

func (ms *memoryStore) UpdateUserFields(_ context.Context, id string, fields map[string]any) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	u, ok := ms.users[id]
	if !ok {
		return auth.NewAdapterError(auth.AdapterCodeNotFound, nil)
	}

	for col, val := range fields {
		switch col {
		case "user_role":
			if role, ok := val.(string); ok {
				u.Role = role
			}
		case "leader_status":
			if val == nil {
				u.LeaderStatus = nil
				continue
			}
			if status, ok := val.(string); ok {
				s := status
				u.LeaderStatus = &s
			}
		case "profile_image":
			if img, ok := val.(string); ok {
				u.ProfileImage = img
			}
		}
	}

	return nil
}

func (ms *memoryStore) ListUsers(_ context.Context) ([]*auth.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	out := make([]*auth.User, 0, len(ms.users))
	for _, u := range ms.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (ms *memoryStore) VerifyCredentials(_ context.Context, email, password string) (*auth.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.findErr != nil {
		return nil, ms.findErr
	}

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range ms.users {
		if u.Email != email {
			continue
		}
		if err := auth.ComparePasswordAndHash(password, u.PasswordHash); err != nil {
			return nil, auth.NewAdapterError(auth.AdapterCodeBadPassword, err)
		}
		out := *u
		return &out, nil
	}
	return nil, auth.NewAdapterError(auth.AdapterCodeNotFound, nil)
}

// MockContext mocks router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) QueryValues(name string) []string {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]any)
}

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*multipart.FileHeader), args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(map[string]string)
}
