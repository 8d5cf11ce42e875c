package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/artaee/shop-backend/internal/domain/models"
	"github.com/artaee/shop-backend/internal/service"
	"github.com/artaee/shop-backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User // ключ — email
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, storage.ErrEmailTaken
	}
	user.ID = int64(len(f.users) + 1)
	user.CreatedAt = time.Now()
	f.users[user.Email] = user
	return user, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestAuthService_Register_Success(t *testing.T) {
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("JWT_SECRET")

	fakeRepo := newFakeUserRepo()
	authSvc := service.NewAuthService(testLogger(), fakeRepo, 60*time.Minute)
	ctx := context.Background()

	user, token, err := authSvc.Register(ctx, "Ana Lopez", "  ANA@X.com ", "password123")
	assert.NoError(t, err, "Register should succeed for a new user")
	assert.NotEmpty(t, token, "Token should not be empty")

	// email нормализуется до сохранения
	assert.Equal(t, "ana@x.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role, "New users always get the customer role")
	// Проверяем, что пароль хэширован (не равен исходному паролю)
	assert.NotEqual(t, "password123", string(user.PassHash), "Password should be hashed")

	stored, err := fakeRepo.GetUserByEmail(ctx, "ana@x.com")
	assert.NoError(t, err, "User should be stored under the normalized email")
	assert.Equal(t, user.ID, stored.ID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("JWT_SECRET")

	fakeRepo := newFakeUserRepo()
	authSvc := service.NewAuthService(testLogger(), fakeRepo, 60*time.Minute)
	ctx := context.Background()

	_, _, err := authSvc.Register(ctx, "Ana", "ana@x.com", "password123")
	assert.NoError(t, err)

	_, token, err := authSvc.Register(ctx, "Ana Again", "ana@x.com", "password456")
	assert.Error(t, err, "Second registration with the same email should fail")
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrEmailTaken))
}

func TestAuthService_Login_CorrectPassword(t *testing.T) {
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("JWT_SECRET")

	fakeRepo := newFakeUserRepo()
	authSvc := service.NewAuthService(testLogger(), fakeRepo, 60*time.Minute)
	ctx := context.Background()

	password := "password123"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	_, err = fakeRepo.CreateUser(ctx, &models.User{
		FullName: "Ana",
		Email:    "ana@x.com",
		PassHash: hashed,
		Role:     models.RoleCustomer,
	})
	assert.NoError(t, err)

	user, token, err := authSvc.Login(ctx, "ana@x.com", password)
	assert.NoError(t, err, "Login should succeed with correct password")
	assert.NotEmpty(t, token, "Token should be returned")
	assert.Equal(t, "ana@x.com", user.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("JWT_SECRET")

	fakeRepo := newFakeUserRepo()
	authSvc := service.NewAuthService(testLogger(), fakeRepo, 60*time.Minute)
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	_, err = fakeRepo.CreateUser(ctx, &models.User{
		FullName: "Ana",
		Email:    "ana@x.com",
		PassHash: hashed,
		Role:     models.RoleCustomer,
	})
	assert.NoError(t, err)

	_, token, err := authSvc.Login(ctx, "ana@x.com", "wrongpassword")
	assert.Error(t, err, "Login should fail with incorrect password")
	assert.Empty(t, token)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	os.Setenv("JWT_SECRET", "testsecret")
	defer os.Unsetenv("JWT_SECRET")

	fakeRepo := newFakeUserRepo()
	authSvc := service.NewAuthService(testLogger(), fakeRepo, 60*time.Minute)
	ctx := context.Background()

	// неизвестный email даёт ту же ошибку, что и неверный пароль
	_, _, err := authSvc.Login(ctx, "nobody@x.com", "password123")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidCredentials))
}

type fakeMessageRepo struct {
	created  []*models.Message
	messages []*models.Message
	readIDs  []int64
}

var _ storage.MessageStorage = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeMessageRepo) GetAllMessages(ctx context.Context) ([]*models.Message, error) {
	return f.messages, nil
}

func (f *fakeMessageRepo) MarkMessageRead(ctx context.Context, id int64) error {
	f.readIDs = append(f.readIDs, id)
	return nil
}

func TestMessageService_Submit_NormalizesFields(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(testLogger(), repo)
	ctx := context.Background()

	err := svc.Submit(ctx, "  Ana  ", " ANA@X.com ", "  hi ")
	assert.NoError(t, err)
	assert.Len(t, repo.created, 1)
	assert.Equal(t, "Ana", repo.created[0].Name)
	assert.Equal(t, "ana@x.com", repo.created[0].Email, "Email must be lower-cased and trimmed")
	assert.Equal(t, "hi", repo.created[0].Message)
}

func TestMessageService_Submit_EmptyFields(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(testLogger(), repo)
	ctx := context.Background()

	err := svc.Submit(ctx, "Ana", "ana@x.com", "   ")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidMessage))
	assert.Len(t, repo.created, 0, "Nothing should be stored on validation failure")
}

func TestMessageService_Submit_TooLong(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(testLogger(), repo)
	ctx := context.Background()

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'a'
	}
	err := svc.Submit(ctx, "Ana", "ana@x.com", string(long))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrMessageTooLong))
}

func TestMessageService_MarkRead(t *testing.T) {
	repo := &fakeMessageRepo{}
	svc := service.NewMessageService(testLogger(), repo)
	ctx := context.Background()

	err := svc.MarkRead(ctx, 42)
	assert.NoError(t, err)
	assert.Equal(t, []int64{42}, repo.readIDs)
}

type fakeStockRepo struct {
	entries []*models.StockEntry
}

var _ storage.StockStorage = (*fakeStockRepo)(nil)

func (f *fakeStockRepo) GetAllStock(ctx context.Context) ([]*models.StockEntry, error) {
	return f.entries, nil
}

func TestStockService_GetStockMap_Coercion(t *testing.T) {
	repo := &fakeStockRepo{entries: []*models.StockEntry{
		{ProductID: "bp-1", InStock: 1},
		{ProductID: "pv-2", InStock: 0},
		{ProductID: "tx-3", InStock: 2}, // любое ненулевое значение означает наличие
	}}
	svc := service.NewStockService(testLogger(), repo)
	ctx := context.Background()

	stockMap, err := svc.GetStockMap(ctx)
	assert.NoError(t, err)
	assert.Len(t, stockMap, 3, "Map keys must be exactly the stored product ids")
	assert.True(t, stockMap["bp-1"])
	assert.False(t, stockMap["pv-2"])
	assert.True(t, stockMap["tx-3"])
}

func TestStockService_GetStockMap_Empty(t *testing.T) {
	repo := &fakeStockRepo{}
	svc := service.NewStockService(testLogger(), repo)
	ctx := context.Background()

	stockMap, err := svc.GetStockMap(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, stockMap)
	assert.Len(t, stockMap, 0)
}
