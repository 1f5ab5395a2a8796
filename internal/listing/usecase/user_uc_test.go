package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.nextID++
	user.ID = fmt.Sprintf("user-%d", r.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateName(ctx context.Context, id, name string) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Name = name
	return nil
}

const testSecret = "unit-test-secret"

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	token, user, err := uc.Register(context.Background(), "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, user.ID)

	stored := repo.users[user.ID]
	assert.NotEqual(t, "hunter22", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))

	// the token must carry the user's ID and verify against the secret
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID, claims["user_id"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, _, err := uc.Register(context.Background(), "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = uc.Register(context.Background(), "Another", "jordan@example.com", "different")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, registered, err := uc.Register(context.Background(), "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	token, user, err := uc.Login(context.Background(), "jordan@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, _, err := uc.Register(context.Background(), "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = uc.Login(context.Background(), "jordan@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, _, err := uc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateProfile_ChangesDisplayNameOnly(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, registered, err := uc.Register(context.Background(), "Jordan", "jordan@example.com", "hunter22")
	require.NoError(t, err)

	updated, err := uc.UpdateProfile(context.Background(), registered.ID, "Jordan R.")
	require.NoError(t, err)
	assert.Equal(t, "Jordan R.", updated.Name)
	assert.Equal(t, "jordan@example.com", updated.Email)
}

func TestGetLandlord_Missing(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo, testSecret, testLogger())

	_, err := uc.GetLandlord(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
