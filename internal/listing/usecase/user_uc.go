package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openhaus/listing-service/internal/listing/domain"
	"github.com/openhaus/listing-service/internal/platform/logger"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// UserUsecase covers registration, password sign-in, the owner's profile,
// and the public landlord view used by the contact page. A session is the
// signed token; the service itself keeps no session state.
type UserUsecase struct {
	repo      domain.UserRepository
	jwtSecret string
	logger    *logger.Logger
}

func NewUserUsecase(repo domain.UserRepository, jwtSecret string, log *logger.Logger) *UserUsecase {
	return &UserUsecase{
		repo:      repo,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (uc *UserUsecase) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	uc.logger.Info("UserUsecase.Register: registering user", "email", email)

	if _, err := uc.repo.FindByEmail(ctx, email); err == nil {
		return "", nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		uc.logger.Error("UserUsecase.Register: failed to create user", "email", email, "error", err.Error())
		return "", nil, err
	}

	token, err := uc.signToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *UserUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		uc.logger.Warn("UserUsecase.Login: password mismatch", "email", email)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := uc.signToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (uc *UserUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.repo.FindByID(ctx, userID)
}

// UpdateProfile changes the display name only; the email on file stays as
// registered.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	if err := uc.repo.UpdateName(ctx, userID, name); err != nil {
		uc.logger.Error("UserUsecase.UpdateProfile: update failed", "user_id", userID, "error", err.Error())
		return nil, err
	}
	return uc.repo.FindByID(ctx, userID)
}

// GetLandlord fetches the owner of a listing for the contact page.
func (uc *UserUsecase) GetLandlord(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		uc.logger.Warn("UserUsecase.GetLandlord: landlord not found", "user_id", id, "error", err.Error())
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) signToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(uc.jwtSecret))
}
