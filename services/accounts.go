package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/apperrors"
	"github.com/Madhav-Gupta-28/marketplace-backend-go/models"
)

const minPasswordLength = 8

// TokenGenerator issues access tokens.
type TokenGenerator interface {
	Generate(userID primitive.ObjectID, role models.Role) (string, error)
}

// SignUpInput is a new account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

// AccountService handles sign-up, login and profiles.
type AccountService struct {
	users  UserRepository
	tokens TokenGenerator
	cost   int
	now    func() time.Time
}

func NewAccountService(users UserRepository, tokens TokenGenerator) *AccountService {
	return &AccountService{users: users, tokens: tokens, cost: bcrypt.DefaultCost, now: time.Now}
}

// SignUp registers an account and returns it with an access token. Only the
// user and seller roles can be chosen; admins are promoted out of band.
func (s *AccountService) SignUp(ctx context.Context, in SignUpInput) (*models.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.Name) == "" {
		return nil, "", apperrors.Validation("name and email are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", apperrors.Validation("password must be at least 8 characters")
	}

	role := in.Role
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleSeller:
	default:
		return nil, "", apperrors.Validation("role must be user or seller")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, "", apperrors.Conflict("email already registered")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}

	now := s.now()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(in.Name),
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

// Login checks the credentials and returns the account with a fresh token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.tokens.Generate(user.ID, user.Role)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	return user, token, nil
}

// Profile loads the account of userID.
func (s *AccountService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

// UpdateProfile changes the display name.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("name is required")
	}
	return s.users.UpdateName(ctx, userID, name)
}
