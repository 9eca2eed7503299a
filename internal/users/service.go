package users

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"comanda-system/internal/database/models"
	"comanda-system/internal/utils"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username or email already in use")
)

type Service struct {
	db       *gorm.DB
	tokenTTL time.Duration
}

func NewService(db *gorm.DB, tokenTTL time.Duration) *Service {
	return &Service{db: db, tokenTTL: tokenTTL}
}

type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	Firstname  string
	Lastname   string
	Role       string
	LocationID *int64
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleWaiter
	}
	if in.Role != models.RoleWaiter && in.Role != models.RoleManager && in.Role != models.RoleAdmin {
		return nil, errors.New("invalid role")
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", in.Username, in.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:   in.Username,
		Email:      in.Email,
		Password:   string(pwHash),
		Firstname:  in.Firstname,
		Lastname:   in.Lastname,
		Role:       in.Role,
		LocationID: in.LocationID,
		IsActive:   true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	user.Password = ""
	return &user, nil
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? AND is_active = ?", username, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.Role, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	_ = s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", user.ID).Update("last_login", now).Error

	user.Password = ""
	user.LastLogin = &now
	return &AuthResult{User: &user, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &user, nil
}
