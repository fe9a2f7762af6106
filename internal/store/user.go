package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wzray/Mockview/internal/domain"
)

type userRecord struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null"`
	Phone        string
	Email        string
	RealName     string
	Nickname     string
	Avatar       string
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:       domain.UserID(r.ID),
		Username: r.Username,
		Role:     domain.Role(r.Role),
		Phone:    r.Phone,
		Email:    r.Email,
		RealName: r.RealName,
		Nickname: r.Nickname,
		Avatar:   r.Avatar,
	}
}

// CreateUser registers a new user with an already-hashed password.
// Uniqueness is enforced by the username index, so two concurrent
// registrations cannot both slip through.
func (s *Store) CreateUser(username, passwordHash, phone string, role domain.Role) (*domain.User, error) {
	user, err := domain.NewUser(username, role)
	if err != nil {
		return nil, err
	}
	rec := userRecord{
		ID:           string(user.ID),
		Username:     user.Username,
		PasswordHash: passwordHash,
		Role:         string(user.Role),
		Phone:        phone,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// UserByUsername returns the user and its password hash for login checks.
func (s *Store) UserByUsername(username string) (*domain.User, string, error) {
	var rec userRecord
	if err := s.db.Where("username = ?", username).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	return rec.toDomain(), rec.PasswordHash, nil
}

func (s *Store) UserByID(id domain.UserID) (*domain.User, error) {
	var rec userRecord
	if err := s.db.Where("id = ?", string(id)).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return rec.toDomain(), nil
}

// Profile is the mutable slice of a user record.
type Profile struct {
	Phone    string
	Email    string
	RealName string
	Nickname string
	Avatar   string
}

// UpdateProfile overwrites the profile fields and returns the updated user.
func (s *Store) UpdateProfile(id domain.UserID, p Profile) (*domain.User, error) {
	res := s.db.Model(&userRecord{}).Where("id = ?", string(id)).Updates(map[string]any{
		"phone":     p.Phone,
		"email":     p.Email,
		"real_name": p.RealName,
		"nickname":  p.Nickname,
		"avatar":    p.Avatar,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.UserByID(id)
}
