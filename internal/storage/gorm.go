// Package storage keeps panel user accounts in a local SQLite database.
// Instance definitions and schedules live in JSON files instead; see the
// persist package.
package storage

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"rustpanel/internal/domain"
)

type User struct {
	ID        string `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex"`
	Password  string
	Role      string
	CreatedAt time.Time
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(path string) (*GormStore, error) {
	newLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  gormlogger.Error,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) CreateUser(user *domain.User) error {
	return s.db.Create(&User{
		ID:       user.ID,
		Username: user.Username,
		Password: user.Password,
		Role:     user.Role,
	}).Error
}

func (s *GormStore) GetUserByUsername(username string) (*domain.User, error) {
	var gu User
	result := s.db.First(&gu, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", result.Error)
	}
	return toDomainUser(&gu), nil
}

func (s *GormStore) GetUserByID(id string) (*domain.User, error) {
	var gu User
	result := s.db.First(&gu, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", result.Error)
	}
	return toDomainUser(&gu), nil
}

func (s *GormStore) ListUsers() ([]domain.User, error) {
	var gormUsers []User
	if err := s.db.Find(&gormUsers).Error; err != nil {
		return nil, err
	}

	var users []domain.User
	for i := range gormUsers {
		users = append(users, *toDomainUser(&gormUsers[i]))
	}
	return users, nil
}

func (s *GormStore) DeleteUser(id string) error {
	return s.db.Delete(&User{}, "id = ?", id).Error
}

func toDomainUser(gu *User) *domain.User {
	return &domain.User{
		ID:       gu.ID,
		Username: gu.Username,
		Password: gu.Password,
		Role:     gu.Role,
	}
}
