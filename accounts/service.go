// Package accounts manages user accounts: registration, credentials, account
// deletion and the password reset flow.
package accounts

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Luismorlan/newsdesk/clients"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUsernameTaken      = errors.New("a user with that username already exists")
	ErrEmailTaken         = errors.New("a user with that email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type Mailer interface {
	Send(ctx context.Context, email clients.Email) error
}

type Service struct {
	DB       *gorm.DB
	Mailer   Mailer
	Sessions ResetSessionStore
	BaseURL  string
	From     string
	Now      func() time.Time
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) hash(password string) (string, error) {
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", errors.Wrap(err, "fail to hash password")
	}
	return string(hashed), nil
}

func (s *Service) exists(query string, value string) (bool, error) {
	var count int64
	if err := s.DB.Model(&model.User{}).Where(query, value).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "fail to check user")
	}
	return count > 0, nil
}

func verifyPassword(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Register creates the account described by a validated form.
func (s *Service) Register(form *forms.RegisterForm) (*model.User, error) {
	if taken, err := s.exists("username = ?", form.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.exists("LOWER(email) = ?", strings.ToLower(form.Email)); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := s.hash(form.Password1)
	if err != nil {
		return nil, err
	}
	user := model.User{
		Username:     form.Username,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		Email:        form.Email,
		Phone:        form.PhoneNumber(),
		PasswordHash: hashed,
		Role:         form.ParsedRole(),
	}
	if err := s.DB.Omit(clause.Associations).Create(&user).Error; err != nil {
		return nil, errors.Wrap(err, "fail to create user")
	}
	return &user, nil
}

// Authenticate returns the user owning username if password matches.
func (s *Service) Authenticate(username string, password string) (*model.User, error) {
	var user model.User
	err := s.DB.First(&user, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to load user")
	}
	if !verifyPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *Service) GetUser(id string) (*model.User, error) {
	var user model.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes user. Authored articles and approvals survive without
// their user, authored newsletters go away with it.
func (s *Service) DeleteAccount(user *model.User) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			what string
			sql  string
		}{
			{"detach articles", "UPDATE articles SET author_id = NULL WHERE author_id = @id"},
			{"detach approvals", "UPDATE articles SET approved_by_id = NULL WHERE approved_by_id = @id"},
			{"detach newsletter articles", "DELETE FROM newsletter_articles WHERE newsletter_id IN (SELECT id FROM newsletters WHERE journalist_id = @id)"},
			{"delete newsletters", "DELETE FROM newsletters WHERE journalist_id = @id"},
			{"remove affiliations", "DELETE FROM publisher_journalists WHERE user_id = @id"},
			{"remove editorships", "DELETE FROM publisher_editors WHERE user_id = @id"},
			{"remove publisher subscriptions", "DELETE FROM reader_publisher_subscriptions WHERE user_id = @id"},
			{"remove journalist subscriptions", "DELETE FROM reader_journalist_subscriptions WHERE reader_id = @id OR journalist_id = @id"},
			{"remove reset tokens", "DELETE FROM password_reset_tokens WHERE user_id = @id"},
		}
		for _, step := range steps {
			if err := tx.Exec(step.sql, sql.Named("id", user.Id)).Error; err != nil {
				return errors.Wrapf(err, "fail to %s", step.what)
			}
		}
		if err := tx.Delete(&model.User{}, "id = ?", user.Id).Error; err != nil {
			return errors.Wrap(err, "fail to delete user")
		}
		return nil
	})
}

// GrantManager turns an existing user into a publisher manager.
func (s *Service) GrantManager(username string) (*model.User, error) {
	var user model.User
	if err := s.DB.First(&user, "username = ?", username).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to find user %s", username)
	}
	if err := s.DB.Model(&user).Update("is_manager", true).Error; err != nil {
		return nil, errors.Wrapf(err, "fail to grant manager to %s", username)
	}
	user.IsManager = true
	return &user, nil
}
