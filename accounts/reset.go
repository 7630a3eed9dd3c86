package accounts

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html/template"
	"strings"

	"github.com/Luismorlan/newsdesk/clients"
	"github.com/Luismorlan/newsdesk/model"
	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const resetTokenBytes = 16

var (
	ErrTokenNotFound    = errors.New("reset token not found")
	ErrTokenExpired     = errors.New("reset token expired")
	ErrPasswordMismatch = errors.New("the two password fields didn't match")
)

var resetEmail = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
  <body>
    <p>Hi {{ .Username }}, here is the link to reset your password:</p>
    <p><a href="{{ .URL }}">{{ .URL }}</a></p>
    <p>The link expires in five minutes.</p>
  </body>
</html>
`))

// HashResetToken is the only form a reset token is stored in.
func HashResetToken(token string) string {
	sum := sha1.Sum([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "fail to generate reset token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ResetURL is the link mailed to the user.
func ResetURL(baseURL string, token string) string {
	return fmt.Sprintf("%s/accounts/reset_password/%s/", strings.TrimRight(baseURL, "/"), token)
}

// RequestPasswordReset mails a reset link to the owner of email. An unknown
// address is not an error, callers can't tell both cases apart.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	var user model.User
	err := s.DB.First(&user, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		Logger.Log.Info("password reset requested for an unknown address")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "fail to load user")
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	record := model.PasswordResetToken{
		UserID:    user.Id,
		TokenHash: HashResetToken(token),
		ExpiresAt: s.now().Add(model.ResetTokenLifetime),
	}
	if err := s.DB.Create(&record).Error; err != nil {
		return errors.Wrap(err, "fail to store reset token")
	}

	url := ResetURL(s.BaseURL, token)
	var html bytes.Buffer
	if err := resetEmail.Execute(&html, struct{ Username, URL string }{user.Username, url}); err != nil {
		return errors.Wrap(err, "fail to render reset email")
	}
	return s.Mailer.Send(ctx, clients.Email{
		From:    s.From,
		To:      []string{user.Email},
		Subject: "Password Reset",
		Body:    fmt.Sprintf("Hi %s here is the link to reset your password: %s", user.Username, url),
		HTML:    html.String(),
	})
}

// VerifyResetToken finds the live record of a raw token. An expired record is
// deleted on the spot.
func (s *Service) VerifyResetToken(token string) (*model.PasswordResetToken, error) {
	return s.lookupToken(s.DB, "", token)
}

func (s *Service) lookupToken(db *gorm.DB, userID string, token string) (*model.PasswordResetToken, error) {
	var record model.PasswordResetToken
	q := db.Where("token_hash = ?", HashResetToken(token))
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	err := q.First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "fail to load reset token")
	}
	if record.Used {
		return nil, ErrTokenNotFound
	}
	if record.IsExpired(s.now()) {
		if err := db.Delete(&record).Error; err != nil {
			return nil, errors.Wrap(err, "fail to delete expired reset token")
		}
		return nil, ErrTokenExpired
	}
	return &record, nil
}

// StartReset verifies token and opens the reset session that carries it to
// the password form.
func (s *Service) StartReset(ctx context.Context, token string) (string, error) {
	record, err := s.VerifyResetToken(token)
	if err != nil {
		return "", err
	}
	return s.Sessions.Create(ctx, ResetSession{UserID: record.UserID, Token: token}, model.ResetTokenLifetime)
}

// ResetPassword sets the password of userID if token is still live and both
// entries match. A mismatch leaves the token usable, a success consumes it.
func (s *Service) ResetPassword(userID string, token string, password string, confirmation string) error {
	// outside of the transaction, an expired token must stay deleted
	record, err := s.lookupToken(s.DB, userID, token)
	if err != nil {
		return err
	}
	if password != confirmation {
		return ErrPasswordMismatch
	}
	hashed, err := s.hash(password)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", hashed).Error; err != nil {
			return errors.Wrap(err, "fail to update password")
		}
		if err := tx.Delete(record).Error; err != nil {
			return errors.Wrap(err, "fail to consume reset token")
		}
		return nil
	})
}

// CompleteReset resolves the reset session and resets the password, dropping
// the session once the token is consumed.
func (s *Service) CompleteReset(ctx context.Context, sessionID string, password string, confirmation string) (*ResetSession, error) {
	session, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.ResetPassword(session.UserID, session.Token, password, confirmation); err != nil {
		return session, err
	}
	if err := s.Sessions.Delete(ctx, sessionID); err != nil {
		Logger.Log.WithField("user_id", session.UserID).Errorf("fail to drop reset session: %s", err)
	}
	return session, nil
}
