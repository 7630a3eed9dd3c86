package accounts

import (
	"time"

	"github.com/Luismorlan/newsdesk/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const SessionLifetime = 168 * time.Hour

var ErrInvalidSession = errors.New("invalid or expired token")

// TokenIssuer signs and verifies the HS256 session tokens handed out on login.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	return &TokenIssuer{secret: []byte(secret), now: time.Now}, nil
}

func (i *TokenIssuer) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id,
		"role":    user.Role.String(),
		"exp":     i.now().Add(SessionLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", errors.Wrap(err, "fail to sign session token")
	}
	return signed, nil
}

// VerifyJWT returns the user id carried by a valid token.
func (i *TokenIssuer) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidSession
	}
	return userID, nil
}
