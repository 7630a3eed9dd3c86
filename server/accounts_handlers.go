package server

import (
	"net/http"
	"net/url"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/forms"
	"github.com/Luismorlan/newsdesk/model"
	"github.com/Luismorlan/newsdesk/server/middlewares"
	Logger "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	ResetSessionCookie = "reset_session"
	ForgotPasswordPath = "/accounts/forgot_password/"

	msgResetLinkSent   = "If an account exists for that email, a password reset link has been sent."
	msgResetLinkBroken = "The password reset link is invalid or has expired, please request a new one."
)

func (s *Server) registerAccountRoutes(g *gin.RouterGroup, auth gin.HandlerFunc) {
	limited := s.rateLimited()
	g.POST("/register", append(limited, s.register)...)
	g.POST("/login", append(limited, s.login)...)
	g.POST("/logout", s.logout)
	g.GET("/me", auth, s.me)
	g.DELETE("/me", auth, s.deleteAccount)

	g.POST("/send_password_reset", append(limited, s.sendPasswordReset)...)
	g.GET("/reset_password/:token/", s.openResetSession)
	g.POST("/password_reset", append(limited, s.resetPassword)...)
}

func (s *Server) setCookie(c *gin.Context, name string, value string, maxAge int, path string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, "", s.SecureCookies, true)
}

// startSession hands out a session token both in the body and as a cookie.
func (s *Server) startSession(c *gin.Context, status int, user *model.User) {
	token, err := s.Tokens.GenerateJWT(user)
	if err != nil {
		respondError(c, err)
		return
	}
	s.setCookie(c, middlewares.SessionCookie, token, int(accounts.SessionLifetime.Seconds()), "/")
	c.JSON(status, gin.H{
		"token":     token,
		"user":      newUserView(user),
		"dashboard": Dashboard(user),
	})
}

func (s *Server) register(c *gin.Context) {
	var form forms.RegisterForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err)
		return
	}
	user, err := s.Accounts.Register(&form)
	if err != nil {
		respondError(c, err)
		return
	}
	s.startSession(c, http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var form forms.LoginForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err)
		return
	}
	user, err := s.Accounts.Authenticate(form.Username, form.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	s.startSession(c, http.StatusOK, user)
}

func (s *Server) logout(c *gin.Context) {
	s.setCookie(c, middlewares.SessionCookie, "", -1, "/")
	c.JSON(http.StatusOK, gin.H{"redirect": LoginPath})
}

func (s *Server) me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": newUserView(user), "dashboard": Dashboard(user)})
}

func (s *Server) deleteAccount(c *gin.Context) {
	if err := s.Accounts.DeleteAccount(currentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	s.setCookie(c, middlewares.SessionCookie, "", -1, "/")
	c.Status(http.StatusNoContent)
}

// sendPasswordReset answers the same way whether the address is known or
// not.
func (s *Server) sendPasswordReset(c *gin.Context) {
	var form forms.PasswordResetRequestForm
	if !bindJSON(c, &form) {
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err)
		return
	}
	if err := s.Accounts.RequestPasswordReset(c.Request.Context(), form.Email); err != nil {
		Logger.Log.Errorf("fail to send password reset email: %s", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func redirectWithError(c *gin.Context, path string, message string) {
	c.Redirect(http.StatusSeeOther, path+"?error="+url.QueryEscape(message))
}

func (s *Server) openResetSession(c *gin.Context) {
	sessionID, err := s.Accounts.StartReset(c.Request.Context(), c.Param("token"))
	if errors.Is(err, accounts.ErrTokenNotFound) || errors.Is(err, accounts.ErrTokenExpired) {
		redirectWithError(c, ForgotPasswordPath, msgResetLinkBroken)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	s.setCookie(c, ResetSessionCookie, sessionID, int(model.ResetTokenLifetime.Seconds()), "/accounts/")
	c.JSON(http.StatusOK, gin.H{"message": "Choose a new password."})
}

func (s *Server) resetPassword(c *gin.Context) {
	sessionID, err := c.Cookie(ResetSessionCookie)
	if err != nil || sessionID == "" {
		redirectWithError(c, ForgotPasswordPath, msgResetLinkBroken)
		return
	}

	var form forms.PasswordResetForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "Malformed request body.")
		return
	}
	if err := form.Validate(); err != nil {
		respondError(c, err)
		return
	}

	session, err := s.Accounts.CompleteReset(c.Request.Context(), sessionID, form.Password, form.PasswordConf)
	switch {
	case err == nil:
		s.setCookie(c, ResetSessionCookie, "", -1, "/accounts/")
		c.Redirect(http.StatusSeeOther, LoginPath)
	case errors.Is(err, accounts.ErrPasswordMismatch):
		redirectWithError(c, "/accounts/reset_password/"+url.PathEscape(session.Token)+"/", forms.MsgPasswordMismatch)
	case errors.Is(err, accounts.ErrSessionNotFound),
		errors.Is(err, accounts.ErrTokenNotFound),
		errors.Is(err, accounts.ErrTokenExpired):
		s.setCookie(c, ResetSessionCookie, "", -1, "/accounts/")
		redirectWithError(c, ForgotPasswordPath, msgResetLinkBroken)
	default:
		respondError(c, err)
	}
}
