package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ecomstack/storefront-api/config"
	"github.com/ecomstack/storefront-api/internal/application"
	"github.com/ecomstack/storefront-api/internal/domain/entity"
	"github.com/ecomstack/storefront-api/internal/infrastructure/postgres"
	"github.com/ecomstack/storefront-api/internal/interface/middleware"
	"github.com/ecomstack/storefront-api/pkg/helpers"
	"github.com/ecomstack/storefront-api/pkg/mailer"
	tpl "github.com/ecomstack/storefront-api/pkg/mailer/templates"
	"github.com/ecomstack/storefront-api/pkg/response"
	"github.com/ecomstack/storefront-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Audit  *postgres.AuditStore
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthHandler(svc *application.AuthService, audit *postgres.AuditStore, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Audit: audit, Pub: pub, Logger: logger, Cfg: cfg}
}

// userView is the whitelisted projection returned by auth endpoints. The
// password hash and the security answer never appear in a response.
type userView struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Role    int    `json:"role"`
}

func viewOf(u *entity.User, withID bool) userView {
	v := userView{Name: u.Name, Email: u.Email, Phone: u.Phone, Address: u.Address, Role: u.Role}
	if withID {
		v.ID = u.ID
	}
	return v
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func (h *AuthHandler) audit(c *gin.Context, userID, email, action string, metadata map[string]any) {
	h.Audit.Record(c.Request.Context(), postgres.AuditEntry{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        clientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Metadata:  metadata,
	})
}

func (h *AuthHandler) enqueueEmail(c *gin.Context, job mailer.EmailJob) {
	if h.Pub == nil || h.Cfg == nil || !h.Cfg.MailSendEnabled {
		return
	}
	if err := h.Pub.PublishJSON(c.Request.Context(), job); err != nil {
		helpers.LogError(h.Logger, "enqueue email failed", err, logrus.Fields{"template": job.Template, "to": job.To})
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Answer   string `json:"answer"`
}

// Register POST /api/auth/register
// Field checks run in a fixed order and the first missing field wins. A
// duplicate email answers HTTP 200 with success=false, matching the
// storefront client's expectations.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	for _, f := range []struct{ value, message string }{
		{req.Name, "Name is required"},
		{req.Email, "Email is required"},
		{req.Password, "Password is required"},
		{req.Phone, "Phone number is required"},
		{req.Address, "Address is required"},
		{req.Answer, "Answer is required"},
	} {
		if strings.TrimSpace(f.value) == "" {
			response.Fail(c, http.StatusBadRequest, f.message, nil)
			return
		}
	}

	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Answer:   req.Answer,
	})
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Already registered, please login",
			})
			return
		}
		helpers.LogError(h.Logger, "registration failed", err, logrus.Fields{"email": req.Email})
		response.Fail(c, http.StatusInternalServerError, "Error in registration", nil)
		return
	}

	h.audit(c, u.ID, u.Email, "register", nil)
	h.enqueueEmail(c, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(h.Cfg, u.Name, u.Email),
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registration is successful",
		"user":    viewOf(u, true),
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login POST /api/auth/login
// Missing fields and unknown emails answer 404; a wrong password answers
// HTTP 200 with success=false and no token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Fail(c, http.StatusNotFound, "Invalid email or password", nil)
		return
	}

	u, token, _, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "Email is not registered", nil)
		return
	case errors.Is(err, application.ErrInvalidCredentials):
		h.audit(c, "", req.Email, "login_failed", nil)
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "Invalid password",
		})
		return
	case err != nil:
		helpers.LogError(h.Logger, "login failed", err, logrus.Fields{"email": req.Email})
		response.Fail(c, http.StatusInternalServerError, "Error in login", nil)
		return
	}

	h.audit(c, u.ID, u.Email, "login_success", nil)
	h.enqueueEmail(c, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.LoginNotification,
		Data: tpl.NewLoginNotificationData(h.Cfg, u.Name, u.Email,
			tpl.WithTime(time.Now()),
			tpl.WithIP(clientIP(c)),
			tpl.WithUserAgent(c.GetHeader("User-Agent")),
		),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    viewOf(u, false),
		"token":   token,
	})
}

type forgotPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"newPassword"`
}

// ForgotPassword POST /api/auth/forgot-password
// Unlike registration there is no partial-validation path: each missing
// field returns immediately.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	for _, f := range []struct{ value, message string }{
		{req.Email, "Email is required"},
		{req.Answer, "Answer is required"},
		{req.NewPassword, "New password is required"},
	} {
		if strings.TrimSpace(f.value) == "" {
			response.Fail(c, http.StatusBadRequest, f.message, nil)
			return
		}
	}

	u, err := h.Svc.ResetPassword(c.Request.Context(), req.Email, req.Answer, req.NewPassword)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Fail(c, http.StatusNotFound, "Wrong email or answer", nil)
			return
		}
		helpers.LogError(h.Logger, "password reset failed", err, logrus.Fields{"email": req.Email})
		response.Fail(c, http.StatusInternalServerError, "Something went wrong", nil)
		return
	}

	h.audit(c, u.ID, u.Email, "password_reset", nil)
	h.enqueueEmail(c, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.PasswordChanged,
		Data:     tpl.NewPasswordChangedData(h.Cfg, u.Name, u.Email, tpl.WithTime(time.Now())),
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully",
	})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// UpdateProfile PUT /api/auth/profile
// Operates on the identity established by RequireSignIn; absent fields keep
// their stored values.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	switch {
	case errors.Is(err, application.ErrPasswordTooShort):
		response.Fail(c, http.StatusBadRequest, "Password should be at least 3 characters long", nil)
		return
	case errors.Is(err, application.ErrUserNotFound):
		response.Fail(c, http.StatusNotFound, "User not found", nil)
		return
	case err != nil:
		helpers.LogError(h.Logger, "profile update failed", err, logrus.Fields{"user_id": uid})
		response.Fail(c, http.StatusInternalServerError, "Error while updating profile", nil)
		return
	}

	h.audit(c, u.ID, u.Email, "profile_update", nil)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Profile updated successfully",
		"updatedUser": viewOf(u, true),
	})
}

// UserAuth GET /api/auth/user-auth — reachable only through RequireSignIn.
func (h *AuthHandler) UserAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AdminAuth GET /api/auth/admin-auth — reachable only through RequireAdmin.
func (h *AuthHandler) AdminAuth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
