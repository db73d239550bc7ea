package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eatrite-api/internal/domain"
	"eatrite-api/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticacion.
type AuthHandler struct {
	logger *zap.Logger
	creds  *service.CredentialService
	jwt    *service.JWTService
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, creds *service.CredentialService, jwtSvc *service.JWTService) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		creds:  creds,
		jwt:    jwtSvc,
	}
}

type loginResponse struct {
	service.IssuedToken
	User domain.User `json:"user"`
}

var errFormFieldsMissing = errors.New("username and password form fields are required")

var (
	registerMessages = map[error]string{domain.ErrConflict: "email already registered"}
	loginMessages    = map[error]string{domain.ErrUnauthorized: "incorrect email or password"}
)

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, h.logger, err, "register")
		return
	}

	user, err := h.creds.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		respondError(c, h.logger, err, registerMessages)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "user": user})
}

// Login maneja POST /auth/login. Acepta el formulario OAuth2 (username,
// password) o un cuerpo JSON (email, password).
func (h *AuthHandler) Login(c *gin.Context) {
	var email, password string
	switch c.ContentType() {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		email = c.PostForm("username")
		password = c.PostForm("password")
		if email == "" || password == "" {
			respondInvalidRequest(c, h.logger, errFormFieldsMissing, "login")
			return
		}
	default:
		var req struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalidRequest(c, h.logger, err, "login")
			return
		}
		email = req.Email
		if email == "" {
			email = req.Username
		}
		password = req.Password
	}
	h.login(c, email, password)
}

// LoginJSON maneja POST /auth/login-json.
func (h *AuthHandler) LoginJSON(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(c, h.logger, err, "login-json")
		return
	}
	h.login(c, req.Email, req.Password)
}

func (h *AuthHandler) login(c *gin.Context, email, password string) {
	user, err := h.creds.Verify(c.Request.Context(), email, password)
	if err != nil {
		respondError(c, h.logger, err, loginMessages)
		return
	}

	token, err := h.jwt.Issue(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody(kindInternal, "could not issue token"))
		return
	}
	c.JSON(http.StatusOK, loginResponse{IssuedToken: token, User: user})
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := IdentityFrom(c).User()
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(kindUnauthorized, "not authenticated"))
		return
	}
	c.JSON(http.StatusOK, user)
}
