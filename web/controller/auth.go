package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qatrack/logger"
	"qatrack/web/service"
)

// credentialsForm is the register/login request body.
type credentialsForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AuthController handles registration and login.
type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(g *gin.RouterGroup, authService *service.AuthService) *AuthController {
	a := &AuthController{authService: authService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/register", a.register)
	g.POST("/login", a.login)
}

func (a *AuthController) register(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Username == "" || form.Password == "" {
		jsonError(c, http.StatusBadRequest, "usuario y contraseña son obligatorios")
		return
	}

	user, err := a.authService.Register(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			jsonError(c, http.StatusConflict, err.Error())
			return
		}
		logger.Error("register failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.Id, "username": user.Username})
}

func (a *AuthController) login(c *gin.Context) {
	var form credentialsForm
	if err := c.ShouldBindJSON(&form); err != nil || form.Username == "" || form.Password == "" {
		jsonError(c, http.StatusBadRequest, "usuario y contraseña son obligatorios")
		return
	}

	token, user, err := a.authService.Login(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			logger.Warningf("failed login for %q from %s", form.Username, getRemoteIp(c))
			jsonError(c, http.StatusUnauthorized, err.Error())
			return
		}
		logger.Error("login failed:", err)
		jsonError(c, http.StatusInternalServerError, "Error interno del servidor")
		return
	}

	logger.Infof("%s logged in from %s", user.Username, getRemoteIp(c))
	c.JSON(http.StatusOK, gin.H{"token": token})
}
