package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type registerInput struct {
	Username        string `json:"username" binding:"required,max=150"`
	Email           string `json:"email" binding:"required,email,max=254"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" binding:"max=150"`
	Bio             string `json:"bio" binding:"max=500"`
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// credentials construit la réponse commune à l'inscription et à la connexion
func credentials(c *gin.Context, u *user.User) (gin.H, error) {
	ctx := c.Request.Context()
	key, err := GetOrCreateToken(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	access, err := IssueAccessToken(u.ID)
	if err != nil {
		return nil, err
	}
	profile, err := user.BuildProfile(u, true)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"token":        key,
		"access_token": access,
		"user":         profile,
	}, nil
}

// Signup POST /api/accounts/register
func Signup(c *gin.Context) {
	route := c.FullPath()
	ctx := c.Request.Context()

	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.BindError(err))
		logs.LogJSON("WARN", "Invalid registration data", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	input.Username = strings.TrimSpace(input.Username)

	fields := utils.FieldErrors{}
	if input.Password != input.PasswordConfirm {
		fields["password_confirm"] = "Les mots de passe ne correspondent pas."
	}
	if user.ExistsByUsername(ctx, input.Username) {
		fields["username"] = "Nom d'utilisateur déjà utilisé."
	}
	if user.ExistsByEmail(ctx, input.Email) {
		fields["email"] = "Email déjà utilisé."
	}
	if len(fields) > 0 {
		c.JSON(http.StatusBadRequest, utils.ValidationError(fields))
		logs.LogJSON("WARN", "Registration rejected", map[string]interface{}{
			"route":    route,
			"username": input.Username,
			"fields":   fields,
		})
		return
	}

	newUser := user.User{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
	}
	if err := newUser.SetPassword(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'inscription"})
		logs.LogJSON("ERROR", "Password hashing error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	if err := user.Create(ctx, &newUser); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"username": "Nom d'utilisateur déjà utilisé."}))
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur insertion base utilisateurs"})
		logs.LogJSON("ERROR", "User insert error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}

	body, err := credentials(c, &newUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du token"})
		logs.LogJSON("ERROR", "Token creation error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": newUser.ID,
		})
		return
	}
	body["message"] = "Utilisateur inscrit"

	c.JSON(http.StatusCreated, body)
	logs.LogJSON("INFO", "User registered", map[string]interface{}{
		"route":  route,
		"userID": newUser.ID,
	})
}

// Login POST /api/accounts/login
func Login(c *gin.Context) {
	route := c.FullPath()

	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.BindError(err))
		return
	}

	u, err := user.FindByUsername(c.Request.Context(), input.Username)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur de connexion"})
		logs.LogJSON("ERROR", "Login lookup error", map[string]interface{}{
			"error": err.Error(),
			"route": route,
		})
		return
	}
	if u == nil || !u.CheckPassword(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiants invalides"})
		logs.LogJSON("WARN", "Invalid credentials", map[string]interface{}{
			"route":    route,
			"username": input.Username,
		})
		return
	}

	body, err := credentials(c, u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du token"})
		logs.LogJSON("ERROR", "Token creation error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": u.ID,
		})
		return
	}
	body["message"] = "Connexion réussie"

	c.JSON(http.StatusOK, body)
	logs.LogJSON("INFO", "User logged in", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
}

// GetToken GET /api/accounts/token
func GetToken(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	key, err := GetOrCreateToken(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération du token"})
		logs.LogJSON("ERROR", "Token retrieval error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": key})
}
