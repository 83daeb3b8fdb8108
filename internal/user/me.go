package user

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/storage"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

const profilePictureFolder = "profile_pics"

var validPictureExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".gif": true, ".webp": true, ".heic": true,
}

type updateProfileInput struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	Email     *string `json:"email" binding:"omitempty,email"`
}

// currentUser charge l'utilisateur authentifié ou répond 404
func currentUser(c *gin.Context) (*User, bool) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	u, err := FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur non trouvé"})
			logs.LogJSON("WARN", "User not found", map[string]interface{}{
				"route":  route,
				"userID": userID,
			})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération utilisateur"})
		logs.LogJSON("ERROR", "Error retrieving user", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return nil, false
	}
	return u, true
}

func respondProfile(c *gin.Context, status int, u *User, message string) {
	profile, err := BuildProfile(u, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération des compteurs"})
		logs.LogJSON("ERROR", "Error counting follows", map[string]interface{}{
			"error":  err.Error(),
			"route":  c.FullPath(),
			"userID": u.ID,
		})
		return
	}
	if message == "" {
		c.JSON(status, profile)
		return
	}
	c.JSON(status, gin.H{"message": message, "user": profile})
}

// GetMe GET /api/accounts/profile
func GetMe(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	respondProfile(c, http.StatusOK, u, "")
}

// UpdateMe PUT|PATCH /api/accounts/profile
func UpdateMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var input updateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, utils.BindError(err))
		logs.LogJSON("WARN", "Invalid profile data", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	u, ok := currentUser(c)
	if !ok {
		return
	}

	if input.Email != nil && *input.Email != u.Email {
		if ExistsByEmail(c.Request.Context(), *input.Email) {
			c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"email": "Email déjà utilisé."}))
			return
		}
		u.Email = *input.Email
	}
	if input.FirstName != nil {
		u.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		u.LastName = *input.LastName
	}
	if input.Bio != nil {
		u.Bio = *input.Bio
	}

	if err := Save(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
		logs.LogJSON("ERROR", "User update error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	respondProfile(c, http.StatusOK, u, "Profil mis à jour")
	logs.LogJSON("INFO", "User updated successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}

// UploadProfilePicture PUT /api/accounts/profile/picture
func UploadProfilePicture(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	if storage.Objects == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stockage des médias indisponible"})
		logs.LogJSON("WARN", "Object storage not configured", map[string]interface{}{
			"route":  route,
			"userID": userID,
		})
		return
	}

	file, header, err := c.Request.FormFile("profile_picture")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"profile_picture": "Ce champ est obligatoire."}))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !validPictureExtensions[ext] {
		c.JSON(http.StatusBadRequest, utils.ValidationError(utils.FieldErrors{"profile_picture": "Extension de fichier invalide."}))
		return
	}

	u, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	key := storage.ObjectKey(profilePictureFolder, fmt.Sprintf("user_%s_%s%s", u.ID, uuid.NewString(), ext))
	url, err := storage.Objects.Upload(ctx, key, file, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de l'upload"})
		logs.LogJSON("ERROR", "Profile picture upload error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	previous := u.ProfilePicture
	u.ProfilePicture = url
	if err := Save(ctx, u); err != nil {
		_ = storage.Objects.Delete(ctx, key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour utilisateur"})
		logs.LogJSON("ERROR", "User update error", map[string]interface{}{
			"error":  err.Error(),
			"route":  route,
			"userID": userID,
		})
		return
	}

	// L'ancienne image n'est supprimée qu'une fois la nouvelle enregistrée
	if oldKey, ok := storage.Objects.KeyFromURL(previous); ok {
		if err := storage.Objects.Delete(ctx, oldKey); err != nil {
			logs.LogJSON("WARN", "Old profile picture not deleted", map[string]interface{}{
				"error":  err.Error(),
				"route":  route,
				"userID": userID,
			})
		}
	}

	respondProfile(c, http.StatusOK, u, "Photo de profil mise à jour")
}
