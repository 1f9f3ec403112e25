package server

import (
	"io"

	"socialite/internal/middleware"
	"socialite/internal/models"
	"socialite/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadProfileImage handles POST /api/users/upload-profile-image/:userId
func (s *Server) UploadProfileImage(c *fiber.Ctx) error {
	return s.uploadImage(c, "profile image", func(user *models.User, url string) (service.ProfilePatch, string) {
		return service.ProfilePatch{
			ProfileImageURL: &url,
			IsPrivate:       user.IsPrivate,
		}, user.ProfileImageURL
	}, "imageUrl")
}

// UploadAvatar handles POST /api/users/upload-avatar/:userId
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	return s.uploadImage(c, "avatar", func(user *models.User, url string) (service.ProfilePatch, string) {
		return service.ProfilePatch{
			AvatarURL: &url,
			IsPrivate: user.IsPrivate,
		}, user.AvatarURL
	}, "avatarUrl")
}

// uploadImage reads the multipart "file" field, stores it, and points the
// user's image field at the new URL. The previous image file is removed on
// success. patch builds the profile update for the new URL and reports the
// old URL so the stale files can be cleaned up.
func (s *Server) uploadImage(c *fiber.Ctx, kind string, patch func(*models.User, string) (service.ProfilePatch, string), urlField string) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		middleware.ImageUploads.WithLabelValues("rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.ImageUploads.WithLabelValues("error").Inc()
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		middleware.ImageUploads.WithLabelValues("error").Inc()
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}

	user, err := s.accounts.GetProfile(c.Context(), userID)
	if err != nil {
		middleware.ImageUploads.WithLabelValues("rejected").Inc()
		return models.RespondWithAppError(c, err)
	}

	url, err := s.images.Upload(c.Context(), service.UploadImageInput{
		UserID:      userID,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		middleware.ImageUploads.WithLabelValues("rejected").Inc()
		return models.RespondWithAppError(c, err)
	}

	// IsPrivate rides along unchanged because the profile update always
	// applies it.
	update, oldURL := patch(user, url)
	if _, err := s.accounts.UpdateProfile(c.Context(), userID, update); err != nil {
		s.images.Delete(url)
		middleware.ImageUploads.WithLabelValues("error").Inc()
		return models.RespondWithAppError(c, err)
	}

	if oldURL != "" && oldURL != url {
		s.images.Delete(oldURL)
	}

	middleware.ImageUploads.WithLabelValues("ok").Inc()
	return c.JSON(fiber.Map{
		"message": "Uploaded " + kind + " successfully",
		urlField:  url,
	})
}
