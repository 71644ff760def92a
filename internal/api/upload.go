package api

import (
	"net/http"      // HTTP status codes
	"path/filepath" // Filename extension handling

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Unique filename generation
	"github.com/sirupsen/logrus" // Logging library
)

// maxUploadSize caps uploaded images at 5MB
const maxUploadSize = 5 << 20

// Allowed image MIME types
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler accepts a multipart image (field "image"), stores it
// under the storage directory with a generated filename, and returns the
// public /storage URL (admin only)
func UploadHandler(storagePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image") // Uploaded file from the multipart form
		if err != nil {
			// No file in the form
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
			return
		}
		// Enforce the size cap
		if file.Size > maxUploadSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File size too large. Maximum size is 5MB."})
			return
		}
		// Only image types are accepted
		contentType := file.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only JPEG, PNG, GIF and WebP images are allowed."})
			return
		}
		// Generated name keeps uploads collision-free; original extension preserved
		filename := uuid.NewString() + filepath.Ext(file.Filename)
		dest := filepath.Join(storagePath, filename)
		// Write the file to the storage directory
		if err := c.SaveUploadedFile(file, dest); err != nil {
			logrus.WithFields(logrus.Fields{
				"filename": filename,    // Target filename
				"error":    err.Error(), // Error message
			}).Error("Image upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading image"})
			return
		}
		// Log the upload
		logrus.WithFields(logrus.Fields{
			"filename": filename,  // Stored filename
			"size":     file.Size, // File size in bytes
		}).Info("Image uploaded")
		// Return the public URL
		c.JSON(http.StatusCreated, gin.H{
			"url":      "/storage/" + filename, // Served by the static route
			"filename": filename,               // Stored filename
			"size":     file.Size,              // File size in bytes
		})
	}
}
