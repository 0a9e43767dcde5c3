package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/qrmenu/services"
	"github.com/yeremiapane/qrmenu/utils"
)

// multipart overhead allowed on top of the image limit
const uploadSlack = 64 << 10

type FileController struct {
	Service  *services.ImageService
	MaxBytes int64
}

func NewFileController(svc *services.ImageService, maxBytes int64) *FileController {
	return &FileController{Service: svc, MaxBytes: maxBytes}
}

// UploadImage -> multipart field "file"
func (fc *FileController) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.MaxBytes+uploadSlack)

	header, err := c.FormFile("file")
	if err != nil {
		utils.RespondAppError(c, utils.Validation("No file was uploaded"))
		return
	}
	if header.Size > fc.MaxBytes {
		utils.RespondAppError(c, utils.Validation(fmt.Sprintf("Image must not exceed %d bytes", fc.MaxBytes)))
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondAppError(c, utils.Internal("open upload", err))
		return
	}
	defer file.Close()

	uploaded, err := fc.Service.Upload(c.Request.Context(), file)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Image uploaded successfully", uploaded)
}

func (fc *FileController) DeleteImage(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	name := c.Param("name")
	if err := fc.Service.Delete(c.Request.Context(), identity, name); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Image deleted", gin.H{"file_name": name})
}
