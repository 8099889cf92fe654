package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KanbanGo/services"
)

// ImageController 图片控制器
type ImageController struct {
	images *services.ImageService
}

func NewImageController(images *services.ImageService) *ImageController {
	return &ImageController{images: images}
}

// Upload 上传图片，入库时标记为临时状态
func (ic *ImageController) Upload(c *gin.Context) {
	uid := c.GetInt64("uid")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未提供文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")

	image, err := ic.images.UploadTemporary(c.Request.Context(), data, fileHeader.Filename, contentType, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

// ListUser 返回当前用户的图片，temporary=true时只返回临时图片
func (ic *ImageController) ListUser(c *gin.Context) {
	uid := c.GetInt64("uid")

	onlyTemporary, _ := strconv.ParseBool(c.DefaultQuery("temporary", "false"))

	var err error
	var images interface{}
	if onlyTemporary {
		images, err = ic.images.ListTemporary(uid)
	} else {
		images, err = ic.images.ListImages(uid, true)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

// Get 返回图片二进制内容
func (ic *ImageController) Get(c *gin.Context) {
	uid := c.GetInt64("uid")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片ID"})
		return
	}

	data, contentType, err := ic.images.GetImageData(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, contentType, data)
}

// Delete 删除单张图片
func (ic *ImageController) Delete(c *gin.Context) {
	uid := c.GetInt64("uid")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的图片ID"})
		return
	}

	if _, err := ic.images.DeleteImage(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteTemporary 清理当前用户的全部临时图片
func (ic *ImageController) DeleteTemporary(c *gin.Context) {
	uid := c.GetInt64("uid")

	if _, err := ic.images.DeleteTemporaryImages(c.Request.Context(), uid); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
