package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"KanbanGo/models"
)

// 允许上传的图片类型
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// 单个图片大小上限 10MB
const maxImageSize = 10 * 1024 * 1024

// DeleteResult 单张图片删除结果，对象删除与记录删除分别记录
type DeleteResult struct {
	// BlobRemoved 对象是否删除成功，失败只记日志不上报
	BlobRemoved bool
}

// CleanupResult 临时图片批量清理结果
type CleanupResult struct {
	Removed      int64 // 删除的记录数
	BlobFailures int   // 对象删除失败数
}

// ImageService 图片生命周期服务，负责图片状态的全部变更
type ImageService struct {
	db      *gorm.DB
	store   ObjectStore
	bucket  string
	baseURL string
	logger  *zap.SugaredLogger
}

func NewImageService(db *gorm.DB, store ObjectStore, bucket, baseURL string, logger *zap.SugaredLogger) *ImageService {
	return &ImageService{
		db:      db,
		store:   store,
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger,
	}
}

// UploadTemporary 校验并上传图片，先写对象存储再落库，初始为临时状态
func (s *ImageService) UploadTemporary(ctx context.Context, data []byte, originalFilename, contentType string, userID int64) (*models.ImageResponse, error) {
	if len(data) == 0 {
		return nil, newValidationError("文件不能为空")
	}
	if int64(len(data)) > maxImageSize {
		return nil, newValidationError("文件大小超过上限(10MB)")
	}
	if !allowedImageTypes[contentType] {
		return nil, newValidationError("不支持的文件类型，仅允许 JPEG/PNG/GIF/WebP")
	}

	if originalFilename == "" {
		originalFilename = "image"
	}

	key := GenerateObjectKey(originalFilename)

	// 对象写入失败必须中止，不允许产生无对象的记录
	if err := s.store.Put(ctx, key, contentType, data); err != nil {
		s.logger.Errorw("图片对象上传失败", "error", err, "userID", userID, "key", key)
		return nil, err
	}

	image := models.TaskImage{
		UserID:           userID,
		Filename:         key,
		OriginalFilename: originalFilename,
		ContentType:      contentType,
		FileSize:         int64(len(data)),
		Bucket:           s.bucket,
		ObjectKey:        key,
		UploadOrder:      0,
		IsTemporary:      true,
	}

	if err := s.db.Create(&image).Error; err != nil {
		return nil, err
	}

	s.logger.Infow("图片上传成功",
		"imageID", image.ID,
		"userID", userID,
		"size", image.FileSize,
		"contentType", contentType,
	)

	resp := s.toResponse(&image)
	return &resp, nil
}

// ListImages 返回用户的图片，includeTemporary为false时只返回永久图片
func (s *ImageService) ListImages(userID int64, includeTemporary bool) ([]models.ImageResponse, error) {
	query := s.db.Where("user_id = ?", userID)
	if !includeTemporary {
		query = query.Where("is_temporary = ?", false)
	}

	var images []models.TaskImage
	if err := query.Order("id").Find(&images).Error; err != nil {
		return nil, err
	}

	responses := make([]models.ImageResponse, len(images))
	for i := range images {
		responses[i] = s.toResponse(&images[i])
	}
	return responses, nil
}

// ListTemporary 返回用户的全部临时图片
func (s *ImageService) ListTemporary(userID int64) ([]models.ImageResponse, error) {
	var images []models.TaskImage
	if err := s.db.Where("user_id = ? AND is_temporary = ?", userID, true).
		Order("id").Find(&images).Error; err != nil {
		return nil, err
	}

	responses := make([]models.ImageResponse, len(images))
	for i := range images {
		responses[i] = s.toResponse(&images[i])
	}
	return responses, nil
}

// MarkImagesAsUsed 将指定图片标记为永久并记录其所在的描述文本。
// 只作用于属于userID的图片，其余ID静默忽略，返回实际生效的条数。
func (s *ImageService) MarkImagesAsUsed(imageIDs []int64, userID int64, descriptionContent string) (int64, error) {
	if len(imageIDs) == 0 {
		return 0, nil
	}

	result := s.db.Model(&models.TaskImage{}).
		Where("id IN ? AND user_id = ?", imageIDs, userID).
		Updates(map[string]interface{}{
			"is_temporary":        false,
			"description_content": descriptionContent,
		})
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected < int64(len(imageIDs)) {
		s.logger.Debugw("部分图片ID未生效",
			"userID", userID,
			"requested", len(imageIDs),
			"promoted", result.RowsAffected,
		)
	}

	return result.RowsAffected, nil
}

// DeleteImage 删除单张图片。对象删除尽力而为，记录删除无条件执行
func (s *ImageService) DeleteImage(ctx context.Context, imageID, userID int64) (*DeleteResult, error) {
	var image models.TaskImage
	if err := s.db.Where("id = ? AND user_id = ?", imageID, userID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := &DeleteResult{BlobRemoved: true}
	if err := s.store.Delete(ctx, image.ObjectKey); err != nil {
		s.logger.Warnw("图片对象删除失败，继续删除记录",
			"error", err,
			"imageID", imageID,
			"key", image.ObjectKey,
		)
		result.BlobRemoved = false
	}

	if err := s.db.Delete(&models.TaskImage{}, image.ID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteTemporaryImages 批量清理用户的全部临时图片，用于回收废弃的草稿
func (s *ImageService) DeleteTemporaryImages(ctx context.Context, userID int64) (*CleanupResult, error) {
	var images []models.TaskImage
	if err := s.db.Where("user_id = ? AND is_temporary = ?", userID, true).Find(&images).Error; err != nil {
		return nil, err
	}

	cleanup := &CleanupResult{}
	for i := range images {
		if err := s.store.Delete(ctx, images[i].ObjectKey); err != nil {
			s.logger.Warnw("临时图片对象删除失败",
				"error", err,
				"imageID", images[i].ID,
				"key", images[i].ObjectKey,
			)
			cleanup.BlobFailures++
		}
	}

	result := s.db.Where("user_id = ? AND is_temporary = ?", userID, true).Delete(&models.TaskImage{})
	if result.Error != nil {
		return nil, result.Error
	}
	cleanup.Removed = result.RowsAffected

	s.logger.Infow("临时图片清理完成",
		"userID", userID,
		"removed", cleanup.Removed,
		"blobFailures", cleanup.BlobFailures,
	)

	return cleanup, nil
}

// GetImageData 读取图片二进制内容及其类型
func (s *ImageService) GetImageData(ctx context.Context, imageID, userID int64) ([]byte, string, error) {
	var image models.TaskImage
	if err := s.db.Where("id = ? AND user_id = ?", imageID, userID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	data, err := s.store.Get(ctx, image.ObjectKey)
	if err != nil {
		return nil, "", err
	}

	return data, image.ContentType, nil
}

func (s *ImageService) toResponse(image *models.TaskImage) models.ImageResponse {
	return models.ImageResponse{
		ID:               image.ID,
		Filename:         image.Filename,
		OriginalFilename: image.OriginalFilename,
		ContentType:      image.ContentType,
		FileSize:         image.FileSize,
		UploadOrder:      image.UploadOrder,
		IsTemporary:      image.IsTemporary,
		ImageURL:         fmt.Sprintf("%s/api/images/%d", s.baseURL, image.ID),
		CreatedAt:        image.CreatedAt,
	}
}
