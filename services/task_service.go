package services

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"KanbanGo/models"
)

// TaskService 任务服务，所有操作都限定在所属用户范围内
type TaskService struct {
	db     *gorm.DB
	images *ImageService
	logger *zap.SugaredLogger
}

func NewTaskService(db *gorm.DB, images *ImageService, logger *zap.SugaredLogger) *TaskService {
	return &TaskService{db: db, images: images, logger: logger}
}

// ListByUser 返回用户的全部任务，按创建时间倒序
func (s *TaskService) ListByUser(userID int64) ([]models.TaskResponse, error) {
	var tasks []models.Task
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return s.toResponses(tasks)
}

// GetByUserAndID 返回指定任务，不存在或不属于该用户时返回ErrNotFound
func (s *TaskService) GetByUserAndID(userID, id int64) (*models.TaskResponse, error) {
	var task models.Task
	if err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp, err := s.toResponse(&task)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateForUser 创建任务，初始状态为TODO。
// 描述非空时提取其中引用的图片ID并转为永久，响应在转换后组装，
// 保证本次调用即可读到刚引用的图片。
func (s *TaskService) CreateForUser(userID int64, req models.TaskCreateRequest) (*models.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	task := models.Task{
		Title:  req.Title,
		Status: models.StatusTodo,
		UserID: userID,
	}
	if req.Description != nil {
		task.Description = *req.Description
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	if err := s.reconcileImages(userID, task.Description); err != nil {
		return nil, err
	}

	s.logger.Infow("任务创建成功", "taskID", task.ID, "userID", userID)

	resp, err := s.toResponse(&task)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateForUser 更新任务，只覆盖请求中出现的字段，并刷新更新时间。
// 描述字段被更新时重新提取并转换其中引用的图片。
func (s *TaskService) UpdateForUser(userID, id int64, req models.TaskUpdateRequest) (*models.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, newValidationError("%s", err.Error())
	}

	var task models.Task
	if err := s.db.Where("user_id = ? AND id = ?", userID, id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = models.TaskStatus(*req.Status)
	}

	if err := s.db.Save(&task).Error; err != nil {
		return nil, err
	}

	if req.Description != nil {
		if err := s.reconcileImages(userID, task.Description); err != nil {
			return nil, err
		}
	}

	resp, err := s.toResponse(&task)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteForUser 删除任务。描述中引用的图片不随任务级联删除
func (s *TaskService) DeleteForUser(userID, id int64) error {
	result := s.db.Where("user_id = ? AND id = ?", userID, id).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Infow("任务删除成功", "taskID", id, "userID", userID)
	return nil
}

// ListByUserAndStatus 按状态筛选用户的任务
func (s *TaskService) ListByUserAndStatus(userID int64, status models.TaskStatus) ([]models.TaskResponse, error) {
	var tasks []models.Task
	if err := s.db.Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return s.toResponses(tasks)
}

// reconcileImages 提取描述中的图片引用并标记为永久
func (s *TaskService) reconcileImages(userID int64, description string) error {
	if strings.TrimSpace(description) == "" {
		return nil
	}

	imageIDs := ExtractImageIDs(description)
	if len(imageIDs) == 0 {
		return nil
	}

	promoted, err := s.images.MarkImagesAsUsed(imageIDs, userID, description)
	if err != nil {
		return err
	}

	s.logger.Debugw("描述图片引用处理完成",
		"userID", userID,
		"referenced", len(imageIDs),
		"promoted", promoted,
	)
	return nil
}

// toResponse 组装任务响应。重新扫描描述中的图片引用，
// 只附带属于该用户的永久图片，顺序与描述中首次出现的顺序一致
func (s *TaskService) toResponse(task *models.Task) (models.TaskResponse, error) {
	resp := models.TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Images:      []models.ImageResponse{},
	}

	imageIDs := ExtractImageIDs(task.Description)
	if len(imageIDs) == 0 {
		return resp, nil
	}

	permanent, err := s.images.ListImages(task.UserID, false)
	if err != nil {
		return resp, err
	}

	byID := make(map[int64]models.ImageResponse, len(permanent))
	for _, img := range permanent {
		byID[img.ID] = img
	}

	// 重复引用按首次出现去重，已删除或仍为临时的图片直接跳过
	seen := make(map[int64]bool, len(imageIDs))
	for _, id := range imageIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if img, ok := byID[id]; ok {
			resp.Images = append(resp.Images, img)
		}
	}

	return resp, nil
}

func (s *TaskService) toResponses(tasks []models.Task) ([]models.TaskResponse, error) {
	responses := make([]models.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp, err := s.toResponse(&tasks[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
