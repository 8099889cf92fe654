package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"KanbanGo/models"
)

func newTestTaskService(t *testing.T) (*TaskService, *ImageService) {
	t.Helper()
	db := newTestDB(t)
	images := newTestImageService(t, db, newFakeObjectStore())
	return NewTaskService(db, images, newTestLogger()), images
}

func strPtr(s string) *string { return &s }

func TestCreateTask(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "Buy milk"})
	require.NoError(t, err)

	assert.NotZero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusTodo, task.Status)
	assert.Empty(t, task.Images)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCreateTaskValidation(t *testing.T) {
	svc, _ := newTestTaskService(t)

	_, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "   "})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateTaskPromotesReferencedImages(t *testing.T) {
	svc, images := newTestTaskService(t)
	ctx := context.Background()

	image, err := images.UploadTemporary(ctx, []byte("data"), "p.png", "image/png", 1)
	require.NoError(t, err)

	description := fmt.Sprintf("进度截图 ![p](http://localhost:8080/api/images/%d)", image.ID)
	task, err := svc.CreateForUser(1, models.TaskCreateRequest{
		Title:       "附图任务",
		Description: strPtr(description),
	})
	require.NoError(t, err)

	// 同一次调用返回的任务即包含刚转换的图片
	require.Len(t, task.Images, 1)
	assert.Equal(t, image.ID, task.Images[0].ID)
	assert.False(t, task.Images[0].IsTemporary)

	// 后续读取同样可见
	fetched, err := svc.GetByUserAndID(1, task.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Images, 1)
	assert.Equal(t, image.ID, fetched.Images[0].ID)

	// 图片已不在临时集合中
	temps, err := images.ListTemporary(1)
	require.NoError(t, err)
	assert.Empty(t, temps)
}

func TestCreateTaskSkipsUnknownAndForeignImages(t *testing.T) {
	svc, images := newTestTaskService(t)
	ctx := context.Background()

	foreign, err := images.UploadTemporary(ctx, []byte("data"), "f.png", "image/png", 2)
	require.NoError(t, err)

	description := fmt.Sprintf("![a](http://h/api/images/%d) ![b](http://h/api/images/9999)", foreign.ID)
	task, err := svc.CreateForUser(1, models.TaskCreateRequest{
		Title:       "引用他人图片",
		Description: strPtr(description),
	})
	require.NoError(t, err)

	// 不属于自己的和不存在的引用都被静默忽略
	assert.Empty(t, task.Images)

	// 他人的图片保持临时状态
	temps, err := images.ListTemporary(2)
	require.NoError(t, err)
	require.Len(t, temps, 1)
	assert.True(t, temps[0].IsTemporary)
}

func TestTaskImagesOrderedByReference(t *testing.T) {
	svc, images := newTestTaskService(t)
	ctx := context.Background()

	first, err := images.UploadTemporary(ctx, []byte("1"), "1.png", "image/png", 1)
	require.NoError(t, err)
	second, err := images.UploadTemporary(ctx, []byte("2"), "2.png", "image/png", 1)
	require.NoError(t, err)

	// 描述中引用顺序与上传顺序相反，且第二张重复引用
	description := fmt.Sprintf(
		"![b](http://h/api/images/%d) ![a](http://h/api/images/%d) ![b2](http://h/api/images/%d)",
		second.ID, first.ID, second.ID,
	)
	task, err := svc.CreateForUser(1, models.TaskCreateRequest{
		Title:       "顺序",
		Description: strPtr(description),
	})
	require.NoError(t, err)

	// 按首次出现顺序排列并去重
	require.Len(t, task.Images, 2)
	assert.Equal(t, second.ID, task.Images[0].ID)
	assert.Equal(t, first.ID, task.Images[1].ID)
}

func TestListByUserNewestFirst(t *testing.T) {
	svc, _ := newTestTaskService(t)

	older, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "older"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	newer, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "newer"})
	require.NoError(t, err)

	_, err = svc.CreateForUser(2, models.TaskCreateRequest{Title: "other user"})
	require.NoError(t, err)

	tasks, err := svc.ListByUser(1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.Equal(t, older.ID, tasks[1].ID)
}

func TestGetByUserAndIDOwnership(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "mine"})
	require.NoError(t, err)

	// 他人访问表现为未找到
	_, err = svc.GetByUserAndID(2, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetByUserAndID(1, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{
		Title:       "Buy milk",
		Description: strPtr("原始描述"),
	})
	require.NoError(t, err)

	// 只更新状态，标题和描述保持不变
	updated, err := svc.UpdateForUser(1, task.ID, models.TaskUpdateRequest{
		Status: strPtr(string(models.StatusDone)),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, updated.Status)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "原始描述", updated.Description)
	assert.False(t, updated.UpdatedAt.Before(task.UpdatedAt))
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	_, err = svc.UpdateForUser(1, task.ID, models.TaskUpdateRequest{
		Status: strPtr("SHIPPED"),
	})
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateTaskRescansDescription(t *testing.T) {
	svc, images := newTestTaskService(t)
	ctx := context.Background()

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	image, err := images.UploadTemporary(ctx, []byte("data"), "p.png", "image/png", 1)
	require.NoError(t, err)

	description := fmt.Sprintf("![p](http://h/api/images/%d)", image.ID)
	updated, err := svc.UpdateForUser(1, task.ID, models.TaskUpdateRequest{
		Description: strPtr(description),
	})
	require.NoError(t, err)

	require.Len(t, updated.Images, 1)
	assert.Equal(t, image.ID, updated.Images[0].ID)
	assert.False(t, updated.Images[0].IsTemporary)
}

func TestUpdateTaskNotOwned(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	_, err = svc.UpdateForUser(2, task.ID, models.TaskUpdateRequest{Title: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	svc, images := newTestTaskService(t)
	ctx := context.Background()

	image, err := images.UploadTemporary(ctx, []byte("data"), "p.png", "image/png", 1)
	require.NoError(t, err)

	description := fmt.Sprintf("![p](http://h/api/images/%d)", image.ID)
	task, err := svc.CreateForUser(1, models.TaskCreateRequest{
		Title:       "t",
		Description: strPtr(description),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteForUser(1, task.ID))

	_, err = svc.GetByUserAndID(1, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// 任务删除不级联删除图片
	permanent, err := images.ListImages(1, false)
	require.NoError(t, err)
	assert.Len(t, permanent, 1)

	// 重复删除返回未找到
	assert.ErrorIs(t, svc.DeleteForUser(1, task.ID), ErrNotFound)
}

func TestDeleteTaskNotOwned(t *testing.T) {
	svc, _ := newTestTaskService(t)

	task, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "t"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteForUser(2, task.ID), ErrNotFound)
}

func TestListByUserAndStatus(t *testing.T) {
	svc, _ := newTestTaskService(t)

	todo, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "todo"})
	require.NoError(t, err)
	doing, err := svc.CreateForUser(1, models.TaskCreateRequest{Title: "doing"})
	require.NoError(t, err)

	_, err = svc.UpdateForUser(1, doing.ID, models.TaskUpdateRequest{
		Status: strPtr(string(models.StatusInProgress)),
	})
	require.NoError(t, err)

	todos, err := svc.ListByUserAndStatus(1, models.StatusTodo)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, todo.ID, todos[0].ID)

	inProgress, err := svc.ListByUserAndStatus(1, models.StatusInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, doing.ID, inProgress[0].ID)

	done, err := svc.ListByUserAndStatus(1, models.StatusDone)
	require.NoError(t, err)
	assert.Empty(t, done)
}
