package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"KanbanGo/models"
	"KanbanGo/services"
)

// TaskController 任务控制器
type TaskController struct {
	tasks *services.TaskService
}

func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// List 返回当前用户的全部任务
func (tc *TaskController) List(c *gin.Context) {
	uid := c.GetInt64("uid")

	tasks, err := tc.tasks.ListByUser(uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// Get 返回指定任务
func (tc *TaskController) Get(c *gin.Context) {
	uid := c.GetInt64("uid")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的任务ID"})
		return
	}

	task, err := tc.tasks.GetByUserAndID(uid, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Create 创建任务
func (tc *TaskController) Create(c *gin.Context) {
	uid := c.GetInt64("uid")

	var req models.TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.CreateForUser(uid, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// Update 更新任务
func (tc *TaskController) Update(c *gin.Context) {
	uid := c.GetInt64("uid")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的任务ID"})
		return
	}

	var req models.TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.tasks.UpdateForUser(uid, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete 删除任务
func (tc *TaskController) Delete(c *gin.Context) {
	uid := c.GetInt64("uid")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的任务ID"})
		return
	}

	if err := tc.tasks.DeleteForUser(uid, id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListByStatus 按状态筛选任务
func (tc *TaskController) ListByStatus(c *gin.Context) {
	uid := c.GetInt64("uid")

	status := models.TaskStatus(c.Param("status"))
	if !status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的任务状态"})
		return
	}

	tasks, err := tc.tasks.ListByUserAndStatus(uid, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}
