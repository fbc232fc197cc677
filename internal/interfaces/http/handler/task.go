package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	taskapp "github.com/residency/backend/internal/application/task"
	"github.com/residency/backend/internal/interfaces/http/middleware"
)

// TaskHandler handles household task endpoints
type TaskHandler struct {
	BaseHandler
	taskService *taskapp.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *taskapp.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req taskapp.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, task)
}

// AssignTask assigns a task to a user
func (h *TaskHandler) AssignTask(c *gin.Context) {
	assignerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var req taskapp.AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), taskID, assignerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// CompleteTask marks a task as completed
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.CompleteTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// GetTask returns a single task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, task)
}

// RegisterRoutes registers all task routes
func (h *TaskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.POST("/:id/assign", h.AssignTask)
		tasks.POST("/:id/complete", h.CompleteTask)
	}
}
