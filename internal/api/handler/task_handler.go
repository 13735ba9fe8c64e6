package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamflow/teamflow-api/internal/core/domain"
	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// TaskHandler handles task CRUD, board moves and comments.
type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List returns the tasks of one project ordered by (status, position).
//
// @Summary      List tasks of a project
// @Tags         tasks
// @Produce      json
// @Param        projectId  query     string  true  "Project id"
// @Success      200        {object}  dataEnvelope{data=[]taskResponse}
// @Failure      403        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "projectId query parameter is required")
	}

	tasks, err := h.taskService.ListByProject(c.Request().Context(), projectID, userID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toTaskListResponse(tasks))
}

// Mine returns the caller's open tasks across all their projects.
//
// @Summary      List my open tasks
// @Tags         tasks
// @Produce      json
// @Success      200  {object}  dataEnvelope{data=[]taskResponse}
// @Router       /api/tasks/mine [get]
func (h *TaskHandler) Mine(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListMine(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toTaskListResponse(tasks))
}

// Create appends a new task to the end of its status column.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  dataEnvelope{data=taskResponse}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, toTaskResponse(task))
}

// Get returns a single task.
//
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  dataEnvelope{data=taskResponse}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toTaskResponse(task))
}

// Update applies partial changes to a task's content fields. Status and
// position are rejected here; moves go through the move endpoint.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  dataEnvelope{data=taskResponse}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Update(c.Request().Context(), c.Param("id"), userID, req.toInput())
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toTaskResponse(task))
}

// Move changes a task's column and/or position on the board.
//
// @Summary      Move a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Task id"
// @Param        body  body      moveTaskRequest  true  "Target status and position"
// @Success      200   {object}  dataEnvelope{data=taskResponse}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id}/move [patch]
func (h *TaskHandler) Move(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req moveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Move(c.Request().Context(), c.Param("id"), userID, domain.TaskStatus(req.Status), *req.Position)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toTaskResponse(task))
}

// Delete removes a task and closes the position gap it leaves behind.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "task deleted")
}

// Comments returns a task's comment thread in insertion order.
//
// @Summary      List task comments
// @Tags         tasks
// @Produce      json
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  dataEnvelope{data=[]domain.Comment}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id}/comments [get]
func (h *TaskHandler) Comments(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	comments, err := h.taskService.Comments(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return respondData(c, http.StatusOK, comments)
}

// AddComment appends a comment to a task's thread.
//
// @Summary      Comment on a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Task id"
// @Param        body  body      commentRequest  true  "Comment text"
// @Success      201   {object}  dataEnvelope{data=taskResponse}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.AddComment(c.Request().Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, toTaskResponse(task))
}
