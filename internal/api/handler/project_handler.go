package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamflow/teamflow-api/internal/core/ports"
)

// ProjectHandler handles project CRUD and membership changes.
type ProjectHandler struct {
	projectService ports.ProjectService
}

func NewProjectHandler(projectService ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// Create opens a new project owned by the caller.
//
// @Summary      Create a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      createProjectRequest  true  "Project details"
// @Success      201   {object}  dataEnvelope{data=domain.Project}
// @Failure      400   {object}  map[string]string
// @Router       /api/projects [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), userID, ports.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusCreated, project)
}

// List returns the projects the caller belongs to.
//
// @Summary      List my projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  dataEnvelope{data=[]domain.Project}
// @Router       /api/projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	projects, err := h.projectService.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, projects)
}

// Get returns one project together with its full board.
//
// @Summary      Get a project with its tasks
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  dataEnvelope{data=projectDetailResponse}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	detail, err := h.projectService.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, toProjectDetailResponse(detail))
}

// Update changes a project's name and/or description. Admins only.
//
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Project id"
// @Param        body  body      updateProjectRequest  true  "Fields to change"
// @Success      200   {object}  dataEnvelope{data=domain.Project}
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/projects/{id} [patch]
func (h *ProjectHandler) Update(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req updateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Update(c.Request().Context(), c.Param("id"), userID, ports.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, project)
}

// Delete removes a project and all of its tasks. Owner only.
//
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  dataEnvelope
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "project deleted")
}

// Invite adds a user to the project by email. Admins only.
//
// @Summary      Invite a user to a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Project id"
// @Param        body  body      inviteRequest  true  "Invitee email"
// @Success      200   {object}  dataEnvelope{data=domain.Project}
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/projects/{id}/invite [post]
func (h *ProjectHandler) Invite(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req inviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.Invite(c.Request().Context(), c.Param("id"), userID, req.Email)
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, project)
}

// Leave removes the caller from the project's member set.
//
// @Summary      Leave a project
// @Tags         projects
// @Produce      json
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  dataEnvelope
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/projects/{id}/leave [post]
func (h *ProjectHandler) Leave(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	if err := h.projectService.Leave(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return respondMessage(c, http.StatusOK, "left project")
}
