package api

import (
	"net/http"
	"strconv"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/gin-gonic/gin"
)

const projectKey = "sitebook_project"

func (h *handler) listProjects(c *gin.Context) {
	includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))
	projects, err := h.deps.Projects.List(c.Request.Context(), includeArchived && isAdmin(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromProjects(projects))
}

func (h *handler) createProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	p := &domain.Project{Name: req.Name, Description: req.Description, Address: req.Address}
	if err := h.deps.Projects.Create(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.FromProject(p))
}

func (h *handler) getProject(c *gin.Context) {
	p := c.MustGet(projectKey).(*domain.Project)
	c.JSON(http.StatusOK, contract.FromProject(p))
}

func (h *handler) updateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	p, err := h.deps.Projects.Update(c.Request.Context(), c.Param("projectID"), service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Archived:    req.Archived,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromProject(p))
}

func (h *handler) deleteProject(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))
	if err := h.deps.Projects.Delete(c.Request.Context(), c.Param("projectID"), force); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
