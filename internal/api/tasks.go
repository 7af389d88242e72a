package api

import (
	"net/http"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *handler) listTasks(c *gin.Context) {
	tasks, err := h.deps.Tasks.ListOrdered(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromTasks(tasks))
}

func (h *handler) getTask(c *gin.Context) {
	t, err := h.deps.Tasks.GetByID(c.Request.Context(), c.Param("projectID"), c.Param("taskID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromTask(t))
}

func (h *handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	where, anchorID, err := placement(req.BeforeID, req.AfterID)
	if err != nil {
		h.fail(c, err)
		return
	}
	task, err := req.toTask(c.Param("projectID"))
	if err != nil {
		h.fail(c, err)
		return
	}

	pl, err := h.deps.Tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Task:     task,
		Where:    where,
		AnchorID: anchorID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.TaskPlaced{Task: contract.FromTask(pl.Task), Renumbered: pl.Renumbered})
}

func (h *handler) updateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.fail(c, err)
		return
	}
	t, err := h.deps.Tasks.Update(c.Request.Context(), c.Param("projectID"), c.Param("taskID"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromTask(t))
}

func (h *handler) moveTask(c *gin.Context) {
	var req moveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	where, anchorID, err := placement(req.BeforeID, req.AfterID)
	if err != nil {
		h.fail(c, err)
		return
	}
	pl, err := h.deps.Tasks.Move(c.Request.Context(), c.Param("projectID"), c.Param("taskID"), service.MoveTaskInput{
		Where:      where,
		AnchorID:   anchorID,
		Level:      req.Level,
		ParentCode: req.ParentCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.TaskPlaced{Task: contract.FromTask(pl.Task), Renumbered: pl.Renumbered})
}

func (h *handler) deleteTask(c *gin.Context) {
	if err := h.deps.Tasks.Delete(c.Request.Context(), c.Param("projectID"), c.Param("taskID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) bulkDeleteTasks(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	wipe, err := h.deps.Tasks.BulkDelete(c.Request.Context(), c.Param("projectID"), req.IDs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.WipeResult{DeletedCount: wipe.Deleted, CustomCount: wipe.Custom})
}

func (h *handler) clearTasks(c *gin.Context) {
	wipe, err := h.deps.Tasks.Clear(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.WipeResult{DeletedCount: wipe.Deleted, CustomCount: wipe.Custom})
}

func (h *handler) renumberTasks(c *gin.Context) {
	changed, err := h.deps.Tasks.Renumber(c.Request.Context(), c.Param("projectID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.RenumberResult{Changed: changed})
}
