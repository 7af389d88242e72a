package api

import (
	"net/http"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/gin-gonic/gin"
)

func (h *handler) listDailyWorks(c *gin.Context) {
	day, err := time.Parse(dayLayout, c.Query("date"))
	if err != nil {
		h.fail(c, badRequestf("query parameter date must be %s", dayLayout))
		return
	}
	works, err := h.deps.Daily.ListByDate(c.Request.Context(), c.Param("projectID"), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromDailyWorks(works))
}

func (h *handler) recordDailyWork(c *gin.Context) {
	var req recordDailyWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	day, err := time.Parse(dayLayout, req.Date)
	if err != nil {
		h.fail(c, badRequestf("date must be %s", dayLayout))
		return
	}
	taskID := req.TaskID
	w := &domain.DailyWork{
		ProjectID:   c.Param("projectID"),
		TaskID:      &taskID,
		Date:        day,
		Volume:      req.Volume,
		Description: req.Description,
	}
	if err := h.deps.Daily.Record(c.Request.Context(), w); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract.FromDailyWork(w))
}

func (h *handler) deleteDailyWork(c *gin.Context) {
	if err := h.deps.Daily.Delete(c.Request.Context(), c.Param("projectID"), c.Param("workID")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) monthlyView(c *gin.Context) {
	month, err := time.Parse("2006-01", c.Query("month"))
	if err != nil {
		h.fail(c, badRequestf("query parameter month must be YYYY-MM"))
		return
	}
	lines, err := h.deps.Monthly.View(c.Request.Context(), c.Param("projectID"), month)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromMonthlyLines(lines))
}

func (h *handler) saveMonthlyPlan(c *gin.Context) {
	var req saveMonthlyPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err)
		return
	}
	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		h.fail(c, badRequestf("month must be YYYY-MM"))
		return
	}
	taskID := req.TaskID
	p := &domain.MonthlyPlan{
		ProjectID:  c.Param("projectID"),
		TaskID:     &taskID,
		Month:      month,
		VolumePlan: req.VolumePlan,
	}
	if err := h.deps.Monthly.Save(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, contract.FromMonthlyPlan(p))
}
