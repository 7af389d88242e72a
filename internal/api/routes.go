package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupRoutes(router *gin.Engine, h *handler) {
	router.GET("/health", h.health)
	if h.deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.deps.Metrics.Handler()))
	}
	if h.deps.Live != nil {
		router.GET("/ws", gin.WrapF(h.deps.Live))
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/projects", h.listProjects)
		v1.POST("/projects", requireAdmin(), h.createProject)

		project := v1.Group("/projects/:projectID", h.projectAccess())
		{
			project.GET("", h.getProject)
			project.PATCH("", requireAdmin(), h.updateProject)
			project.DELETE("", requireAdmin(), h.deleteProject)

			tasks := project.Group("/tasks")
			{
				tasks.GET("", h.listTasks)
				tasks.POST("", h.createTask)
				tasks.POST("/bulk-delete", requireAdmin(), h.bulkDeleteTasks)
				tasks.POST("/clear", requireAdmin(), h.clearTasks)
				tasks.POST("/renumber", requireAdmin(), h.renumberTasks)
				tasks.GET("/:taskID", h.getTask)
				tasks.PATCH("/:taskID", h.updateTask)
				tasks.POST("/:taskID/move", h.moveTask)
				tasks.DELETE("/:taskID", h.deleteTask)
			}

			project.POST("/import", requireAdmin(), h.importSchedule)

			project.GET("/daily-works", h.listDailyWorks)
			project.POST("/daily-works", h.recordDailyWork)
			project.DELETE("/daily-works/:workID", h.deleteDailyWork)

			project.GET("/monthly-plans", h.monthlyView)
			project.PUT("/monthly-plans", h.saveMonthlyPlan)
		}
	}
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
