package middleware

import (
	"net/http"
	"strconv"

	"github.com/escritorio-dados/nanowip-sub000/internal/database"
	"github.com/escritorio-dados/nanowip-sub000/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireTaskAccess checks that the task in the URL belongs to the
// organization resolved by RequireOrganizationAccess.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("task_id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid task ID",
			})
			c.Abort()
			return
		}

		organizationID, exists := GetOrganizationID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Organization access required",
			})
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Where("organization_id = ?", organizationID).
			First(&task, taskID).Error; err != nil {
			// 404 instead of 403 to avoid leaking task existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Task not found",
			})
			c.Abort()
			return
		}

		c.Set("task", task)
		c.Next()
	}
}
