package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDueReminders 返回当前分钟需要提醒的习惯列表。
// 推送渠道由客户端自行决定，这里只做判定。
func (a *API) GetDueReminders(c *gin.Context) {
	due, err := a.reminders.DueAt(time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取提醒列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders": due})
}
