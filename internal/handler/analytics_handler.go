package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetAnalytics 返回截至指定日期（默认今天）的分析数据。
func (a *API) GetAnalytics(c *gin.Context) {
	day, err := parseDayOrToday(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	overview, err := a.analytics.BuildOverview(day)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "计算分析数据失败")
		return
	}

	c.JSON(http.StatusOK, overview)
}
