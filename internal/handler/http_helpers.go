package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/engine"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseDayParam(c *gin.Context, key string) (engine.Day, error) {
	day, err := engine.ParseDay(c.Param(key))
	if err != nil {
		return engine.Day{}, fmt.Errorf("invalid %s", key)
	}
	return day, nil
}

// parseDayOrToday 解析可选的日期字符串，为空时回退到当天。
func parseDayOrToday(value string) (engine.Day, error) {
	if value == "" {
		return engine.Today(nil), nil
	}
	return engine.ParseDay(value)
}
