package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListBadges 返回徽章目录及各自的解锁状态。
func (a *API) ListBadges(c *gin.Context) {
	state, err := a.tracker.State()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载应用状态失败")
		return
	}

	badges := make([]gin.H, 0, len(a.tracker.Catalog()))
	for _, badge := range a.tracker.Catalog() {
		badges = append(badges, gin.H{
			"id":          badge.ID,
			"name":        badge.Name,
			"description": badge.Description,
			"icon":        badge.Icon,
			"color":       badge.Color,
			"unlocked":    state.Profile.HasBadge(badge.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
