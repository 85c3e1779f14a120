package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/service"
)

// 导入体积上限，备份文档远小于此
const maxImportBytes = 8 << 20

// ExportJSON 导出完整备份文档。
func (a *API) ExportJSON(c *gin.Context) {
	data, err := a.exports.ExportJSON()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出备份失败")
		return
	}

	filename := fmt.Sprintf("looptrack-backup-%s.json", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", data)
}

// ExportCSV 导出打卡活动日志 CSV。
func (a *API) ExportCSV(c *gin.Context) {
	data, err := a.exports.ExportCSV()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "导出 CSV 失败")
		return
	}

	filename := fmt.Sprintf("looptrack-activity-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ImportJSON 校验并导入备份文档，整体替换当前数据。
func (a *API) ImportJSON(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		respondError(c, http.StatusBadRequest, "读取备份内容失败")
		return
	}

	state, err := a.exports.ImportJSON(data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			respondError(c, http.StatusBadRequest, "备份文件格式不正确")
			return
		}
		respondError(c, http.StatusInternalServerError, "导入备份失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported": true,
		"habits":   len(state.Habits),
		"logs":     len(state.Logs),
		"profile":  profileView(state.Profile),
	})
}
