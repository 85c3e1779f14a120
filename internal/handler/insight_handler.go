package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/looptrack/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// GenerateInsight 基于最近的习惯数据生成 AI 教练洞察，
// 返回原始 Markdown 和净化后的 HTML 两种形态。
func (a *API) GenerateInsight(c *gin.Context) {
	day, err := parseDayOrToday(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的日期")
		return
	}

	state, err := a.tracker.State()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "加载应用状态失败")
		return
	}

	result, err := a.insights.GenerateInsight(c.Request.Context(), state, day)
	if err != nil {
		if errors.Is(err, service.ErrAIAPIKeyMissing) {
			respondError(c, http.StatusBadRequest, "请先在系统设置中配置 AI API Key")
			return
		}
		respondError(c, http.StatusBadGateway, "生成洞察失败")
		return
	}

	rendered, err := renderMarkdown(result.Insight)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染洞察内容失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"insight": gin.H{
			"markdown": result.Insight,
			"html":     rendered,
		},
		"usage": gin.H{
			"prompt_tokens":     result.PromptTokens,
			"completion_tokens": result.CompletionTokens,
		},
	})
}

func renderMarkdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}
