package service

import (
	"log"
	"strings"
)

const aiLogSnippetLimit = 800

// logAIExchange 记录一次 AI 交互的单侧内容（请求或响应），长文截断后输出，
// 用于核对洞察提示词与模型回复。
func logAIExchange(kind, phase, content string) {
	tag := strings.ToLower(kind)
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		log.Printf("[ai/%s] %s: <empty>", tag, phase)
		return
	}

	runes := []rune(trimmed)
	if len(runes) > aiLogSnippetLimit {
		log.Printf("[ai/%s] %s (%d runes, truncated): %s…", tag, phase, len(runes), string(runes[:aiLogSnippetLimit]))
		return
	}
	log.Printf("[ai/%s] %s (%d runes): %s", tag, phase, len(runes), trimmed)
}
