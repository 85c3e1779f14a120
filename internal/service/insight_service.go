package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/looptrack/internal/engine"
)

const (
	defaultOpenAIInsightModel   = "gpt-4o-mini"
	defaultDeepSeekInsightModel = "deepseek-chat"
	defaultInsightMaxTokens     = 400
	defaultInsightTemperature   = 0.6
	insightWindowDays           = 14
)

const insightSystemPrompt = "你是一位温和而务实的习惯养成教练。根据用户最近的打卡与睡眠数据，" +
	"给出 2-3 条具体、可执行的建议，语气鼓励但不空洞，使用 Markdown 列表输出。"

// InsightResult 返回模型生成的洞察及少量元数据。
type InsightResult struct {
	Insight          string
	PromptTokens     int
	CompletionTokens int
}

// InsightGenerator 定义洞察生成能力，便于在业务层注入不同实现。
type InsightGenerator interface {
	GenerateInsight(ctx context.Context, state engine.AppState, asOf engine.Day) (InsightResult, error)
}

// AIInsightService 基于大模型接口为最近的习惯数据生成教练式洞察。
type AIInsightService struct {
	client *aiChatClient
}

// NewAIInsightService 构造默认的 AIInsightService。
func NewAIInsightService(settings *SystemSettingService) *AIInsightService {
	return &AIInsightService{
		client: newAIChatClient(settings, defaultOpenAIInsightModel, defaultDeepSeekInsightModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIInsightService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIInsightService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIInsightService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// GenerateInsight 调用当前配置的 AI 平台生成洞察，未配置 API Key 时返回 ErrAIAPIKeyMissing。
func (s *AIInsightService) GenerateInsight(ctx context.Context, state engine.AppState, asOf engine.Day) (InsightResult, error) {
	userPrompt := buildInsightPrompt(state, asOf)
	logAIExchange("INSIGHT", "prompt", userPrompt)

	settings, err := s.client.settings.GetSettings()
	if err != nil {
		return InsightResult{}, fmt.Errorf("读取系统设置失败: %w", err)
	}

	result, err := s.client.callWithSettings(ctx, settings, aiChatRequest{
		SystemPrompt: insightSystemPrompt,
		UserPrompt:   userPrompt,
		MaxTokens:    defaultInsightMaxTokens,
		Temperature:  defaultInsightTemperature,
	})
	if err != nil {
		return InsightResult{}, err
	}

	insight := strings.TrimSpace(result.Content)
	logAIExchange("INSIGHT", "response", insight)

	return InsightResult{
		Insight:          insight,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

// buildInsightPrompt 把最近两周的数据压缩成模型可读的摘要：
// 每个习惯的排期、连胜与完成率，以及逐日完成数和睡眠时长。
func buildInsightPrompt(state engine.AppState, asOf engine.Day) string {
	var b strings.Builder

	b.WriteString("以下是用户最近的习惯数据。\n\n习惯列表：\n")
	from := asOf.AddDays(-(insightWindowDays - 1))
	for _, habit := range state.Habits {
		streak := engine.CurrentStreak(state.Logs, habit, asOf)
		rate := engine.CompletionRate(state.Logs, habit, from, asOf)
		fmt.Fprintf(&b, "- %s（分类 %s，每周 %d 天）：当前连胜 %d，近两周完成率 %.0f%%\n",
			habit.Title, habit.Category, len(habit.Frequency), streak, rate*100)
	}
	if len(state.Habits) == 0 {
		b.WriteString("（尚未创建任何习惯）\n")
	}

	b.WriteString("\n最近 14 天：\n")
	for i := insightWindowDays - 1; i >= 0; i-- {
		day := asOf.AddDays(-i)
		log := state.LogFor(day)
		fmt.Fprintf(&b, "- %s：完成 %d 项，睡眠 %.1f 小时\n", day, len(log.CompletedHabitIDs), log.SleepHours)
	}

	fmt.Fprintf(&b, "\n当前积分 %d，等级 %s。请给出建议。", state.Profile.Points, engine.TitleForPoints(state.Profile.Points))
	return b.String()
}
