package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/looptrack/internal/db"
	"github.com/looptrack/internal/engine"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeHTTPClient struct {
	handler func(*http.Request) (*http.Response, error)
}

func (f fakeHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if f.handler == nil {
		return nil, errors.New("no handler configured")
	}
	return f.handler(req)
}

func setupInsightTestDB(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.SystemSetting{}); err != nil {
		t.Fatalf("failed to migrate system settings: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := db.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func insightTestState() (engine.AppState, engine.Day) {
	asOf := engine.NewDay(2025, time.August, 20)
	state := engine.NewAppState(time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))
	state.Profile.Points = 240
	state.Habits = []engine.Habit{
		{ID: "run", Title: "晨跑", Category: "Health", Frequency: engine.EveryDay()},
	}
	state.Logs = map[engine.Day]engine.DailyLog{
		asOf: {Date: asOf, CompletedHabitIDs: []string{"run"}, SleepHours: 7},
	}
	return state, asOf
}

func TestInsightServiceGenerateInsight(t *testing.T) {
	cleanup := setupInsightTestDB(t)
	defer cleanup()

	system := NewSystemSettingService(db.DB)
	if _, err := system.UpdateSettings(SystemSettingsInput{
		SiteName:     "Loop",
		AIProvider:   AIProviderOpenAI,
		OpenAIAPIKey: "sk-test",
	}); err != nil {
		t.Fatalf("failed to seed settings: %v", err)
	}

	svc := NewAIInsightService(system)
	svc.SetOpenAIBaseURL("https://openai.test/v1")
	svc.SetHTTPClient(fakeHTTPClient{handler: func(r *http.Request) (*http.Response, error) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header %s", got)
		}

		var payload chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.Model == "" {
			t.Fatalf("expected model to be set")
		}
		if len(payload.Messages) != 2 {
			t.Fatalf("expected system + user messages, got %#v", payload.Messages)
		}
		if !strings.Contains(payload.Messages[1].Content, "晨跑") {
			t.Fatalf("expected habit data in prompt, got %s", payload.Messages[1].Content)
		}

		response := chatCompletionResponse{}
		response.Choices = []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: "- 保持晨跑节奏\n- 睡眠再提前半小时"}}}
		response.Usage.PromptTokens = 120
		response.Usage.CompletionTokens = 40

		buf, _ := json.Marshal(response)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(buf)),
			Header:     make(http.Header),
		}, nil
	}})

	state, asOf := insightTestState()
	result, err := svc.GenerateInsight(context.Background(), state, asOf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result.Insight, "晨跑") {
		t.Fatalf("unexpected insight: %s", result.Insight)
	}
	if result.PromptTokens != 120 || result.CompletionTokens != 40 {
		t.Fatalf("unexpected usage: %+v", result)
	}
}

func TestInsightServiceMissingAPIKey(t *testing.T) {
	cleanup := setupInsightTestDB(t)
	defer cleanup()

	system := NewSystemSettingService(db.DB)
	svc := NewAIInsightService(system)

	state, asOf := insightTestState()
	_, err := svc.GenerateInsight(context.Background(), state, asOf)
	if err == nil {
		t.Fatal("expected error when api key missing")
	}
	if !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildInsightPromptCoversWindow(t *testing.T) {
	state, asOf := insightTestState()
	prompt := buildInsightPrompt(state, asOf)

	if !strings.Contains(prompt, "晨跑") {
		t.Fatalf("expected habit title in prompt: %s", prompt)
	}
	if !strings.Contains(prompt, asOf.String()) {
		t.Fatalf("expected asOf date in prompt: %s", prompt)
	}
	if !strings.Contains(prompt, asOf.AddDays(-13).String()) {
		t.Fatalf("expected window start date in prompt: %s", prompt)
	}
}
