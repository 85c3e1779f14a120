package handler

import (
	"github.com/looptrack/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	states    *service.StateService
	tracker   *service.TrackerService
	habits    *service.HabitService
	profiles  *service.ProfileService
	analytics *service.AnalyticsService
	reminders *service.ReminderService
	exports   *service.ExportService
	system    *service.SystemSettingService
	insights  service.InsightGenerator
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB) *API {
	systemService := service.NewSystemSettingService(db)

	return &API{
		db:        db,
		states:    service.NewStateService(db),
		tracker:   service.NewTrackerService(db),
		habits:    service.NewHabitService(db),
		profiles:  service.NewProfileService(db),
		analytics: service.NewAnalyticsService(db),
		reminders: service.NewReminderService(db),
		exports:   service.NewExportService(db),
		system:    systemService,
		insights:  service.NewAIInsightService(systemService),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
