package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Coach
		Alerts
		Tasks
		Scheduler
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}

	Database struct {
		Path string
	}

	Catalog struct {
		BaseURL           string
		MaxResults        int
		RequestsPerSecond float64
		DebounceDelay     time.Duration
	}

	Coach struct {
		BaseURL string
		APIKey  string
		Model   string
		Timeout time.Duration
	}

	Alerts struct {
		Permission string // default, granted or denied
	}

	Tasks struct {
		Enabled         bool
		Workers         int
		DeleteDelay     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}

	Scheduler struct {
		MonthlyReportEnabled  bool
		MonthlyReportSchedule string // Cron format: "0 9 1 * *" = 09:00 on the 1st
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8288)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog search defaults
	v.SetDefault("catalog_base_url", "https://www.googleapis.com/books/v1")
	v.SetDefault("catalog_max_results", 20)
	v.SetDefault("catalog_requests_per_second", 5.0)
	v.SetDefault("catalog_debounce_delay", "500ms")

	// Reading coach defaults
	v.SetDefault("coach_base_url", "https://api.openai.com/v1")
	v.SetDefault("coach_api_key", "")
	v.SetDefault("coach_model", "gpt-4o-mini")
	v.SetDefault("coach_timeout", "30s")

	// Platform alert defaults
	v.SetDefault("alerts_permission", "default")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_delete_delay", "5s")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Scheduler defaults
	v.SetDefault("monthly_report_enabled", true)
	v.SetDefault("monthly_report_schedule", "0 9 1 * *") // 09:00 on the 1st

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			BaseURL:           v.GetString("CATALOG_BASE_URL"),
			MaxResults:        v.GetInt("CATALOG_MAX_RESULTS"),
			RequestsPerSecond: v.GetFloat64("CATALOG_REQUESTS_PER_SECOND"),
			DebounceDelay:     v.GetDuration("CATALOG_DEBOUNCE_DELAY"),
		},
		Coach: Coach{
			BaseURL: v.GetString("COACH_BASE_URL"),
			APIKey:  v.GetString("COACH_API_KEY"),
			Model:   v.GetString("COACH_MODEL"),
			Timeout: v.GetDuration("COACH_TIMEOUT"),
		},
		Alerts: Alerts{
			Permission: v.GetString("ALERTS_PERMISSION"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			DeleteDelay:     v.GetDuration("TASK_DELETE_DELAY"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Scheduler: Scheduler{
			MonthlyReportEnabled:  v.GetBool("MONTHLY_REPORT_ENABLED"),
			MonthlyReportSchedule: v.GetString("MONTHLY_REPORT_SCHEDULE"),
		},
	}
}
