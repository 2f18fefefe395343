package config

const (
	defaultWatchDir            = "~/videos/incoming"
	defaultDataDir             = "~/.local/share/elkheta"
	defaultLogDir              = "~/.local/share/elkheta/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultVideoHostBaseURL    = "https://video.bunnycdn.com"
	defaultRequestTimeout      = 30
	defaultRetryAttempts       = 3
	defaultRatePerSecond       = 4.0
	defaultTeacherPrefix       = "P"
	defaultConflictBranch      = "SCI"
	defaultConflictOther       = "AR"
	defaultTrackAKeyword       = "PURE"
	defaultTrackBKeyword       = "APPLIED"
	defaultAcademicYear        = "2026"
	defaultNtfyRequestTimeout  = 10
	defaultWatcherSettleSecond = 5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir: defaultWatchDir,
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		VideoHost: VideoHost{
			BaseURL:        defaultVideoHostBaseURL,
			RequestTimeout: defaultRequestTimeout,
			RetryAttempts:  defaultRetryAttempts,
			RatePerSecond:  defaultRatePerSecond,
		},
		Grammar: Grammar{
			LevelLetters:   []string{"P", "M", "S"},
			TeacherPrefix:  defaultTeacherPrefix,
			BranchCodes:    []string{"SCI", "AR", "EN", "MATH", "SOC", "FR"},
			ConflictBranch: defaultConflictBranch,
			ConflictOther:  defaultConflictOther,
			TrackAKeyword:  defaultTrackAKeyword,
			TrackBKeyword:  defaultTrackBKeyword,
		},
		Academic: Academic{
			DefaultYear: defaultAcademicYear,
			Years: map[string]Year{
				defaultAcademicYear: {Terms: []string{"T1", "T2"}},
			},
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			AutoMatch:      true,
			ManualReview:   true,
			Errors:         true,
		},
		Watcher: Watcher{
			Enabled:       false,
			Extensions:    []string{".mp4", ".mkv", ".mov"},
			SettleSeconds: defaultWatcherSettleSecond,
		},
	}
}
