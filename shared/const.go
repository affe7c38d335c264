package shared

const (
	UserID    = "user_id"
	SessionID = "session_id"

	TestTypeMCQ       = "mcq"
	TestTypeCoding    = "coding"
	TestTypeCaseStudy = "case-study"

	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelPro          = "pro"

	TestStatusInProgress = "in_progress"
	TestStatusCompleted  = "completed"
	TestStatusAbandoned  = "abandoned"

	QuestionSourceAI       = "ai"
	QuestionSourceBank     = "bank"
	QuestionSourceFallback = "fallback"

	EmotionHappy    = "happy"
	EmotionThinking = "thinking"
	EmotionExcited  = "excited"

	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodAllTime = "all_time"

	AvatarBucket = "user-avatars"
)
