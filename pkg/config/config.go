// Package config centralizes the per-world-kind tunables (thresholds,
// rewards, penalties, intervals) named throughout spec §4.1, so numeric
// semantics live in one place instead of scattered through rule engines.
package config

// Config is the umbrella configuration object returned by Initialize and
// used throughout the application.
type Config struct {
	configDir string

	Debate    DebateConfig
	Game      GameConfig
	Society   SocietyConfig
	Logic     LogicConfig
	Queue     QueueConfig
	Retention RetentionConfig
}

// ConfigDir returns the configuration directory path used to load this Config.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// DebateConfig holds Debate world-kind tunables.
type DebateConfig struct {
	// MaxSpeakRatio, if > 0, is the share of total speeches past which a
	// warning (not a hard rejection) is recorded for an over-talking agent.
	// Preserved as warn-only per spec §9(ii) — not enforced as a hard limit.
	MaxSpeakRatio float64 `yaml:"max_speak_ratio,omitempty" validate:"omitempty,min=0,max=1"`
}

// GameConfig holds Game world-kind tunables.
type GameConfig struct {
	AttackDamage int `yaml:"attack_damage" validate:"required,min=1"`
	HealAmount   int `yaml:"heal_amount" validate:"required,min=1"`
}

// SocietyConfig holds Society world-kind tunables.
type SocietyConfig struct {
	WorkReward               [3]float64 `yaml:"work_reward"`
	WorkRoleBonus            float64    `yaml:"work_role_bonus" validate:"required,min=1"`
	WorkMinEfficiency        float64    `yaml:"work_min_efficiency" validate:"required,min=0,max=1"`
	WorkDiminishingStartTick int64      `yaml:"work_diminishing_start_tick"`
	WorkDiminishingRate      float64    `yaml:"work_diminishing_rate" validate:"min=0"`

	ConsumeIndulgenceThreshold      float64 `yaml:"consume_indulgence_threshold"`
	ConsumeIndulgenceCostMultiplier float64 `yaml:"consume_indulgence_cost_multiplier" validate:"min=1"`
	ConsumeMoodBoost                float64 `yaml:"consume_mood_boost"`
	ConsumeFailMoodPenalty          float64 `yaml:"consume_fail_mood_penalty"`

	ConflictEscalationThreshold   float64    `yaml:"conflict_escalation_threshold"`
	ConflictEscalationProbability float64    `yaml:"conflict_escalation_probability" validate:"min=0,max=1"`
	ConflictResourceLoss          [3]float64 `yaml:"conflict_resource_loss"`
	ConflictRelationshipPenalty   float64    `yaml:"conflict_relationship_penalty"`

	TalkFriendlyBoost     float64 `yaml:"talk_friendly_boost"`
	TalkHostilePenalty    float64 `yaml:"talk_hostile_penalty"`
	TalkNeutralDelta      float64 `yaml:"talk_neutral_delta"`
	HelpRelationshipBoost float64 `yaml:"help_relationship_boost"`
	HelperRoleBonus       float64 `yaml:"helper_role_bonus" validate:"required,min=1"`
	LeaderRoleBonus       float64 `yaml:"leader_role_bonus" validate:"required,min=1"`

	ShockInterval    int64   `yaml:"shock_interval" validate:"required,min=1"`
	ShockAgentCount  int     `yaml:"shock_agent_count" validate:"required,min=1"`
	ShockResourceMin float64 `yaml:"shock_resource_min"`
	ShockResourceMax float64 `yaml:"shock_resource_max"`
	ShockMoodMin     float64 `yaml:"shock_mood_min"`
	ShockMoodMax     float64 `yaml:"shock_mood_max"`

	ZeroResourceExitThreshold int     `yaml:"zero_resource_exit_threshold" validate:"required,min=1"`
	LowMoodExitThreshold      int     `yaml:"low_mood_exit_threshold" validate:"required,min=1"`
	LowMoodThreshold          float64 `yaml:"low_mood_threshold"`
}

// LogicConfig holds Logic world-kind tunables.
type LogicConfig struct {
	// ModusPonensPremiseCount is the expected premise count for a
	// "modus_ponens" derivation rule; a mismatch produces a warning, not a
	// rejection.
	ModusPonensPremiseCount int `yaml:"modus_ponens_premise_count" validate:"required,min=1"`
}

// QueueConfig holds tick-driver scheduling tunables.
type QueueConfig struct {
	SocietyTickInterval  string `yaml:"society_tick_interval,omitempty"`
	ActionCollectTimeout string `yaml:"action_collect_timeout,omitempty"`
}

// RetentionConfig holds the background cleanup sweep's tunables:
// how long an ended/failed session's record is kept, how many events
// are retained per session's event log, and how often the sweep runs.
type RetentionConfig struct {
	SessionRetentionHours int    `yaml:"session_retention_hours" validate:"required,min=1"`
	EventLogKeepCount     int    `yaml:"event_log_keep_count" validate:"required,min=1"`
	CleanupInterval       string `yaml:"cleanup_interval,omitempty"`
}
