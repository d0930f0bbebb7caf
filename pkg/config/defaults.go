package config

// Defaults returns the built-in tunables used when worldengine.yaml omits a
// field. These correspond to the constants named in spec §4.1.
func Defaults() Config {
	return Config{
		Debate: DebateConfig{
			MaxSpeakRatio: 0.4,
		},
		Game: GameConfig{
			AttackDamage: 20,
			HealAmount:   15,
		},
		Society: SocietyConfig{
			WorkReward:               [3]float64{5, 10, 18},
			WorkRoleBonus:            1.5,
			WorkMinEfficiency:        0.3,
			WorkDiminishingStartTick: 50,
			WorkDiminishingRate:      0.01,

			ConsumeIndulgenceThreshold:      0.5,
			ConsumeIndulgenceCostMultiplier: 1.5,
			ConsumeMoodBoost:                0.1,
			ConsumeFailMoodPenalty:          -0.15,

			ConflictEscalationThreshold:   -0.3,
			ConflictEscalationProbability: 0.25,
			ConflictResourceLoss:          [3]float64{3, 7, 12},
			ConflictRelationshipPenalty:   -0.1,

			TalkFriendlyBoost:     0.05,
			TalkHostilePenalty:    -0.1,
			TalkNeutralDelta:      0.02,
			HelpRelationshipBoost: 0.08,
			HelperRoleBonus:       1.2,
			LeaderRoleBonus:       1.3,

			ShockInterval:    20,
			ShockAgentCount:  3,
			ShockResourceMin: 1,
			ShockResourceMax: 10,
			ShockMoodMin:     0.05,
			ShockMoodMax:     0.2,

			ZeroResourceExitThreshold: 5,
			LowMoodExitThreshold:      5,
			LowMoodThreshold:          -0.7,
		},
		Logic: LogicConfig{
			ModusPonensPremiseCount: 2,
		},
		Queue: QueueConfig{
			SocietyTickInterval:  "500ms",
			ActionCollectTimeout: "2s",
		},
		Retention: RetentionConfig{
			SessionRetentionHours: 24,
			EventLogKeepCount:     10000,
			CleanupInterval:       "15m",
		},
	}
}
