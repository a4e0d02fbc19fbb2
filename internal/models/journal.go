package models

// JournalEntry is a daily journal record supplied by the data feed. The
// engine only reads the recovery scores; the remaining fields are carried
// through for display.
type JournalEntry struct {
	Date               string   `json:"date"` // YYYY-MM-DD
	Title              string   `json:"title,omitempty"`
	Mood               string   `json:"mood,omitempty"`
	Content            string   `json:"content,omitempty"`
	OuraSleepScore     *float64 `json:"ouraSleepScore,omitempty"`
	OuraReadinessScore *float64 `json:"ouraReadinessScore,omitempty"`
	SetupContext       string   `json:"setupContext,omitempty"`
	Execution          string   `json:"execution,omitempty"`
	Psychology         string   `json:"psychology,omitempty"`
	RuleAdherence      string   `json:"ruleAdherence,omitempty"`
	WhatWentWell       string   `json:"whatWentWell,omitempty"`
	WhatToImprove      string   `json:"whatToImprove,omitempty"`
	LessonLearned      string   `json:"lessonLearned,omitempty"`
	NextRule           string   `json:"nextRule,omitempty"`
}

// Dataset is the full analytics input: the canonical trade set plus the
// read-only journal.
type Dataset struct {
	Trades  []Trade        `json:"trades"`
	Journal []JournalEntry `json:"journal"`
}
