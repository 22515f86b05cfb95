package events

const (
	TypeBookIngestionCompleted = "BOOK_INGESTION_COMPLETED"
	TypeTaggingRetryCompleted  = "TAGGING_RETRY_COMPLETED"
	// TypeBookAdded is emitted by the main backend when a user adds a book
	// that the corpus should learn about.
	TypeBookAdded = "BOOK_ADDED"
)

func BookIngestionCompleted(jobID string, keywords []string, saved int, averageSimilarity float64) Event {
	return NewBaseEvent(TypeBookIngestionCompleted, map[string]interface{}{
		"job_id":             jobID,
		"keywords":           keywords,
		"total_saved":        saved,
		"average_similarity": averageSimilarity,
	})
}

func TaggingRetryCompleted(attempted, succeeded, failed int) Event {
	return NewBaseEvent(TypeTaggingRetryCompleted, map[string]interface{}{
		"attempted": attempted,
		"succeeded": succeeded,
		"failed":    failed,
	})
}

// Subject maps an event type onto the EVENTS stream subject space.
func Subject(eventType string) string {
	return "events." + eventType
}
