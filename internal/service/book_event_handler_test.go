package service

import (
	"context"
	"testing"

	"bookapp-ai-be/internal/pkg/logger"
	"bookapp-ai-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestBookEventHandler(t *testing.T) {
	bookAI := &recordingBookAIService{done: make(chan struct{}, 4)}
	h := NewBookEventHandler(bookAI, logger.NewNopLogger())

	err := h.Handle(context.Background(), events.NewBaseEvent(events.TypeBookAdded, map[string]interface{}{
		"title":   "작별하지 않는다",
		"isbn":    "9788954682152",
		"authors": []interface{}{"한강"},
	}))
	assert.NoError(t, err)

	err = h.Handle(context.Background(), events.NewBaseEvent(events.TypeBookAdded, map[string]interface{}{
		"title": "ISBN 없음",
	}))
	assert.NoError(t, err)

	err = h.Handle(context.Background(), events.NewBaseEvent(events.TypeBookAdded, map[string]interface{}{
		"isbn":    "9788954682152",
		"authors": "not a list",
	}))
	assert.NoError(t, err)

	assert.Equal(t, []string{"9788954682152"}, bookAI.single)
}
