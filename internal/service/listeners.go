package service

import (
	"fmt"

	"mindset-backend/utilities"
)

// InitCompletionListeners subscribes the post-completion handlers.
func InitCompletionListeners(bus *utilities.EventBus, log *utilities.Logger) {
	bus.Subscribe(utilities.EventResponseCompleted, func(data interface{}) {
		event, ok := data.(ResponseCompleted)
		if !ok {
			log.Warn("unexpected response_completed payload", "type", typeName(data))
			return
		}
		log.Info("assessment summary ready",
			"response_id", event.ResponseID,
			"user_id", event.UserID,
			"organization_id", event.OrganizationID,
			"assessment", event.AssessmentName,
			"strengths", len(event.Strengths),
			"growth_areas", len(event.GrowthAreas),
		)
	})
}

func typeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
