package mq

import (
	"context"
	"encoding/json"
	"log"

	"suretips/models"
	"suretips/rdx"
)

const eventChannel = "tips-events"

// Emit publishes a domain event (booking uploaded, results updated,
// availability toggled, purchase verified) to Redis for any worker to pick
// up. Failures are logged, never propagated; events are advisory.
func Emit(eventName string, content models.Index) {
	content.Method = eventName
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event to Redis: %v", eventName, err)
	}
}

// StartEventWorker subscribes to the event channel and hands each event to
// handler. Runs until the process exits; call in a goroutine from main.
func StartEventWorker(handler func(models.Index)) {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for tips events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		handler(event)
	}
}
