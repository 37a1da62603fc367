package queue

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// EnsureStream idempotently creates the LOGPROCESSING stream backing
// Subject, matching the teacher's migrations-on-boot idiom of making
// infrastructure setup part of normal startup rather than a separate
// provisioning step.
func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(StreamName)
	if err == nil {
		return nil
	}
	if err != nats.ErrStreamNotFound {
		return fmt.Errorf("queue: stream info: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{Subject},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("queue: add stream: %w", err)
	}
	return nil
}

// Publish JSON-encodes a job envelope and publishes it to Subject,
// grounded on WessleyAI-wessley-mvp's pkg/natsutil.Publish (JSON over
// nats.Msg) but without the OTel header propagation that package adds —
// this domain has no distributed tracing surface to propagate into.
func Publish(js nats.JetStreamContext, job JobEnvelope) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job envelope: %w", err)
	}
	_, err = js.Publish(Subject, data)
	if err != nil {
		return fmt.Errorf("queue: publish job: %w", err)
	}
	return nil
}
