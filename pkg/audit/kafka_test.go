package audit

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestOnDeliveryLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	p := &KafkaPublisher{
		topic:  "bolao.audit",
		logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}

	p.onDelivery(&kgo.Record{Topic: "bolao.audit"}, nil)
	assert.Empty(t, buf.String(), "successful delivery must not log")

	p.onDelivery(&kgo.Record{Topic: "bolao.audit"}, errors.New("broker unreachable"))
	assert.Contains(t, buf.String(), "audit event delivery failed")
	assert.Contains(t, buf.String(), "broker unreachable")
}

func TestOnDeliveryWithoutLogger(t *testing.T) {
	p := &KafkaPublisher{topic: "bolao.audit"}
	p.onDelivery(&kgo.Record{Topic: "bolao.audit"}, errors.New("broker unreachable"))
}
