package queue_test

import (
	"strings"
	"testing"
	"time"

	"github.com/yeisme/assetvault/pkg/queue"
)

// TestNewEventHeader 测试事件头的默认填充与可选项.
func TestNewEventHeader(t *testing.T) {
	hdr := queue.NewEventHeader(queue.TopicAssetStored,
		queue.WithTraceID("trace-123"), queue.WithProducer("assetvault-test"))

	if hdr.Topic != queue.TopicAssetStored {
		t.Errorf("Expected topic %s, got %s", queue.TopicAssetStored, hdr.Topic)
	}

	if hdr.TraceID != "trace-123" {
		t.Errorf("Expected trace id trace-123, got %s", hdr.TraceID)
	}

	if hdr.Producer != "assetvault-test" {
		t.Errorf("Expected producer assetvault-test, got %s", hdr.Producer)
	}

	if hdr.Version != queue.PayloadVersionV1 {
		t.Errorf("Expected version %s, got %s", queue.PayloadVersionV1, hdr.Version)
	}

	if hdr.OccurredAt.IsZero() || hdr.OccurredAt.Location() != time.UTC {
		t.Errorf("Expected non-zero UTC occurred_at, got %v", hdr.OccurredAt)
	}
}

// TestWatermillMessageRoundTrip 测试 watermill 消息的构造与强类型解析.
func TestWatermillMessageRoundTrip(t *testing.T) {
	payload := queue.AssetStoredPayload{
		Asset: queue.AssetRef{
			AssetID:     "01ARZ3NDEKTSV4RRFFQ69G5FAV",
			Bucket:      "assetvault",
			ObjectKey:   "catalog-items/42/gallery/20250901T070102-1a2b3c4d.jpg",
			Size:        1024,
			ContentType: "image/jpeg",
		},
		EntityType: "catalog_item",
		EntityID:   "42",
		Purpose:    "gallery",
		FileName:   "red-shirt.jpg",
		VariantKeys: map[string]string{
			"thumbnail": "catalog-items/42/gallery/20250901T070102-1a2b3c4d-thumbnail.jpg",
		},
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAssetStored, payload,
		queue.WithTraceID("trace-456"), queue.WithProducer("assetvault"))
	if err != nil {
		t.Fatalf("NewWatermillMessage failed: %v", err)
	}

	if msg.UUID == "" {
		t.Error("Expected non-empty message UUID")
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicAssetStored {
		t.Errorf("Expected metadata topic %s, got %s", queue.TopicAssetStored, got)
	}

	if got := msg.Metadata.Get("trace_id"); got != "trace-456" {
		t.Errorf("Expected metadata trace_id trace-456, got %s", got)
	}

	env, err := queue.ParseAssetStored(msg)
	if err != nil {
		t.Fatalf("ParseAssetStored failed: %v", err)
	}

	if env.Header.Topic != queue.TopicAssetStored {
		t.Errorf("Expected header topic %s, got %s", queue.TopicAssetStored, env.Header.Topic)
	}

	if env.Payload.Asset.AssetID != payload.Asset.AssetID {
		t.Errorf("Expected asset id %s, got %s", payload.Asset.AssetID, env.Payload.Asset.AssetID)
	}

	if env.Payload.VariantKeys["thumbnail"] != payload.VariantKeys["thumbnail"] {
		t.Error("Variant keys did not survive round trip")
	}
}

// TestEncodeDecode 测试泛型信封的编解码对称性.
func TestEncodeDecode(t *testing.T) {
	env := queue.Message[queue.AssetOrphanedPayload]{
		Header: queue.NewEventHeader(queue.TopicAssetOrphaned),
		Payload: queue.AssetOrphanedPayload{
			Bucket:     "assetvault",
			OrphanKeys: []string{"orders/7/gallery/a.jpg", "orders/7/gallery/a-thumbnail.jpg"},
			Reason:     "metadata insert failed",
		},
	}

	data, err := queue.Encode(env)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := queue.Decode[queue.AssetOrphanedPayload](data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(decoded.Payload.OrphanKeys) != 2 {
		t.Errorf("Expected 2 orphan keys, got %d", len(decoded.Payload.OrphanKeys))
	}

	if decoded.Payload.Reason != env.Payload.Reason {
		t.Errorf("Expected reason %q, got %q", env.Payload.Reason, decoded.Payload.Reason)
	}
}

// TestTopicNaming 测试主题命名规范：统一前缀且无重复.
func TestTopicNaming(t *testing.T) {
	seen := map[string]bool{}

	var all []string
	all = append(all, queue.AssetTopics...)
	all = append(all, queue.LinkTopics...)
	all = append(all, queue.TrashTopics...)

	for _, topic := range all {
		if !strings.HasPrefix(topic, "av.") {
			t.Errorf("Topic %s does not carry the av. prefix", topic)
		}

		if seen[topic] {
			t.Errorf("Duplicate topic %s", topic)
		}

		seen[topic] = true
	}

	if len(all) != 7 {
		t.Errorf("Expected 7 topics, got %d", len(all))
	}
}
