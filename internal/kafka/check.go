package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Check dials broker and reads the partitions of each topic. It returns the
// partition count per topic, or the first failure.
func Check(ctx context.Context, broker string, topics ...string) (map[string]int, error) {
	conn, err := kafka.DialContext(ctx, "tcp", broker)
	if err != nil {
		return nil, fmt.Errorf("connect to kafka at %s: %w", broker, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	counts := make(map[string]int, len(topics))
	if len(topics) == 0 {
		partitions, err := conn.ReadPartitions()
		if err != nil {
			return nil, fmt.Errorf("read kafka metadata: %w", err)
		}
		counts[""] = len(partitions)
		return counts, nil
	}
	for _, topic := range topics {
		partitions, err := conn.ReadPartitions(topic)
		if err != nil {
			return nil, fmt.Errorf("read partitions of %s: %w", topic, err)
		}
		counts[topic] = len(partitions)
	}
	return counts, nil
}
