// Command kafka-check verifies that the broker is reachable and that the
// listing and dead-letter topics exist.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"relentless-househunter/common"
	"relentless-househunter/internal/kafka"
)

func main() {
	broker := common.GetEnv("KAFKA_BROKER", "localhost:9092")
	topics := topicsFromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts, err := kafka.Check(ctx, broker, topics...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	for topic, n := range counts {
		if topic == "" {
			fmt.Printf("connected to Kafka at %s (%d partitions)\n", broker, n)
			continue
		}
		fmt.Printf("connected to Kafka at %s: %s has %d partitions\n", broker, topic, n)
	}
}

func topicsFromEnv() []string {
	var topics []string
	for _, key := range []string{"KAFKA_RECORDS_TOPIC", "KAFKA_DLQ_TOPIC"} {
		if topic := os.Getenv(key); topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}
