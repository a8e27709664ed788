package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	kgo "github.com/segmentio/kafka-go"

	rkafka "relentless-househunter/internal/kafka"
	"relentless-househunter/internal/models"
	"relentless-househunter/mocks"
)

func TestProducerWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	prod := rkafka.NewProducerWithWriter(writer)

	records := []models.ListingRecord{
		{ID: 101, URL: "https://www.idealista.com/inmueble/101/", Price: 250000},
		{ID: 202, URL: "https://www.idealista.com/inmueble/202/", Rooms: 3},
	}

	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(msgs))
			}
			if string(msgs[0].Key) != "101" || string(msgs[1].Key) != "202" {
				t.Fatalf("unexpected message keys: %s %s", msgs[0].Key, msgs[1].Key)
			}
			var got models.ListingRecord
			if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
				t.Fatalf("failed to decode message: %v", err)
			}
			if got.ID != 101 || got.Price != 250000 {
				t.Fatalf("unexpected record payload: %+v", got)
			}
			return nil
		})

	if err := prod.Write(context.Background(), records); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
}

func TestProducerWriteEmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Times(0)
	if err := rkafka.NewProducerWithWriter(writer).Write(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestProducerWriteError(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	prod := rkafka.NewProducerWithWriter(writer)

	writer.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))
	if err := prod.Write(context.Background(), []models.ListingRecord{{ID: 1}}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestProducerPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	writer := mocks.NewMockMessageWriter(ctrl)
	prod := rkafka.NewProducerWithWriter(writer)

	failure := models.CrawlFailure{
		RunID:    "run-9",
		Kind:     models.TaskKindListing,
		URL:      "https://www.idealista.com/inmueble/9/",
		Outcome:  "failed",
		Error:    "transient",
		FailedAt: time.Unix(0, 0).UTC(),
	}
	writer.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kgo.Message) error {
			if len(msgs) != 1 || string(msgs[0].Key) != "run-9" {
				t.Fatalf("unexpected messages: %+v", msgs)
			}
			var got models.CrawlFailure
			if err := json.Unmarshal(msgs[0].Value, &got); err != nil {
				t.Fatalf("failed to decode failure: %v", err)
			}
			if got.Kind != models.TaskKindListing || got.URL != failure.URL {
				t.Fatalf("unexpected failure payload: %+v", got)
			}
			return nil
		})

	if err := prod.PublishFailure(context.Background(), failure); err != nil {
		t.Fatalf("PublishFailure returned error: %v", err)
	}
}

func TestCheckUnreachableBroker(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := rkafka.Check(ctx, "127.0.0.1:1", "househunter.listings"); err == nil {
		t.Fatal("expected dial error for an unreachable broker")
	}
}
