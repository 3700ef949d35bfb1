package outbox_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/outbox"
	dbTest "github.com/tidepool-org/healthlog/store/test"
	"github.com/tidepool-org/healthlog/zones"
)

var _ = Describe("Outbox Repository", func() {
	var repo outbox.Repository
	var database *mongo.Database
	var collection *mongo.Collection

	BeforeEach(func() {
		database = dbTest.GetTestDatabase()
		collection = database.Collection(outbox.CollectionName)
		lifecycle := fxtest.NewLifecycle(GinkgoT())

		var err error
		repo, err = outbox.NewRepository(database, zap.NewNop().Sugar(), lifecycle)
		Expect(err).ToNot(HaveOccurred())
		Expect(repo).ToNot(BeNil())
		lifecycle.RequireStart()
	})

	AfterEach(func() {
		_ = collection.Drop(context.Background())
	})

	alert := func(userId string) outbox.ZoneAlertPayload {
		return outbox.ZoneAlertPayload{
			UserId:       userId,
			Metric:       zones.BloodPressure,
			Zone:         zones.Red,
			ValueSummary: "145/95 mmHg",
			Insight:      "High - monitor closely.",
			ObservedAt:   time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC),
		}
	}

	Describe("Create", func() {
		It("inserts a zone alert and fields persist correctly", func() {
			event, err := outbox.NewZoneAlertEvent(alert("user-1"))
			Expect(err).ToNot(HaveOccurred())
			Expect(repo.Create(context.Background(), event)).To(Succeed())

			var result outbox.Event
			err = collection.FindOne(context.Background(), bson.M{"eventType": string(outbox.EventTypeSendZoneAlert)}).Decode(&result)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Id).ToNot(BeNil())
			Expect(result.EventType).To(Equal(outbox.EventTypeSendZoneAlert))
			Expect(result.UserId).To(Equal("user-1"))
			Expect(result.CreatedTime).ToNot(BeZero())

			var decoded outbox.ZoneAlertPayload
			Expect(bson.Unmarshal(result.Payload, &decoded)).To(Succeed())
			Expect(decoded.Metric).To(Equal(zones.BloodPressure))
			Expect(decoded.Zone).To(Equal(zones.Red))
			Expect(decoded.ValueSummary).To(Equal("145/95 mmHg"))
			Expect(decoded.ObservedAt.Equal(time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC))).To(BeTrue())
		})
	})

	Describe("CreateMany", func() {
		It("does nothing for an empty batch", func() {
			Expect(repo.CreateMany(context.Background(), nil)).To(Succeed())
			count, err := collection.CountDocuments(context.Background(), bson.M{})
			Expect(err).ToNot(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("inserts all events and lists them in creation order", func() {
			since := time.Now().UTC().Add(-time.Minute)
			events := make([]outbox.Event, 0, 3)
			for _, userId := range []string{"a", "b", "c"} {
				event, err := outbox.NewZoneAlertEvent(alert(userId))
				Expect(err).ToNot(HaveOccurred())
				events = append(events, event)
			}
			Expect(repo.CreateMany(context.Background(), events)).To(Succeed())

			listed, err := repo.List(context.Background(), outbox.EventTypeSendZoneAlert, since, 0)
			Expect(err).ToNot(HaveOccurred())
			Expect(listed).To(HaveLen(3))

			limited, err := repo.List(context.Background(), outbox.EventTypeSendZoneAlert, since, 2)
			Expect(err).ToNot(HaveOccurred())
			Expect(limited).To(HaveLen(2))
		})
	})
})
