package adherence_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/adherence"
	adherenceTest "github.com/tidepool-org/healthlog/adherence/test"
	"github.com/tidepool-org/healthlog/config"
	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/metrics"
	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/test"
	"github.com/tidepool-org/healthlog/timeline"
	timelineTest "github.com/tidepool-org/healthlog/timeline/test"
)

var _ = Describe("Adherence Service", func() {
	var ctrl *gomock.Controller
	var repo *adherenceTest.MockRepository
	var timelineRepo *timelineTest.MockRepository
	var m *metrics.Metrics
	var service adherence.Service
	var userId string
	var now time.Time

	newService := func(location string) adherence.Service {
		s, err := adherence.NewService(adherence.Params{
			Config:     &config.Config{Location: location},
			Repository: repo,
			Timeline:   timelineRepo,
			Transactor: store.NoTransaction,
			Metrics:    m,
			Logger:     zap.NewNop().Sugar(),
			Clock:      func() time.Time { return now },
		})
		Expect(err).ToNot(HaveOccurred())
		return s
	}

	upsertEcho := func(_ context.Context, day adherence.Day) (*adherence.Day, error) {
		id := primitive.NewObjectID()
		day.Id = &id
		return &day, nil
	}

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = adherenceTest.NewMockRepository(ctrl)
		timelineRepo = timelineTest.NewMockRepository(ctrl)
		m = metrics.NewNop()
		userId = test.Faker.UUID().V4()
		now = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
		service = newService("UTC")
	})

	It("rejects unknown locations", func() {
		_, err := adherence.NewService(adherence.Params{
			Config:     &config.Config{Location: "Mars/Olympus_Mons"},
			Repository: repo,
			Metrics:    m,
			Logger:     zap.NewNop().Sugar(),
		})
		Expect(err).To(HaveOccurred())
	})

	Describe("MarkTaken", func() {
		It("rejects medications without an id", func() {
			_, err := service.MarkTaken(context.Background(), userId, adherence.Medication{Name: "Aspirin"})
			Expect(err).To(MatchError(errors.BadRequest))
		})

		It("stores today's day and returns the streak", func() {
			history := adherenceTest.Days(userId, now.AddDate(0, 0, -1), 3, 100)
			medication := adherenceTest.RandomMedication()

			repo.EXPECT().ListAll(gomock.Any(), userId).Return(history, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, day adherence.Day) (*adherence.Day, error) {
				Expect(day.UserId).To(Equal(userId))
				Expect(day.Date).To(Equal("2024-03-10"))
				Expect(day.HasTaken(medication.Id)).To(BeTrue())
				return upsertEcho(ctx, day)
			})
			timelineRepo.EXPECT().Merge(gomock.Any(), userId, gomock.Len(1)).DoAndReturn(func(_ context.Context, _ string, entries []timeline.Entry) (*timeline.MergeResult, error) {
				Expect(entries[0].Category).To(Equal(timeline.CategoryAdherence))
				Expect(entries[0].Title).To(Equal("Medication adherence 2024-03-10"))
				Expect(entries[0].Replaceable).To(BeTrue())
				return &timeline.MergeResult{Inserted: entries}, nil
			})

			result, err := service.MarkTaken(context.Background(), userId, medication)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.AlreadyTaken).To(BeFalse())
			Expect(result.Day.Id).ToNot(BeNil())
			Expect(result.Day.AdherenceScore).To(Equal(33))
			Expect(result.Streak).To(Equal(adherence.Streak{Current: 0, Best: 3}))
			Expect(testutil.ToFloat64(m.DosesMarked.WithLabelValues("taken"))).To(Equal(1.0))
		})

		It("does not store anything when the medication was already taken today", func() {
			medication := adherenceTest.RandomMedication()
			today := adherence.MarkTaken(nil, medication, now.Add(-time.Hour))
			today[0].UserId = userId

			repo.EXPECT().ListAll(gomock.Any(), userId).Return(today, nil)

			result, err := service.MarkTaken(context.Background(), userId, medication)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.AlreadyTaken).To(BeTrue())
			Expect(result.Day.TakenMedications).To(HaveLen(1))
			Expect(testutil.ToFloat64(m.DosesMarked.WithLabelValues("duplicate"))).To(Equal(1.0))
		})

		It("keys the day in the configured location", func() {
			now = time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
			service = newService("America/New_York")

			repo.EXPECT().ListAll(gomock.Any(), userId).Return([]adherence.Day{}, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, day adherence.Day) (*adherence.Day, error) {
				Expect(day.Date).To(Equal("2024-03-09"))
				return upsertEcho(ctx, day)
			})
			timelineRepo.EXPECT().Merge(gomock.Any(), userId, gomock.Any()).Return(&timeline.MergeResult{}, nil)

			_, err := service.MarkTaken(context.Background(), userId, adherenceTest.RandomMedication())
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Streaks", func() {
		It("computes streaks over all stored days", func() {
			repo.EXPECT().ListAll(gomock.Any(), userId).Return(adherenceTest.Days(userId, now, 5, 100), nil)

			streak, err := service.Streaks(context.Background(), userId)
			Expect(err).ToNot(HaveOccurred())
			Expect(streak).To(Equal(adherence.Streak{Current: 5, Best: 5}))
		})
	})
})
