package vitals_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/tidepool-org/healthlog/errors"
	"github.com/tidepool-org/healthlog/pointer"
	"github.com/tidepool-org/healthlog/test"
	"github.com/tidepool-org/healthlog/vitals"
	vitalsTest "github.com/tidepool-org/healthlog/vitals/test"
)

var _ = Describe("Vitals Service", func() {
	var service vitals.Service
	var repo *vitalsTest.MockRepository
	var ctrl *gomock.Controller

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		repo = vitalsTest.NewMockRepository(ctrl)

		var err error
		service, err = vitals.NewService(repo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Describe("Create", func() {
		It("rejects invalid observations without touching the store", func() {
			_, err := service.Create(context.Background(), vitals.Observation{UserId: "user"})
			Expect(err).To(HaveOccurred())
			Expect(errors.StatusCode(err)).To(Equal(400))
		})

		It("normalizes recordedAt to UTC", func() {
			local := time.FixedZone("UTC+2", 2*60*60)
			observation := vitalsTest.BloodPressure("user", time.Date(2024, 5, 1, 10, 0, 0, 0, local), 120, 80)

			repo.EXPECT().
				Create(gomock.Any(), test.Match(func(o vitals.Observation) bool {
					return o.RecordedAt.Location() == time.UTC && o.RecordedAt.Hour() == 8
				})).
				DoAndReturn(func(_ context.Context, o vitals.Observation) (*vitals.Observation, error) {
					return &o, nil
				})

			_, err := service.Create(context.Background(), observation)
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("Patch", func() {
		var existing vitals.Observation

		BeforeEach(func() {
			existing = vitalsTest.BloodPressure("user", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), 120, 80)
			existing.Glucose = pointer.FromAny(110)
			repo.EXPECT().
				Get(gomock.Any(), "user", existing.Id.Hex()).
				Return(&existing, nil)
		})

		It("merges the patch into the stored observation", func() {
			repo.EXPECT().
				Update(gomock.Any(), "user", existing.Id.Hex(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, _ string, o vitals.Observation) (*vitals.Observation, error) {
					Expect(o.Systolic).To(Equal(pointer.FromAny(145)))
					Expect(o.Diastolic).To(Equal(pointer.FromAny(80)))
					Expect(o.Glucose).To(BeNil())
					Expect(o.HeartRate).To(Equal(pointer.FromAny(72)))
					return &o, nil
				})

			_, err := service.Patch(context.Background(), "user", existing.Id.Hex(), []byte(`{"systolic": 145, "glucose": null, "heartRate": 72}`))
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects patches that are not json", func() {
			_, err := service.Patch(context.Background(), "user", existing.Id.Hex(), []byte(`systolic=145`))
			Expect(err).To(HaveOccurred())
			Expect(errors.StatusCode(err)).To(Equal(400))
		})
	})
})
