package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/healthlog/config"
)

var _ = Describe("Config", func() {
	It("uses defaults", func() {
		cfg, err := config.NewConfig()
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.HttpAddress).To(Equal(":8080"))
		Expect(cfg.ServerTimeout).To(Equal(20 * time.Second))
		Expect(cfg.GetLocation()).To(Equal(time.UTC))
	})

	It("loads the location from the environment", func() {
		GinkgoT().Setenv("HEALTHLOG_LOCATION", "Europe/Sofia")

		cfg, err := config.NewConfig()
		Expect(err).ToNot(HaveOccurred())
		location, err := cfg.GetLocation()
		Expect(err).ToNot(HaveOccurred())
		Expect(location.String()).To(Equal("Europe/Sofia"))
	})

	It("rejects unknown locations", func() {
		cfg := config.New()
		cfg.Location = "Mars/Olympus"
		_, err := cfg.GetLocation()
		Expect(err).To(HaveOccurred())
	})
})
