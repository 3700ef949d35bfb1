package test

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tidepool-org/healthlog/store"
	"github.com/tidepool-org/healthlog/test"
)

const (
	defaultMongoTestHost = "mongodb://127.0.0.1:27017"
	mongoTimeout         = time.Second * 5
)

var database *mongo.Database

// GetTestHost returns the connection string of the mongo instance used by tests
func GetTestHost() string {
	if h, ok := os.LookupEnv("HEALTHLOG_TEST_MONGO_HOST"); ok && h != "" {
		return h
	}
	return defaultMongoTestHost
}

func SetupDatabase() {
	client, err := store.NewClient(GetTestHost())
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	err = client.Ping(ctx, nil)
	Expect(err).ToNot(HaveOccurred())

	databaseName := fmt.Sprintf("healthlog_test_%s_%d", test.Faker.Letter(), ginkgo.GinkgoParallelProcess())
	database = client.Database(databaseName)
}

func TeardownDatabase() {
	Expect(database).ToNot(BeNil())
	err := database.Drop(context.Background())
	Expect(err).ToNot(HaveOccurred())

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	Expect(database.Client().Disconnect(ctx)).ToNot(HaveOccurred())
	database = nil
}

func GetTestDatabase() *mongo.Database {
	Expect(database).ToNot(BeNil())
	return database
}
