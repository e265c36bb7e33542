package main

import (
	"context"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/streetnoshery/orders-backend/internal/aws"
	"github.com/streetnoshery/orders-backend/internal/cache"
	"github.com/streetnoshery/orders-backend/internal/metrics"
	"github.com/streetnoshery/orders-backend/internal/orders"
	"github.com/streetnoshery/orders-backend/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	telemetry.InitLogger()
	log := telemetry.Component("order-events-worker")

	ctx := context.Background()

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
		log.Warn("REDIS_ADDR not set, using default", "addr", redisAddr)
	}

	store := orders.NewStore(clients.DynamoDB, os.Getenv("ORDERS_TABLE"))
	views := cache.NewRedisCache(redisAddr, 24*time.Hour)
	recorder := metrics.NewRecorder(clients.CloudWatch, "StreetNoshery/Orders", log)

	p := NewProcessor(store, views, recorder, log)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_track_id":"LOCALTRACKID0001","customer_id":"local-customer","shop_id":"local-shop","status":"PLACED"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Error("local handler error", "error", err)
			os.Exit(1)
		}
		return
	}

	lambda.Start(p.Handle)
}
