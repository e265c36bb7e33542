package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/streetnoshery/orders-backend/internal/aws"
	"github.com/streetnoshery/orders-backend/internal/handlers"
	"github.com/streetnoshery/orders-backend/internal/telemetry"
)

const serviceName = "street-noshery-orders-api"

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.Tracing(serviceName))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrderRoutes(r, cfg)

	return r
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file, using environment variables")
	}
	telemetry.InitLogger()
	log := telemetry.Component("api")

	ctx := context.Background()

	shutdown, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		log.Error("failed to init tracer", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())

	clients, err := aws.NewAWSClients(ctx)
	if err != nil {
		log.Error("failed to init aws clients", "error", err)
		os.Exit(1)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:   clients.DynamoDB,
		SQSClient:        clients.SQS,
		CloudWatchClient: clients.CloudWatch,
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		EventsQueueURL:   os.Getenv("ORDER_EVENTS_QUEUE_URL"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "StreetNoshery/Orders"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := getEnv("HTTP_ADDR", ":8080")
		log.Info("running local server", "addr", addr)
		if err := r.Run(addr); err != nil {
			log.Error("failed to run local server", "error", err)
			os.Exit(1)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
