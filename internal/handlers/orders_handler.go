package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/streetnoshery/orders-backend/internal/aws"
	"github.com/streetnoshery/orders-backend/internal/lifecycle"
	"github.com/streetnoshery/orders-backend/internal/metrics"
	"github.com/streetnoshery/orders-backend/internal/orders"
	"github.com/streetnoshery/orders-backend/internal/service"
	"github.com/streetnoshery/orders-backend/internal/validation"
)

// HandlerConfig groups dependencies for the order routes.
type HandlerConfig struct {
	DynamoDBClient   aws.DynamoDBAPI
	SQSClient        aws.SQSAPI
	CloudWatchClient aws.CloudWatchAPI
	OrdersTable      string
	EventsQueueURL   string
	MetricsNamespace string
}

// RegisterOrderRoutes wires the order engine under /order.
func RegisterOrderRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	store := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)

	var publisher *aws.Publisher
	if cfg.SQSClient != nil && cfg.EventsQueueURL != "" {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.EventsQueueURL)
	}
	var recorder *metrics.Recorder
	if cfg.CloudWatchClient != nil {
		recorder = metrics.NewRecorder(cfg.CloudWatchClient, cfg.MetricsNamespace, nil)
	}

	svc := service.New(store, publisher, recorder)

	grp := r.Group("/order")

	grp.GET("", func(c *gin.Context) {
		customerID := c.Query("customerId")
		if customerID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_customer_id"})
			return
		}
		list, err := svc.GetPastOrders(c.Request.Context(), customerID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	grp.GET("/order-by-shopId", func(c *gin.Context) {
		shopID := c.Query("shopId")
		if shopID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_shop_id"})
			return
		}
		list, err := svc.GetOrdersByShop(c.Request.Context(), shopID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	grp.GET("/status", func(c *gin.Context) {
		trackID := c.Query("orderTrackId")
		if trackID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_order_track_id"})
			return
		}
		view, err := svc.GetStatus(c.Request.Context(), trackID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})

	grp.POST("/create/ft", func(c *gin.Context) {
		var req validation.CreateOrderFTRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		created, err := svc.CreateOrderFT(c.Request.Context(), service.PlaceOrderInput{
			CustomerID:      req.CustomerID,
			ShopID:          req.ShopID,
			Items:           toOrderItems(req.OrderItems),
			PaymentID:       req.PaymentID,
			RazorpayOrderID: req.RazorpayOrderID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	})

	grp.POST("/create", func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		confirmed, err := svc.CreateOrder(c.Request.Context(), service.ConfirmOrderInput{
			OrderTrackID:    req.OrderTrackID,
			CustomerID:      req.CustomerID,
			ShopID:          req.ShopID,
			PaymentID:       req.PaymentID,
			RazorpayOrderID: req.RazorpayOrderID,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, confirmed)
	})

	grp.PATCH("/update", func(c *gin.Context) {
		var req validation.UpdateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		updated, err := svc.UpdateOrders(c.Request.Context(), service.AdvanceOrderInput{
			OrderTrackID: req.OrderTrackID,
			Target:       orders.Status(req.OrderStatus),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})
}

// writeError maps engine errors onto the HTTP surface.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "detail": err.Error()})
	case errors.Is(err, orders.ErrTrackIDConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "track_id_conflict"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "detail": err.Error()})
	}
}

func toOrderItems(in []validation.OrderItem) []orders.OrderItem {
	out := make([]orders.OrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, orders.OrderItem{
			DishName:    it.DishName,
			Description: it.Description,
			Price:       it.Price,
			Rating:      it.Rating,
			FoodID:      it.FoodID,
			Count:       it.Count,
		})
	}
	return out
}
