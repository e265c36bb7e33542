// Package metrics emits best-effort CloudWatch counters. Emission failures
// are logged and swallowed; no caller path depends on them.
package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/streetnoshery/orders-backend/internal/aws"
)

// Metric names published by the engine and the worker.
const (
	OrderPlaced         = "OrderPlaced"
	OrderConfirmed      = "OrderConfirmed"
	OrderAdvanced       = "OrderAdvanced"
	OrderWriteFailed    = "OrderWriteFailed"
	OrderEventProcessed = "OrderEventProcessed"
)

// Recorder publishes counters into one CloudWatch namespace.
// A nil Recorder is a no-op, so wiring it stays optional in tests.
type Recorder struct {
	client    aws.CloudWatchAPI
	namespace string
	log       *slog.Logger
	nowFunc   func() time.Time
}

// NewRecorder returns a Recorder for namespace.
func NewRecorder(client aws.CloudWatchAPI, namespace string, log *slog.Logger) *Recorder {
	return &Recorder{
		client:    client,
		namespace: namespace,
		log:       log,
		nowFunc:   time.Now,
	}
}

// Count adds 1 to metric name with the given dimensions.
func (r *Recorder) Count(ctx context.Context, name string, dims map[string]string) {
	if r == nil || r.client == nil {
		return
	}

	var cwDims []cwtypes.Dimension
	for k, v := range dims {
		k, v := k, v
		cwDims = append(cwDims, cwtypes.Dimension{Name: &k, Value: &v})
	}

	now := r.nowFunc().UTC()
	value := 1.0
	datum := cwtypes.MetricDatum{
		MetricName: &name,
		Timestamp:  &now,
		Value:      &value,
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: cwDims,
	}

	_, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  &r.namespace,
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil && r.log != nil {
		r.log.WarnContext(ctx, "metric emission failed", "metric", name, "error", err)
	}
}
