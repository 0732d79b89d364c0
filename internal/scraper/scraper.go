// A metrics forwarding sidecar for willitclear. It runs as its own
// container, gets poked periodically by a scheduler, scrapes the main
// service's /metrics endpoint, and pushes the willitclear_* families to
// Google Cloud Monitoring.
//
// The service registers counters (requests, cache hits and misses,
// provider failures, rate-limit rejections) and one latency histogram
// for outbound provider calls, so the converter only handles those two
// metric kinds. Anything else in the scrape is skipped.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	monitoring "cloud.google.com/go/monitoring/apiv3/v2"
	"cloud.google.com/go/monitoring/apiv3/v2/monitoringpb"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/genproto/googleapis/api/distribution"
	"google.golang.org/genproto/googleapis/api/metric"
	"google.golang.org/genproto/googleapis/api/monitoredres"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("starting scraper", "port", port)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		scrapeHandler(w, r, logger)
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}

func scrapeHandler(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	logger.Info("scrape request received")
	if err := scrapeAndIngest(r.Context(), logger); err != nil {
		logger.Error("scrape failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Info("metrics forwarded")
	fmt.Fprintln(w, "Success")
}

func scrapeAndIngest(ctx context.Context, logger *slog.Logger) error {
	metricsURL := os.Getenv("METRICS_URL")
	if metricsURL == "" {
		return fmt.Errorf("environment variable METRICS_URL must be set")
	}
	projectID := os.Getenv("PROJECT_ID")
	if projectID == "" {
		return fmt.Errorf("environment variable PROJECT_ID must be set")
	}

	timeSeries, err := collectTimeSeries(ctx, projectID, metricsURL, logger)
	if err != nil {
		return fmt.Errorf("failed to collect metrics: %w", err)
	}

	if len(timeSeries) == 0 {
		logger.Info("no metric samples found to ingest")
		return nil
	}

	if err := pushTimeSeries(ctx, projectID, timeSeries); err != nil {
		return fmt.Errorf("failed to ingest metrics: %w", err)
	}
	return nil
}

// metricPrefix selects which scraped families get forwarded, dropping Go
// runtime noise. Defaults to the application's own namespace.
func metricPrefix() string {
	if prefix := os.Getenv("METRIC_PREFIX"); prefix != "" {
		return prefix
	}
	return "willitclear_"
}

func monitoringLocation() string {
	if loc := os.Getenv("MONITORING_LOCATION"); loc != "" {
		return loc
	}
	return "us-west1"
}

// collectTimeSeries scrapes the Prometheus endpoint and converts the
// matching families into Cloud Monitoring TimeSeries. Counters become
// double points, the request-duration histogram becomes a distribution;
// any other kind is skipped.
func collectTimeSeries(ctx context.Context, projectID, url string, logger *slog.Logger) ([]*monitoringpb.TimeSeries, error) {
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http request failed with status code %d", resp.StatusCode)
	}

	var parser expfmt.TextParser
	metricFamilies, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prometheus metrics: %w", err)
	}

	resource := &monitoredres.MonitoredResource{
		Type: "prometheus_target",
		Labels: map[string]string{
			"project_id": projectID,
			"location":   monitoringLocation(),
			"cluster":    "__gce__",
			"namespace":  "willitclear",
			"job":        "willitclear",
			"instance":   url,
		},
	}

	prefix := metricPrefix()

	var timeSeriesList []*monitoringpb.TimeSeries
	now := timestamppb.New(time.Now())

	for name, mf := range metricFamilies {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			var point *monitoringpb.Point
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				point = counterPoint(now, m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				point = histogramPoint(now, m.GetHistogram(), logger)
			default:
				logger.Warn("skipping metric of unexpected kind", "metric", name, "type", mf.GetType())
				continue
			}

			timeSeriesList = append(timeSeriesList, &monitoringpb.TimeSeries{
				Metric: &metric.Metric{
					Type:   "prometheus.googleapis.com/" + name,
					Labels: labels,
				},
				Resource: resource,
				Points:   []*monitoringpb.Point{point},
			})
		}
	}
	return timeSeriesList, nil
}

func counterPoint(timestamp *timestamppb.Timestamp, value float64) *monitoringpb.Point {
	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DoubleValue{
				DoubleValue: value,
			},
		},
	}
}

// histogramPoint converts a Prometheus histogram into a Cloud Monitoring
// distribution. Prometheus bucket counts are cumulative uint64s while the
// distribution wants per-bucket int64s, hence the subtraction and the cap.
func histogramPoint(timestamp *timestamppb.Timestamp, h *dto.Histogram, logger *slog.Logger) *monitoringpb.Point {
	promBuckets := h.GetBucket()
	bounds := make([]float64, len(promBuckets)-1)
	bucketCounts := make([]int64, len(promBuckets))
	var lastCumulativeCount uint64

	for i, b := range promBuckets {
		// The final +Inf bucket contributes a count but no bound.
		if i < len(promBuckets)-1 {
			bounds[i] = b.GetUpperBound()
		}
		cumulativeCount := b.GetCumulativeCount()
		bucketCounts[i] = clampToInt64(cumulativeCount-lastCumulativeCount, "bucket count", logger)
		lastCumulativeCount = cumulativeCount
	}

	sampleCount := clampToInt64(h.GetSampleCount(), "sample count", logger)
	mean := 0.0
	if sampleCount > 0 {
		mean = h.GetSampleSum() / float64(sampleCount)
	}

	dist := &distribution.Distribution{
		Count: sampleCount,
		Mean:  mean,
		BucketOptions: &distribution.Distribution_BucketOptions{
			Options: &distribution.Distribution_BucketOptions_ExplicitBuckets{
				ExplicitBuckets: &distribution.Distribution_BucketOptions_Explicit{
					Bounds: bounds,
				},
			},
		},
		BucketCounts: bucketCounts,
	}

	return &monitoringpb.Point{
		Interval: &monitoringpb.TimeInterval{
			EndTime: timestamp,
		},
		Value: &monitoringpb.TypedValue{
			Value: &monitoringpb.TypedValue_DistributionValue{
				DistributionValue: dist,
			},
		},
	}
}

func clampToInt64(v uint64, what string, logger *slog.Logger) int64 {
	if v > math.MaxInt64 {
		logger.Warn("histogram value exceeds MaxInt64, capping", "field", what, "value", v)
		return math.MaxInt64
	}
	return int64(v)
}

func pushTimeSeries(ctx context.Context, projectID string, timeSeries []*monitoringpb.TimeSeries) error {
	client, err := monitoring.NewMetricClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create monitoring client: %w", err)
	}
	defer client.Close()

	req := &monitoringpb.CreateTimeSeriesRequest{
		Name:       "projects/" + projectID,
		TimeSeries: timeSeries,
	}

	if err := client.CreateTimeSeries(ctx, req); err != nil {
		return fmt.Errorf("failed to write time series data: %w", err)
	}
	return nil
}
