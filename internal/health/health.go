package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// ServiceName is the gRPC health service name reported for the prediction API.
const ServiceName = "sleepwellbaby.v1.PredictionService"

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Model   string                 `json:"model,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Pinger is the subset of the redis client used for readiness.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// Checker performs health checks on service dependencies.
type Checker struct {
	redisClient  Pinger
	modelVersion string
	version      string
}

// NewChecker creates a health checker. redisClient may be nil when the
// prediction cache is disabled; an empty modelVersion marks the model as not loaded.
func NewChecker(redisClient Pinger, modelVersion, version string) *Checker {
	return &Checker{
		redisClient:  redisClient,
		modelVersion: modelVersion,
		version:      version,
	}
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Model:   c.modelVersion,
		Checks:  make(map[string]CheckResult),
	}

	if c.modelVersion == "" {
		status.Status = StatusUnhealthy
		status.Checks["model"] = CheckResult{
			Status: StatusUnhealthy,
			Error:  "model artifact not loaded",
		}
	} else {
		status.Checks["model"] = CheckResult{Status: StatusHealthy}
	}

	if c.redisClient != nil {
		start := time.Now()
		if err := c.redisClient.Ping(checkCtx).Err(); err != nil {
			status.Status = StatusUnhealthy
			status.Checks["redis"] = CheckResult{
				Status: StatusUnhealthy,
				Error:  err.Error(),
			}
		} else {
			status.Checks["redis"] = CheckResult{
				Status:    StatusHealthy,
				LatencyMs: time.Since(start).Milliseconds(),
			}
		}
	}

	return status
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

// GRPCChecker adapts Checker to the gRPC health protocol.
type GRPCChecker struct {
	checker *Checker
}

func NewGRPCChecker(checker *Checker) *GRPCChecker {
	return &GRPCChecker{checker: checker}
}

func (g *GRPCChecker) Check(ctx context.Context, req *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if req.Service != "" && req.Service != ServiceName {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusUnknown}, nil
	}

	if g.checker.Check(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}
	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}

// GRPCHandler returns the mount path and handler of the gRPC health service.
func (c *Checker) GRPCHandler() (string, http.Handler) {
	return grpchealth.NewHandler(NewGRPCChecker(c))
}
