package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal("PONG")
	}
	return cmd
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name         string
		pinger       Pinger
		modelVersion string
		want         Status
	}{
		{name: "model loaded without redis", modelVersion: "v1", want: StatusHealthy},
		{name: "model and redis healthy", pinger: fakePinger{}, modelVersion: "v1", want: StatusHealthy},
		{name: "redis down", pinger: fakePinger{err: errors.New("refused")}, modelVersion: "v1", want: StatusUnhealthy},
		{name: "model missing", modelVersion: "", want: StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(tt.pinger, tt.modelVersion, "test")

			got := c.Check(context.Background())
			if got.Status != tt.want {
				t.Errorf("Status = %q, want %q (checks %v)", got.Status, tt.want, got.Checks)
			}
		})
	}
}

func TestChecker_ReadyHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
	}{
		{name: "ready", pinger: fakePinger{}, wantStatus: http.StatusOK},
		{name: "not ready", pinger: fakePinger{err: errors.New("refused")}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health/ready", NewChecker(tt.pinger, "v1", "test").ReadyHandler())

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body HealthStatus
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Model != "v1" {
				t.Errorf("Model = %q, want v1", body.Model)
			}
		})
	}
}

func TestGRPCChecker_Check(t *testing.T) {
	tests := []struct {
		name    string
		checker *Checker
		service string
		want    grpchealth.Status
	}{
		{name: "overall serving", checker: NewChecker(nil, "v1", "test"), want: grpchealth.StatusServing},
		{name: "named service serving", checker: NewChecker(nil, "v1", "test"), service: ServiceName, want: grpchealth.StatusServing},
		{name: "not serving", checker: NewChecker(nil, "", "test"), want: grpchealth.StatusNotServing},
		{name: "unknown service", checker: NewChecker(nil, "v1", "test"), service: "other", want: grpchealth.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := NewGRPCChecker(tt.checker).Check(context.Background(), &grpchealth.CheckRequest{Service: tt.service})
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if resp.Status != tt.want {
				t.Errorf("Status = %v, want %v", resp.Status, tt.want)
			}
		})
	}
}
