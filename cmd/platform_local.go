//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/sleepwellbaby/internal/observability"
	"github.com/KasumiMercury/sleepwellbaby/internal/observability/logging"
)

func initObservability(ctx context.Context, logLevel slog.Level) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "sleepwellbaby"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		LogLevel:      logLevel,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: logging.Module("prediction"),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
