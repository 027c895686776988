package capture

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spherecam/spherecam/internal/capture"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
