package utils

import (
	"github.com/Luismorlan/foodreels/utils/dotenv"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"
)

func datadogEnv() string {
	if dotenv.IsProdEnv() {
		return "production"
	}
	return "development"
}

// StartTracer starts the Datadog tracer, reporting to DD_AGENT_HOST when set.
func StartTracer(serviceName string) {
	tracer.Start(
		tracer.WithService(serviceName),
		tracer.WithEnv(datadogEnv()),
	)

	Log.WithFields(
		logrus.Fields{"service": serviceName, "env": datadogEnv()},
	).Info("tracer initialized")
}

// Stop tracer, OK to be closed multiple times
func CloseTracer() {
	// Datadog tracer
	tracer.Stop()
}
