package utils

import (
	"os"

	"github.com/DataDog/datadog-go/statsd"
	Logger "github.com/Luismorlan/newsdesk/utils/log"
)

const metricsNamespace = "newsdesk."

// NewStatsdClient connects to the Datadog agent at DD_AGENT_ADDR. Without an
// agent, or if the connection can't be set up, metrics are dropped.
func NewStatsdClient() statsd.ClientInterface {
	addr := os.Getenv("DD_AGENT_ADDR")
	if addr == "" {
		return &statsd.NoOpClient{}
	}
	client, err := statsd.New(addr, statsd.WithNamespace(metricsNamespace))
	if err != nil {
		Logger.Log.Errorf("fail to create statsd client for %s, metrics disabled: %s", addr, err)
		return &statsd.NoOpClient{}
	}
	return client
}
