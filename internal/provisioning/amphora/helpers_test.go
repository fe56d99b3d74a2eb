package amphora

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ComputeDriver:      "mock",
		BootNetworks:       []string{"net-mgmt-1", "net-mgmt-2"},
		FlavorID:           "cx22",
		Topology:           "SINGLE",
		ImageTag:           "2025.1",
		SSHKeyName:         "amphora-key",
		SecurityGroups:     []string{"amphora-mgmt"},
		BuildLimit:         config.Unlimited(),
		ActiveRetries:      3,
		ActiveWaitSeconds:  0, // no sleeping in tests
		AntiAffinity:       true,
		AntiAffinityPolicy: "spread",
	}
}

func testGate(t *testing.T, limit config.Limit) *admission.Gate {
	t.Helper()
	return admission.NewGate(limit, logr.Discard(), prometheus.NewRegistry())
}

func testRequest() ProvisionRequest {
	return ProvisionRequest{
		AmphoraID:      "amp-1",
		LoadBalancerID: "lb-1",
		Priority:       admission.PriorityNormal,
	}
}
