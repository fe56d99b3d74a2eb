package amphora

import (
	"context"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/lbforge/amphorad/internal/admission"
	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/secrets"
)

// CertComputeCreate specializes ComputeCreate by injecting the amphora's
// TLS client-certificate material into the boot payload before building.
type CertComputeCreate struct {
	*ComputeCreate
	passphrase []byte
	caPath     string
}

// NewCertComputeCreate builds the certificate-injecting create step.
// passphrase protects the request's encrypted server certificate blob;
// caPath names the CA certificate file placed alongside it.
func NewCertComputeCreate(driver compute.Driver, cfg *config.Config, gate *admission.Gate,
	bootCfg BootConfigBuilder, log logr.Logger, req ProvisionRequest, state *State,
	passphrase []byte) *CertComputeCreate {
	return &CertComputeCreate{
		ComputeCreate: NewComputeCreate(driver, cfg, gate, bootCfg, log, req, state),
		passphrase:    passphrase,
		caPath:        cfg.ClientCAPath,
	}
}

// Execute decrypts the stored server certificate, reads the CA file, and
// places both at the well-known paths before delegating to the base
// create. Decrypt and file-read failures are forward failures: no handle
// exists yet, so the inherited revert is a no-op for them.
func (t *CertComputeCreate) Execute(ctx context.Context) (string, error) {
	// #nosec G304
	ca, err := os.ReadFile(t.caPath)
	if err != nil {
		return "", fmt.Errorf("failed to read client CA certificate: %w", err)
	}

	serverPEM, err := secrets.Decrypt(t.passphrase, t.req.ServerPEM)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt server certificate for amphora %s: %w", t.req.AmphoraID, err)
	}

	bootConfig := make(map[string]string, len(t.req.BootConfig)+2)
	for path, contents := range t.req.BootConfig {
		bootConfig[path] = contents
	}
	bootConfig[serverCertPath] = string(serverPEM)
	bootConfig[clientCAPath] = string(ca)

	return t.executeWith(ctx, bootConfig)
}
