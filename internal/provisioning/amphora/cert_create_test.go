package amphora

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/secrets"
)

func writeCAFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client_ca.pem")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestCertComputeCreate_InjectsCertMaterial(t *testing.T) {
	t.Parallel()
	passphrase := []byte("test-passphrase")
	blob, err := secrets.Encrypt(passphrase, []byte("SERVER CERT PEM"))
	require.NoError(t, err)

	var captured compute.BuildSpec
	driver := &compute.MockDriver{
		BuildFunc: func(_ context.Context, spec compute.BuildSpec) (string, error) {
			captured = spec
			return "compute-42", nil
		},
	}

	cfg := testConfig()
	cfg.ClientCAPath = writeCAFile(t, "CA CERT PEM")
	req := testRequest()
	req.ServerPEM = blob

	task := NewCertComputeCreate(driver, cfg, testGate(t, config.Unlimited()), nil, logr.Discard(), req, &State{}, passphrase)

	id, err := task.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "compute-42", id)
	assert.Equal(t, "SERVER CERT PEM", captured.BootConfig["/etc/amphora/certs/server.pem"])
	assert.Equal(t, "CA CERT PEM", captured.BootConfig["/etc/amphora/certs/client_ca.pem"])
}

func TestCertComputeCreate_PreservesRequestBootConfig(t *testing.T) {
	t.Parallel()
	passphrase := []byte("test-passphrase")
	blob, err := secrets.Encrypt(passphrase, []byte("cert"))
	require.NoError(t, err)

	var captured compute.BuildSpec
	driver := &compute.MockDriver{
		BuildFunc: func(_ context.Context, spec compute.BuildSpec) (string, error) {
			captured = spec
			return "compute-42", nil
		},
	}

	cfg := testConfig()
	cfg.ClientCAPath = writeCAFile(t, "ca")
	req := testRequest()
	req.ServerPEM = blob
	req.BootConfig = map[string]string{"/etc/amphora/agent.conf": "listen=9443"}

	task := NewCertComputeCreate(driver, cfg, testGate(t, config.Unlimited()), nil, logr.Discard(), req, &State{}, passphrase)

	_, err = task.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "listen=9443", captured.BootConfig["/etc/amphora/agent.conf"])
	assert.Len(t, captured.BootConfig, 3)
	// The request's own map must stay untouched.
	assert.Len(t, req.BootConfig, 1)
}

func TestCertComputeCreate_DecryptFailureIsForwardOnly(t *testing.T) {
	t.Parallel()
	blob, err := secrets.Encrypt([]byte("sealing-key"), []byte("cert"))
	require.NoError(t, err)

	buildCalled := false
	driver := &compute.MockDriver{
		BuildFunc: func(_ context.Context, _ compute.BuildSpec) (string, error) {
			buildCalled = true
			return "", nil
		},
		DeleteFunc: func(_ context.Context, _ string) error {
			t.Fatal("no instance was created, delete must not run")
			return nil
		},
	}

	cfg := testConfig()
	cfg.ClientCAPath = writeCAFile(t, "ca")
	gate := testGate(t, config.Unlimited())
	req := testRequest()
	req.ServerPEM = blob

	task := NewCertComputeCreate(driver, cfg, gate, nil, logr.Discard(), req, &State{}, []byte("wrong-key"))

	_, execErr := task.Execute(context.Background())
	require.Error(t, execErr)
	assert.False(t, buildCalled)
	// Failed before admission: no ticket registered.
	assert.False(t, gate.Holds("amp-1"))
}

func TestCertComputeCreate_MissingCAFails(t *testing.T) {
	t.Parallel()
	passphrase := []byte("test-passphrase")
	blob, err := secrets.Encrypt(passphrase, []byte("cert"))
	require.NoError(t, err)

	cfg := testConfig()
	cfg.ClientCAPath = filepath.Join(t.TempDir(), "does-not-exist.pem")
	req := testRequest()
	req.ServerPEM = blob

	task := NewCertComputeCreate(&compute.MockDriver{}, cfg, testGate(t, config.Unlimited()), nil, logr.Discard(), req, &State{}, passphrase)

	_, execErr := task.Execute(context.Background())
	assert.Error(t, execErr)
}
