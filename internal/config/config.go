package config

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the amphora provisioning configuration.
type Config struct {
	// ComputeDriver selects the backend implementation bound at startup.
	ComputeDriver string `yaml:"compute_driver"`

	// BootNetworks is the default network list amphorae attach to. An
	// availability zone that names a management network replaces it.
	BootNetworks []string `yaml:"boot_networks"`

	// FlavorID is the default compute flavor; a provision request may
	// override it.
	FlavorID string `yaml:"flavor_id"`

	// Topology is the default load balancer topology baked into the
	// amphora's boot-time agent configuration.
	Topology string `yaml:"topology"`

	// Image selection: by id when set, otherwise by tag (and owner).
	ImageID    string `yaml:"image_id"`
	ImageTag   string `yaml:"image_tag"`
	ImageOwner string `yaml:"image_owner"`

	// SSHKeyName is the key material reference passed to the backend.
	SSHKeyName string `yaml:"ssh_key_name"`

	// SecurityGroups applied to every amphora instance.
	SecurityGroups []string `yaml:"security_groups"`

	// BuildLimit bounds how many builds may be in flight at once.
	BuildLimit Limit `yaml:"build_limit"`

	// ActiveRetries bounds the readiness poll loop.
	ActiveRetries int `yaml:"active_retries"`

	// ActiveWaitSeconds is the fixed sleep between readiness polls.
	ActiveWaitSeconds int `yaml:"active_wait_seconds"`

	// AntiAffinity enables placement group allocation per load balancer.
	AntiAffinity bool `yaml:"anti_affinity"`

	// AntiAffinityPolicy is the backend policy used for placement groups.
	AntiAffinityPolicy string `yaml:"anti_affinity_policy"`

	// ClientCAPath is the CA certificate injected into amphora boot config.
	ClientCAPath string `yaml:"client_ca_path"`

	// CertKeyFile holds the passphrase used to decrypt stored amphora
	// server certificates. The AMPHORAD_CERT_KEY environment variable
	// takes precedence when set.
	CertKeyFile string `yaml:"cert_key_file"`
}

// Defaults applied by LoadFile for fields left empty.
const (
	DefaultTopology           = "SINGLE"
	DefaultAntiAffinityPolicy = "spread"
	DefaultActiveRetries      = 30
	DefaultActiveWaitSeconds  = 10
)

// ActiveWaitInterval returns the poll sleep as a duration.
func (c *Config) ActiveWaitInterval() time.Duration {
	return time.Duration(c.ActiveWaitSeconds) * time.Second
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.ComputeDriver == "" {
		return fmt.Errorf("compute_driver must be set")
	}
	if c.ImageID == "" && c.ImageTag == "" {
		return fmt.Errorf("one of image_id or image_tag must be set")
	}
	if c.ActiveRetries <= 0 {
		return fmt.Errorf("active_retries must be positive, got %d", c.ActiveRetries)
	}
	if c.ActiveWaitSeconds < 0 {
		return fmt.Errorf("active_wait_seconds must not be negative, got %d", c.ActiveWaitSeconds)
	}
	if c.AntiAffinity && c.AntiAffinityPolicy == "" {
		return fmt.Errorf("anti_affinity_policy must be set when anti_affinity is enabled")
	}
	return nil
}

// Limit is a build-concurrency bound. It unmarshals from an integer or the
// string "unlimited"; the zero value is unlimited.
type Limit struct {
	cap       int
	unlimited bool
}

// NewLimit returns a bounded limit of n concurrent builds.
func NewLimit(n int) Limit {
	return Limit{cap: n}
}

// Unlimited returns a disabled limit.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// IsUnlimited reports whether the limit is disabled.
func (l Limit) IsUnlimited() bool {
	return l.unlimited || l.cap <= 0
}

// Cap returns the bound; meaningless when the limit is unlimited.
func (l Limit) Cap() int {
	return l.cap
}

func (l Limit) String() string {
	if l.IsUnlimited() {
		return "unlimited"
	}
	return strconv.Itoa(l.cap)
}

// UnmarshalYAML accepts an integer or the string "unlimited".
func (l *Limit) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "unlimited" {
		*l = Unlimited()
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("build limit must be an integer or \"unlimited\", got %q", value.Value)
	}
	if n <= 0 {
		return fmt.Errorf("build limit must be positive, got %d", n)
	}
	*l = NewLimit(n)
	return nil
}

// MarshalYAML renders the limit the way UnmarshalYAML accepts it.
func (l Limit) MarshalYAML() (interface{}, error) {
	if l.IsUnlimited() {
		return "unlimited", nil
	}
	return l.cap, nil
}
