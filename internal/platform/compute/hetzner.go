package compute

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/lbforge/amphorad/internal/config"
	"github.com/lbforge/amphorad/internal/util/retry"
)

// HetznerDriver implements Driver on the Hetzner Cloud API.
type HetznerDriver struct {
	client   *hcloud.Client
	timeouts *config.Timeouts
	log      logr.Logger
}

// HetznerOption configures a HetznerDriver.
type HetznerOption func(*HetznerDriver)

// WithTimeouts sets custom timeouts for the driver.
func WithTimeouts(t *config.Timeouts) HetznerOption {
	return func(d *HetznerDriver) {
		d.timeouts = t
	}
}

// WithHCloudClient sets a custom hcloud client (useful for testing).
func WithHCloudClient(c *hcloud.Client) HetznerOption {
	return func(d *HetznerDriver) {
		d.client = c
	}
}

// NewHetznerDriver creates a Hetzner-backed compute driver.
func NewHetznerDriver(token string, log logr.Logger, opts ...HetznerOption) *HetznerDriver {
	d := &HetznerDriver{
		client:   hcloud.NewClient(hcloud.WithToken(token)),
		timeouts: config.LoadTimeouts(),
		log:      log.WithName("hetzner"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ Driver = (*HetznerDriver)(nil)

// Build creates a server and returns its id once the create action finished.
func (d *HetznerDriver) Build(ctx context.Context, spec BuildSpec) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeouts.ServerCreate)
	defer cancel()

	opts, err := d.buildServerCreateOpts(ctx, spec)
	if err != nil {
		return "", err
	}

	var result hcloud.ServerCreateResult
	err = retry.WithExponentialBackoff(ctx, func() error {
		res, _, err := d.client.Server.Create(ctx, opts)
		if err != nil {
			if isInvalidParameter(err) {
				return retry.Fatal(err)
			}
			return err
		}
		result = res
		return nil
	}, retry.WithMaxRetries(d.timeouts.RetryMaxAttempts), retry.WithInitialDelay(d.timeouts.RetryInitialDelay))
	if err != nil {
		return "", fmt.Errorf("failed to create server: %w", err)
	}

	if err := d.client.Action.WaitFor(ctx, result.Action); err != nil {
		return "", fmt.Errorf("failed to wait for server creation: %w", err)
	}

	return strconv.FormatInt(result.Server.ID, 10), nil
}

// buildServerCreateOpts resolves flavor, image, key, networks, security
// groups and placement group references into hcloud create options.
func (d *HetznerDriver) buildServerCreateOpts(ctx context.Context, spec BuildSpec) (hcloud.ServerCreateOpts, error) {
	serverType, _, err := d.client.ServerType.Get(ctx, spec.Flavor)
	if err != nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get server type: %w", err)
	}
	if serverType == nil {
		return hcloud.ServerCreateOpts{}, fmt.Errorf("server type not found: %s", spec.Flavor)
	}

	image, err := d.resolveImage(ctx, spec, serverType)
	if err != nil {
		return hcloud.ServerCreateOpts{}, err
	}

	opts := hcloud.ServerCreateOpts{
		Name:       spec.Name,
		ServerType: serverType,
		Image:      image,
		UserData:   renderUserData(spec.BootConfig, spec.UserData),
	}

	if spec.KeyName != "" {
		key, _, err := d.client.SSHKey.Get(ctx, spec.KeyName)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get ssh key: %w", err)
		}
		if key == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("ssh key not found: %s", spec.KeyName)
		}
		opts.SSHKeys = []*hcloud.SSHKey{key}
	}

	if spec.AvailabilityZone != "" {
		loc, _, err := d.client.Location.Get(ctx, spec.AvailabilityZone)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get location: %w", err)
		}
		opts.Location = loc
	}

	// Hetzner has no standalone port primitive: attached port references
	// resolve to their parent network, so both lists become attachments.
	for _, raw := range append(append([]string{}, spec.NetworkIDs...), spec.PortIDs...) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid network id %q: %w", raw, err)
		}
		opts.Networks = append(opts.Networks, &hcloud.Network{ID: id})
	}

	for _, name := range spec.SecurityGroups {
		fw, _, err := d.client.Firewall.Get(ctx, name)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("failed to get firewall: %w", err)
		}
		if fw == nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("firewall not found: %s", name)
		}
		opts.Firewalls = append(opts.Firewalls, &hcloud.ServerCreateFirewall{Firewall: *fw})
	}

	if spec.PlacementGroupID != "" {
		id, err := strconv.ParseInt(spec.PlacementGroupID, 10, 64)
		if err != nil {
			return hcloud.ServerCreateOpts{}, fmt.Errorf("invalid placement group id %q: %w", spec.PlacementGroupID, err)
		}
		opts.PlacementGroup = &hcloud.PlacementGroup{ID: id}
	}

	return opts, nil
}

// resolveImage resolves the boot image by id when one is given, otherwise
// by tag label (newest first), optionally narrowed by owner label.
func (d *HetznerDriver) resolveImage(ctx context.Context, spec BuildSpec, serverType *hcloud.ServerType) (*hcloud.Image, error) {
	if spec.ImageID != "" {
		image, _, err := d.client.Image.Get(ctx, spec.ImageID)
		if err != nil {
			return nil, fmt.Errorf("failed to get image: %w", err)
		}
		if image == nil {
			return nil, fmt.Errorf("image not found: %s", spec.ImageID)
		}
		return image, nil
	}

	selector := "amphora-image=" + spec.ImageTag
	if spec.ImageOwner != "" {
		selector += ",owner=" + spec.ImageOwner
	}
	images, _, err := d.client.Image.List(ctx, hcloud.ImageListOpts{
		ListOpts:     hcloud.ListOpts{LabelSelector: selector},
		Architecture: []hcloud.Architecture{serverType.Architecture},
		Sort:         []string{"created:desc"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no image matches tag %q", spec.ImageTag)
	}
	return images[0], nil
}

// Delete removes the server. Deleting a server that is already gone succeeds.
func (d *HetznerDriver) Delete(ctx context.Context, instanceID string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeouts.Delete)
	defer cancel()

	id, err := strconv.ParseInt(instanceID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid instance id %q: %w", instanceID, err)
	}

	return retry.WithExponentialBackoff(ctx, func() error {
		server, _, err := d.client.Server.GetByID(ctx, id)
		if err != nil {
			return retry.Fatal(fmt.Errorf("failed to get server: %w", err))
		}
		if server == nil {
			return nil
		}
		if _, _, err := d.client.Server.DeleteWithResult(ctx, server); err != nil {
			if IsNotFound(err) {
				return nil
			}
			if isResourceLocked(err) {
				return err
			}
			return retry.Fatal(err)
		}
		return nil
	}, retry.WithMaxRetries(d.timeouts.RetryMaxAttempts), retry.WithInitialDelay(d.timeouts.RetryInitialDelay))
}

// Status reports the instance state, mapped onto the BUILDING/ACTIVE/ERROR
// tri-state the readiness poller works with.
func (d *HetznerDriver) Status(ctx context.Context, instanceID, managementNetwork string) (Instance, error) {
	id, err := strconv.ParseInt(instanceID, 10, 64)
	if err != nil {
		return Instance{}, fmt.Errorf("invalid instance id %q: %w", instanceID, err)
	}

	server, _, err := d.client.Server.GetByID(ctx, id)
	if err != nil {
		return Instance{}, fmt.Errorf("failed to get server: %w", err)
	}
	if server == nil {
		return Instance{ID: instanceID, State: StateError, Fault: "instance not found"}, nil
	}

	inst := Instance{
		ID:    instanceID,
		State: mapServerStatus(server.Status),
	}
	if inst.State == StateError {
		inst.Fault = fmt.Sprintf("server in status %s", server.Status)
	}
	if managementNetwork != "" {
		if netID, err := strconv.ParseInt(managementNetwork, 10, 64); err == nil {
			for _, pn := range server.PrivateNet {
				if pn.Network != nil && pn.Network.ID == netID {
					inst.ManagementIP = pn.IP.String()
					break
				}
			}
		}
	}
	return inst, nil
}

// mapServerStatus folds hcloud's server statuses onto the poller tri-state.
func mapServerStatus(s hcloud.ServerStatus) InstanceState {
	switch s {
	case hcloud.ServerStatusRunning:
		return StateActive
	case hcloud.ServerStatusInitializing, hcloud.ServerStatusStarting,
		hcloud.ServerStatusOff, hcloud.ServerStatusMigrating,
		hcloud.ServerStatusRebuilding:
		return StateBuilding
	default:
		return StateError
	}
}

// CreatePlacementGroup allocates an anti-affinity group.
func (d *HetznerDriver) CreatePlacementGroup(ctx context.Context, name, policy string) (string, error) {
	res, _, err := d.client.PlacementGroup.Create(ctx, hcloud.PlacementGroupCreateOpts{
		Name: name,
		Type: hcloud.PlacementGroupType(policy),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create placement group: %w", err)
	}
	if res.Action != nil {
		if err := d.client.Action.WaitFor(ctx, res.Action); err != nil {
			return "", fmt.Errorf("failed to wait for placement group creation: %w", err)
		}
	}
	return strconv.FormatInt(res.PlacementGroup.ID, 10), nil
}

// DeletePlacementGroup removes the group. Not-found is success.
func (d *HetznerDriver) DeletePlacementGroup(ctx context.Context, groupID string) error {
	id, err := strconv.ParseInt(groupID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid placement group id %q: %w", groupID, err)
	}

	group, _, err := d.client.PlacementGroup.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get placement group: %w", err)
	}
	if group == nil {
		return nil
	}
	if _, err := d.client.PlacementGroup.Delete(ctx, group); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete placement group: %w", err)
	}
	return nil
}

// renderUserData folds boot-config files into a cloud-config payload.
// Pre-rendered user data wins when the caller supplied it (it already
// embeds the boot-config files in that case). Files are emitted in path
// order so the output is stable.
func renderUserData(bootConfig map[string]string, userData string) string {
	if userData != "" || len(bootConfig) == 0 {
		return userData
	}

	paths := make([]string, 0, len(bootConfig))
	for p := range bootConfig {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("#cloud-config\nwrite_files:\n")
	for _, p := range paths {
		fmt.Fprintf(&b, "  - path: %s\n    permissions: \"0600\"\n    encoding: b64\n    content: %s\n",
			p, base64.StdEncoding.EncodeToString([]byte(bootConfig[p])))
	}
	return b.String()
}
