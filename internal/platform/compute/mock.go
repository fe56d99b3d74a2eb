package compute

import "context"

// MockDriver is a function-field test double for Driver. Unset fields fall
// back to a happy-path default.
type MockDriver struct {
	BuildFunc                func(ctx context.Context, spec BuildSpec) (string, error)
	DeleteFunc               func(ctx context.Context, instanceID string) error
	StatusFunc               func(ctx context.Context, instanceID, managementNetwork string) (Instance, error)
	CreatePlacementGroupFunc func(ctx context.Context, name, policy string) (string, error)
	DeletePlacementGroupFunc func(ctx context.Context, groupID string) error
}

var _ Driver = (*MockDriver)(nil)

// Build mocks instance creation.
func (m *MockDriver) Build(ctx context.Context, spec BuildSpec) (string, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, spec)
	}
	return "mock-compute-id", nil
}

// Delete mocks instance deletion.
func (m *MockDriver) Delete(ctx context.Context, instanceID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, instanceID)
	}
	return nil
}

// Status mocks a status query; the default reports the instance active.
func (m *MockDriver) Status(ctx context.Context, instanceID, managementNetwork string) (Instance, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, instanceID, managementNetwork)
	}
	return Instance{ID: instanceID, State: StateActive}, nil
}

// CreatePlacementGroup mocks group creation.
func (m *MockDriver) CreatePlacementGroup(ctx context.Context, name, policy string) (string, error) {
	if m.CreatePlacementGroupFunc != nil {
		return m.CreatePlacementGroupFunc(ctx, name, policy)
	}
	return "mock-group-id", nil
}

// DeletePlacementGroup mocks group deletion.
func (m *MockDriver) DeletePlacementGroup(ctx context.Context, groupID string) error {
	if m.DeletePlacementGroupFunc != nil {
		return m.DeletePlacementGroupFunc(ctx, groupID)
	}
	return nil
}
