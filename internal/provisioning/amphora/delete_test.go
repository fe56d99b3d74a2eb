package amphora

import (
	"context"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbforge/amphorad/internal/platform/compute"
	"github.com/lbforge/amphorad/internal/repository"
)

func TestComputeDelete(t *testing.T) {
	t.Parallel()
	deleted := []string{}
	driver := &compute.MockDriver{
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}

	task := NewComputeDelete(driver, logr.Discard(), "amp-1", "compute-42")
	id, err := task.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "compute-42", id)
	assert.Equal(t, []string{"compute-42"}, deleted)
}

func TestComputeDelete_FailurePropagates(t *testing.T) {
	t.Parallel()
	driver := &compute.MockDriver{
		DeleteFunc: func(context.Context, string) error { return assert.AnError },
	}

	task := NewComputeDelete(driver, logr.Discard(), "amp-1", "compute-42")
	_, err := task.Execute(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAmphoraeTeardown(t *testing.T) {
	t.Parallel()
	repo := repository.NewInMemory()
	repo.Register("lb-1", "compute-1")
	repo.Register("lb-1", "compute-2")
	repo.Register("lb-1", "compute-3")

	deleted := []string{}
	driver := &compute.MockDriver{
		DeleteFunc: func(_ context.Context, id string) error {
			deleted = append(deleted, id)
			return nil
		},
	}

	task := NewAmphoraeTeardown(driver, repo, logr.Discard(), "lb-1")
	count, err := task.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"compute-1", "compute-2", "compute-3"}, deleted)
}

func TestAmphoraeTeardown_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()
	repo := repository.NewInMemory()
	repo.Register("lb-1", "compute-1")
	repo.Register("lb-1", "compute-2")
	repo.Register("lb-1", "compute-3")

	attempted := []string{}
	driver := &compute.MockDriver{
		DeleteFunc: func(_ context.Context, id string) error {
			attempted = append(attempted, id)
			if id == "compute-2" {
				return assert.AnError
			}
			return nil
		},
	}

	task := NewAmphoraeTeardown(driver, repo, logr.Discard(), "lb-1")
	count, err := task.Execute(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, count, "only the first delete completed")
	assert.Equal(t, []string{"compute-1", "compute-2"}, attempted,
		"the third handle must never be attempted")
}

func TestAmphoraeTeardown_UnknownLoadBalancer(t *testing.T) {
	t.Parallel()
	driver := &compute.MockDriver{
		DeleteFunc: func(context.Context, string) error {
			t.Fatal("no handles to delete")
			return nil
		},
	}

	task := NewAmphoraeTeardown(driver, repository.NewInMemory(), logr.Discard(), "lb-missing")
	_, err := task.Execute(context.Background())
	assert.Error(t, err)
}
