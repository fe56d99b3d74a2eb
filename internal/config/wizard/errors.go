package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errFlavorRequired   = errors.New("a compute flavor is required")
	errImageTagRequired = errors.New("an image tag is required")
	errLimitInvalid     = errors.New("build limit must be a positive integer or \"unlimited\"")
	errNetworksRequired = errors.New("at least one boot network is required")
)
