package handlers

import "testing"

// saveAndRestoreFactories snapshots the factory function variables and
// restores them after the test, so tests can swap them freely.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()

	origLoadConfigFile := loadConfigFile
	origNewComputeDriver := newComputeDriver
	origNewProvisioner := newProvisioner
	origNewAmphoraID := newAmphoraID
	origNewDestroyer := newDestroyer
	origFileExists := fileExists
	origRunWizard := runWizard
	origWriteConfig := writeConfig

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		newComputeDriver = origNewComputeDriver
		newProvisioner = origNewProvisioner
		newAmphoraID = origNewAmphoraID
		newDestroyer = origNewDestroyer
		fileExists = origFileExists
		runWizard = origRunWizard
		writeConfig = origWriteConfig
	})
}
