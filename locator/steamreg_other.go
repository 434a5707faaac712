//go:build !windows

package locator

// steamInstallDir has no registry to consult outside Windows.
func steamInstallDir() (string, error) {
	return "", errSteamNotInstalled
}
