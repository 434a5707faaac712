//go:build windows

package locator

import (
	"golang.org/x/sys/windows/registry"
)

// steamInstallDir returns the Steam install directory recorded in the registry.
func steamInstallDir() (string, error) {
	// Try 64-bit registry first
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Wow6432Node\Valve\Steam`, registry.QUERY_VALUE)
	if err != nil {
		key, err = registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Valve\Steam`, registry.QUERY_VALUE)
		if err != nil {
			return "", errSteamNotInstalled
		}
	}
	defer key.Close()

	steamPath, _, err := key.GetStringValue("InstallPath")
	if err != nil || steamPath == "" {
		return "", errSteamNotInstalled
	}
	return steamPath, nil
}
