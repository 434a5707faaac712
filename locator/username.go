package locator

import (
	"os"
	"os/user"
	"strings"
)

// currentUsername returns the account name used under C:\Users.
func currentUsername() (string, error) {
	if name := os.Getenv("USERNAME"); name != "" {
		return name, nil
	}

	u, err := user.Current()
	if err != nil {
		return "", err
	}
	name := u.Username
	// DOMAIN\user on Windows
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	return name, nil
}
