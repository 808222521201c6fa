package fs

import (
	"os"
	"os/user"
	"path/filepath"
)

// StorefrontDir retrieves the directory storefrontd keeps its data in,
// ~/.storefrontd by default.
func StorefrontDir() (string, error) {
	var dir string
	// By default, store data files in current users home directory
	u, err := user.Current()
	if err == nil {
		dir = u.HomeDir
	} else if home := os.Getenv("HOME"); home != "" {
		dir = home
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	dir = filepath.Join(dir, ".storefrontd")

	return dir, nil
}

// BoltFile returns the default path of the bolt file.
func BoltFile() (string, error) {
	dir, err := StorefrontDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storefront.bolt"), nil
}
