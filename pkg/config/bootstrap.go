package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	camerasPlaceholder = "# Enter one camera address per line (http(s)://ip:port)\n"
	emailsPlaceholder  = "# Enter one email address per line\n"
	statusPlaceholder  = "{}"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Bootstrap makes sure dir and its three data files exist, writing
// placeholder content only for files that are absent.
func Bootstrap(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: %w", ErrBootstrap, err)
	}

	files := []struct {
		name    string
		content string
	}{
		{CamerasFile, camerasPlaceholder},
		{EmailsFile, emailsPlaceholder},
		{StatusFile, statusPlaceholder},
	}

	for _, f := range files {
		if err := createIfNotExists(filepath.Join(dir, f.name), f.content); err != nil {
			return fmt.Errorf("%w: %w", ErrBootstrap, err)
		}
	}

	return nil
}

func createIfNotExists(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}

		return err
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()

		return err
	}

	return f.Close()
}
