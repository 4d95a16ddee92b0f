// Package upload abstracts where submitted files and attachments are kept.
// The default is the local uploads/ directory served statically; Cloudinary
// can be configured for hosted deployments.
package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/cloudinary"
)

// Storage persists a file and returns the URL clients can fetch it from.
type Storage interface {
	Save(data []byte, filename string) (url string, err error)
}

// Local writes files under Dir with uuid-prefixed names.
type Local struct {
	Dir string
}

// NewLocal ensures the upload directory exists.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create dir: %w", err)
	}
	return &Local{Dir: dir}, nil
}

// Save writes the file and returns its /uploads path.
func (l *Local) Save(data []byte, filename string) (string, error) {
	name := uuid.NewString() + "_" + sanitize(filename)
	if err := os.WriteFile(filepath.Join(l.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("upload: write file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Cloudinary stores files in a Cloudinary folder.
type Cloudinary struct {
	Client *cloudinary.Client
}

// Save uploads the file and returns its public URL.
func (c *Cloudinary) Save(data []byte, filename string) (string, error) {
	res, err := c.Client.UploadBytes(data, filename)
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}
