package asset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localManager implements Manager on the local filesystem.
type localManager struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalManager creates an asset manager that writes uploads under dir
// and returns references prefixed with baseURL.
func NewLocalManager(dir, baseURL string, logger zerolog.Logger) (Manager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "local-asset-manager").Logger()
	logger.Info().Str("dir", dir).Msg("local asset manager initialised")

	return &localManager{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// Store writes the upload to disk under a generated name. The partially
// written file is removed if the copy fails.
func (m *localManager) Store(ctx context.Context, upload Upload) (string, error) {
	name := objectName(upload.Filename)
	fullPath := filepath.Join(m.dir, name)

	f, err := os.Create(fullPath)
	if err != nil {
		m.logger.Error().Err(err).Str("path", fullPath).Msg("failed to create asset file")
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}

	if _, err := io.Copy(f, upload.Body); err != nil {
		f.Close()
		os.Remove(fullPath)
		m.logger.Error().Err(err).Str("path", fullPath).Msg("failed to write asset file")
		return "", fmt.Errorf("failed to write asset file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to close asset file: %w", err)
	}

	ref := path.Join(m.baseURL, name)
	m.logger.Debug().Str("ref", ref).Msg("asset stored")

	return ref, nil
}

// Delete removes the file the reference points at. Only the final path
// element is honoured, so a reference can never escape the upload directory.
func (m *localManager) Delete(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid asset reference: %s", ref)
	}

	fullPath := filepath.Join(m.dir, name)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			m.logger.Debug().Str("ref", ref).Msg("asset already absent")
			return nil
		}
		return fmt.Errorf("failed to delete asset %s: %w", ref, err)
	}

	m.logger.Debug().Str("ref", ref).Msg("asset deleted")
	return nil
}
