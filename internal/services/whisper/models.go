package whisper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"xscribe/internal/services"
)

// modelFiles maps size/quality selectors to ggml model filenames.
var modelFiles = map[string]string{
	"tiny":     "ggml-tiny.bin",
	"base":     "ggml-base.bin",
	"small":    "ggml-small.bin",
	"medium":   "ggml-medium.bin",
	"large-v3": "ggml-large-v3.bin",
}

const defaultModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// ModelSizes returns the accepted size selectors in stable order.
func ModelSizes() []string {
	sizes := make([]string, 0, len(modelFiles))
	for size := range modelFiles {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

// ModelStore resolves and fetches speech models into a local cache directory.
// Concurrent invocations coordinate through a file lock so a model is never
// downloaded twice or read half-written.
type ModelStore struct {
	dir     string
	baseURL string
	client  *http.Client
}

// StoreOption configures a ModelStore.
type StoreOption func(*ModelStore)

// WithBaseURL overrides the model download location (for tests).
func WithBaseURL(baseURL string) StoreOption {
	return func(m *ModelStore) {
		if baseURL != "" {
			m.baseURL = baseURL
		}
	}
}

// WithHTTPClient overrides the download client.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(m *ModelStore) {
		if client != nil {
			m.client = client
		}
	}
}

// NewModelStore creates a store rooted at dir.
func NewModelStore(dir string, opts ...StoreOption) *ModelStore {
	store := &ModelStore{
		dir:     dir,
		baseURL: defaultModelBaseURL,
		client:  &http.Client{Timeout: 30 * time.Minute},
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Path resolves the on-disk location for a model size without fetching it.
func (m *ModelStore) Path(size string) (string, error) {
	file, ok := modelFiles[strings.TrimSpace(size)]
	if !ok {
		return "", services.Wrap(services.ErrConfiguration, "whisper", "model",
			fmt.Sprintf("unknown model size %q (expected one of %s)", size, strings.Join(ModelSizes(), ", ")), nil)
	}
	return filepath.Join(m.dir, file), nil
}

// Cached reports whether the model is already present locally.
func (m *ModelStore) Cached(size string) bool {
	path, err := m.Path(size)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

// Ensure returns the local path for size, downloading the model first when
// absent. The download lands in a temp file and is renamed into place so a
// partial fetch never looks like a usable model.
func (m *ModelStore) Ensure(ctx context.Context, size string) (string, error) {
	path, err := m.Path(size)
	if err != nil {
		return "", err
	}
	if m.Cached(size) {
		return path, nil
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create model cache: %w", err)
	}

	lock := flock.New(filepath.Join(m.dir, ".download.lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock model cache: %w", err)
	}
	defer lock.Unlock()

	// Another invocation may have fetched it while we waited on the lock.
	if m.Cached(size) {
		return path, nil
	}

	if err := m.download(ctx, size, path); err != nil {
		return "", services.Wrap(services.ErrEngine, "whisper", "fetch model", size, err)
	}
	return path, nil
}

func (m *ModelStore) download(ctx context.Context, size, dest string) error {
	url := m.baseURL + modelFiles[size]
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(m.dir, "."+modelFiles[size]+".partial-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
