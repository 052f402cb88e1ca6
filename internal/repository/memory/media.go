package memory

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/videotube/videotube/internal/storage"
)

const mediaBaseURL = "memory://media/"

// MediaStorage keeps uploaded objects in a map keyed by their URL.
type MediaStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	next    int
}

func NewMediaStorage() *MediaStorage {
	return &MediaStorage{objects: make(map[string][]byte)}
}

func (m *MediaStorage) Upload(_ context.Context, folder string, file storage.File) (string, error) {
	var data []byte
	if file.Body != nil {
		var err error
		if data, err = io.ReadAll(file.Body); err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	url := fmt.Sprintf("%s%s/%d%s", mediaBaseURL, folder, m.next, filepath.Ext(file.Name))
	m.objects[url] = data
	return url, nil
}

func (m *MediaStorage) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, url)
	return nil
}

func (m *MediaStorage) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.objects[url]
	return ok
}
