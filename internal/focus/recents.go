package focus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

const recentLimit = 3

// Recents remembers the most recently used template ids, newest first.
type Recents struct {
	mu  sync.Mutex
	ids []string
}

func NewRecents(ids ...string) *Recents {
	r := &Recents{}
	for i := len(ids) - 1; i >= 0; i-- {
		r.Touch(ids[i])
	}
	return r
}

// Touch moves id to the front, dropping duplicates and anything past the limit.
func (r *Recents) Touch(id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := slices.DeleteFunc(r.ids, func(existing string) bool { return existing == id })
	ids = append([]string{id}, ids...)
	if len(ids) > recentLimit {
		ids = ids[:recentLimit]
	}
	r.ids = ids
}

func (r *Recents) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = slices.DeleteFunc(r.ids, func(existing string) bool { return existing == id })
}

func (r *Recents) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.ids)
}

type recentsFile struct {
	TemplateIDs []string `json:"template_ids"`
}

// LoadRecents reads a recents file. A missing file yields an empty list.
func LoadRecents(path string) (*Recents, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewRecents(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read recents: %w", err)
	}

	var file recentsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode recents: %w", err)
	}
	return NewRecents(file.TemplateIDs...), nil
}

func (r *Recents) Save(path string) error {
	data, err := json.MarshalIndent(recentsFile{TemplateIDs: r.IDs()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recents: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create recents dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write recents: %w", err)
	}
	return nil
}
