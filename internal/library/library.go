package library

import (
	"context"
	"strings"
)

// Library is one candidate destination library on the video host.
type Library struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Collection is a sub-collection inside a library.
type Collection struct {
	GUID string `json:"guid"`
	Name string `json:"name"`
}

// Directory supplies the current candidate library list for matching.
type Directory interface {
	Libraries(ctx context.Context) ([]Library, error)
}

// StaticDirectory is a Directory backed by a fixed slice. Useful for tests
// and for offline matching against a cached library list.
type StaticDirectory []Library

func (d StaticDirectory) Libraries(ctx context.Context) ([]Library, error) {
	return append([]Library(nil), d...), nil
}

// FindByName returns the first library whose name matches case-insensitively.
func FindByName(libraries []Library, name string) (Library, bool) {
	for _, lib := range libraries {
		if strings.EqualFold(lib.Name, name) {
			return lib, true
		}
	}
	return Library{}, false
}
