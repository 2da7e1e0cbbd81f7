// Package memory implementa el almacén clave/valor y el aviso de cambios dentro del proceso.
// Sirve para tests y para correr el portal sin disco.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

var _ repository.KVStore = (*KVStore)(nil)

// KVStore mapa protegido por mutex. Guarda copias para que nadie comparta el slice.
type KVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewKVStore crea un almacén vacío.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.data[key] = append([]byte(nil), value...)
	s.mu.Unlock()
	return nil
}

func (s *KVStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok, nil
}

func (s *KVStore) Close() error { return nil }
