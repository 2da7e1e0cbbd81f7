package repository

import "context"

// KVStore almacén clave/valor de blobs. Get devuelve domain.ErrNotFound si la clave no existe.
// Set reemplaza el valor completo en una sola operación (sin escrituras parciales).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Exists(ctx context.Context, key string) (bool, error)
	Close() error
}
