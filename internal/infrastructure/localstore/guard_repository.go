package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

var _ repository.GuardDirectory = (*GuardRepo)(nil)

// GuardRepo directorio de guardias guardado como un blob JSON bajo una clave.
type GuardRepo struct {
	kv       repository.KVStore
	key      string
	validate *validator.Validate
}

// NewGuardRepository construye el adaptador del directorio de guardias.
func NewGuardRepository(kv repository.KVStore, key string) *GuardRepo {
	return &GuardRepo{kv: kv, key: key, validate: newValidator()}
}

// LoadGuards lee los guardias. Clave ausente = directorio vacío.
func (r *GuardRepo) LoadGuards(ctx context.Context) ([]entity.GuardAccount, error) {
	blob, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []entity.GuardAccount{}, nil
		}
		return nil, fmt.Errorf("leer %s: %w", r.key, err)
	}
	docs, err := decodeArray[guardDoc](blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, r.key, err)
	}
	if err := validateAll(r.validate, docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, r.key, err)
	}
	out := make([]entity.GuardAccount, len(docs))
	for i, d := range docs {
		out[i] = d.entity()
	}
	return out, nil
}

// SaveGuards reemplaza el directorio completo.
func (r *GuardRepo) SaveGuards(ctx context.Context, guards []entity.GuardAccount) error {
	docs := make([]guardDoc, len(guards))
	for i, g := range guards {
		docs[i] = toGuardDoc(g)
	}
	if err := validateAll(r.validate, docs); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	blob, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("serializar guardias: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, blob); err != nil {
		return fmt.Errorf("guardar %s: %w", r.key, err)
	}
	return nil
}

// GuardsPresent indica si la clave de guardias existe (aunque el arreglo esté vacío).
func (r *GuardRepo) GuardsPresent(ctx context.Context) (bool, error) {
	return r.kv.Exists(ctx, r.key)
}
