package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/beneficios-api/internal/domain"
	"github.com/jhoicas/beneficios-api/internal/domain/entity"
	"github.com/jhoicas/beneficios-api/internal/domain/repository"
)

var _ repository.RosterStore = (*RosterRepo)(nil)

// RosterRepo nómina guardada como un blob JSON bajo una clave.
type RosterRepo struct {
	kv       repository.KVStore
	key      string
	validate *validator.Validate
}

// NewRosterRepository construye el adaptador de la nómina.
func NewRosterRepository(kv repository.KVStore, key string) *RosterRepo {
	return &RosterRepo{kv: kv, key: key, validate: newValidator()}
}

// LoadRoster lee la nómina completa. Clave ausente = nómina vacía.
// Un blob que no pasa la validación se reporta como domain.ErrCorruptData.
func (r *RosterRepo) LoadRoster(ctx context.Context) ([]entity.BenefitRecord, error) {
	blob, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []entity.BenefitRecord{}, nil
		}
		return nil, fmt.Errorf("leer %s: %w", r.key, err)
	}
	docs, err := decodeArray[recordDoc](blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, r.key, err)
	}
	for i := range docs {
		docs[i].TipoContrato = normalizeTipoContrato(docs[i].TipoContrato)
		if strings.TrimSpace(docs[i].Estado) == "" {
			docs[i].Estado = string(entity.EstadoPendiente)
		}
	}
	if err := validateAll(r.validate, docs); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptData, r.key, err)
	}
	out := make([]entity.BenefitRecord, len(docs))
	for i, d := range docs {
		out[i] = d.entity()
	}
	return out, nil
}

// SaveRoster reemplaza la nómina completa. Registros inválidos se rechazan sin escribir nada.
// Si dos registros comparten RUT normalizado se conserva el primero, igual que FindByRut.
func (r *RosterRepo) SaveRoster(ctx context.Context, records []entity.BenefitRecord) error {
	docs := make([]recordDoc, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		key := rec.Key()
		if prev, dup := seen[key]; dup {
			log.Warn().Str("rut", rec.Rut).Int("elemento", i).Int("conservado", prev).
				Msg("rut repetido en la nómina, se descarta")
			continue
		}
		seen[key] = i
		docs = append(docs, toRecordDoc(rec))
	}
	if err := validateAll(r.validate, docs); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	blob, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("serializar nómina: %w", err)
	}
	if err := r.kv.Set(ctx, r.key, blob); err != nil {
		return fmt.Errorf("guardar %s: %w", r.key, err)
	}
	return nil
}
