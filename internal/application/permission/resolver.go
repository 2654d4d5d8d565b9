// Package permission resuelve los permisos de un rol dentro de una empresa
// con una caché local de vida limitada.
package permission

import (
	"context"
	"fmt"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
	"github.com/expertzappdev/bizfree-backend/pkg/metrics"
)

// DefaultTTL vida de una entrada de la caché.
const DefaultTTL = 5 * time.Minute

const defaultSize = 1024

// lookupTimeout tope de la consulta compartida.
const lookupTimeout = 10 * time.Second

// Resolver devuelve el conjunto de permisos de (rol, empresa).
// Las entradas no se invalidan al escribir permisos: pueden quedar obsoletas hasta ttl.
type Resolver struct {
	repo  repository.PermissionRepository
	cache *lru.LRU[string, []string]
	group singleflight.Group
}

// NewResolver crea el resolver. ttl <= 0 usa DefaultTTL; size <= 0 usa 1024 entradas.
func NewResolver(repo repository.PermissionRepository, ttl time.Duration, size int) *Resolver {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if size <= 0 {
		size = defaultSize
	}
	return &Resolver{
		repo:  repo,
		cache: lru.NewLRU[string, []string](size, nil, ttl),
	}
}

// Resolve devuelve los nombres de permiso ordenados y sin duplicados.
// Con roleID o companyID en 0 devuelve un conjunto vacío sin error.
func (r *Resolver) Resolve(ctx context.Context, roleID, companyID int64) ([]string, error) {
	if roleID == 0 || companyID == 0 {
		return []string{}, nil
	}
	key := fmt.Sprintf("%d:%d", roleID, companyID)
	if names, ok := r.cache.Get(key); ok {
		metrics.PermissionCache.WithLabelValues("hit").Inc()
		return clone(names), nil
	}
	metrics.PermissionCache.WithLabelValues("miss").Inc()

	// Fallos simultáneos sobre la misma clave comparten una sola consulta. La
	// consulta no hereda la cancelación de quien la inició; cada llamador espera
	// con su propio contexto.
	ch := r.group.DoChan(key, func() (interface{}, error) {
		if names, ok := r.cache.Get(key); ok {
			return names, nil
		}
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		names, err := r.repo.ListNames(lookupCtx, roleID, companyID)
		if err != nil {
			return nil, domain.Storage("no se pudieron cargar los permisos", err)
		}
		names = normalize(names)
		r.cache.Add(key, names)
		return names, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]string)), nil
	}
}

// Len número de entradas vivas en la caché.
func (r *Resolver) Len() int {
	return r.cache.Len()
}

func normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func clone(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}
