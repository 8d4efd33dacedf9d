package adjustment_test

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

// memStore repositorios en memoria con tx de mentira: snapshot al inicio, restore si fn falla.
// Las tx se serializan con txMu, equivalente al bloqueo de fila de FOR UPDATE.
type memStore struct {
	txMu        sync.Mutex
	mu          sync.Mutex
	adjustments map[string]*entity.Adjustment
	projects    map[string]*entity.Project
	audit       []*entity.AuditLog
	// updateHook se ejecuta antes de comparar la versión (simula un escritor concurrente).
	updateHook func(id string)
}

func newMemStore() *memStore {
	return &memStore{
		adjustments: map[string]*entity.Adjustment{},
		projects:    map[string]*entity.Project{},
	}
}

func (s *memStore) RunAdjustments(ctx context.Context, fn func(
	adjRepo repository.AdjustmentRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := make(map[string]*entity.Adjustment, len(s.adjustments))
	for k, v := range s.adjustments {
		snapshot[k] = v.Clone()
	}
	auditLen := len(s.audit)
	s.mu.Unlock()

	if err := fn(memAdjustments{s}, memAudit{s}); err != nil {
		s.mu.Lock()
		s.adjustments = snapshot
		s.audit = s.audit[:auditLen]
		s.mu.Unlock()
		return err
	}
	return nil
}

type memAdjustments struct{ s *memStore }

func (r memAdjustments) Create(_ context.Context, a *entity.Adjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.adjustments[a.ID]; ok {
		return domain.ErrDuplicate
	}
	a.Version = 1
	r.s.adjustments[a.ID] = a.Clone()
	return nil
}

func (r memAdjustments) GetByID(_ context.Context, id string) (*entity.Adjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.adjustments[id]
	if !ok {
		return nil, nil
	}
	return a.Clone(), nil
}

func (r memAdjustments) GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error) {
	return r.GetByID(ctx, id)
}

func (r memAdjustments) Update(_ context.Context, a *entity.Adjustment, expectedVersion int) error {
	if r.s.updateHook != nil {
		r.s.updateHook(a.ID)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.adjustments[a.ID]
	if !ok || cur.Version != expectedVersion {
		return domain.ErrConflict
	}
	a.Version = expectedVersion + 1
	r.s.adjustments[a.ID] = a.Clone()
	return nil
}

func (r memAdjustments) ListByProject(_ context.Context, projectID string, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Adjustment
	for _, a := range r.s.adjustments {
		if a.ProjectID != projectID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r memAdjustments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.adjustments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.adjustments, id)
	return nil
}

type memAudit struct{ s *memStore }

func (r memAudit) Create(_ context.Context, l *entity.AuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, l)
	return nil
}

func (r memAudit) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AuditLog
	for _, l := range r.s.audit {
		if l.EntityType == entityType && l.EntityID == entityID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memProjects struct{ s *memStore }

func (r memProjects) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

func (r memProjects) GetByID(_ context.Context, id string) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r memProjects) Update(ctx context.Context, p *entity.Project) error {
	return r.Create(ctx, p)
}

func (r memProjects) ListByFirm(_ context.Context, firmID string, _, _ int) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.s.projects {
		if p.FirmID == firmID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memProjects) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	return nil
}

// lockerSpy registra las claves bloqueadas y puede simular un lock ocupado.
type lockerSpy struct {
	mu   sync.Mutex
	keys []string
	busy bool
}

func (l *lockerSpy) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return nil, domain.ErrConflict
	}
	l.keys = append(l.keys, key)
	return func() {}, nil
}
