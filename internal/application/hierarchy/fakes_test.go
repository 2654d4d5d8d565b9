package hierarchy_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/expertzappdev/bizfree-backend/internal/application/hierarchy"
	"github.com/expertzappdev/bizfree-backend/internal/application/ports"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
	"github.com/expertzappdev/bizfree-backend/internal/domain/access"
	"github.com/expertzappdev/bizfree-backend/internal/domain/entity"
	"github.com/expertzappdev/bizfree-backend/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Store en memoria con transacciones por instantánea
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu        sync.Mutex
	nextID    int64
	companies map[int64]*entity.Company
	creds     map[int64]*entity.Credential
	projects  map[int64]*entity.Project
	members   []*entity.ProjectMember
	lists     map[int64]*entity.TaskList
	tasks     map[int64]*entity.Task
	statuses  map[int64]*entity.TaskStatus
	docs      map[int64]*entity.Document

	failDocCascade error
	// lockedReads lecturas con bloqueo de fila (GetByIDForUpdate).
	lockedReads int
	// beforeStatusDelete corre entre el conteo de referencias y el borrado.
	beforeStatusDelete func()
}

func newMemStore() *memStore {
	return &memStore{
		nextID:    1000,
		companies: map[int64]*entity.Company{},
		creds:     map[int64]*entity.Credential{},
		projects:  map[int64]*entity.Project{},
		lists:     map[int64]*entity.TaskList{},
		tasks:     map[int64]*entity.Task{},
		statuses:  map[int64]*entity.TaskStatus{},
		docs:      map[int64]*entity.Document{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) task(id int64) entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.tasks[id]
}

func (s *memStore) doc(id int64) entity.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.docs[id]
}

func (s *memStore) list(id int64) entity.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.lists[id]
}

type companyRepo struct{ s *memStore }

func (r companyRepo) GetByID(_ context.Context, id int64) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type credRepo struct{ s *memStore }

func (r credRepo) FindByID(_ context.Context, id int64) (*entity.Credential, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.creds[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (credRepo) FindActiveByEmail(context.Context, string) (*entity.Credential, error) {
	return nil, nil
}
func (credRepo) SetRefreshToken(context.Context, int64, *string, *time.Time) error { return nil }
func (credRepo) RotateRefreshToken(context.Context, int64, string, string, time.Time, time.Time) (bool, error) {
	return false, nil
}
func (credRepo) UpdatePassword(context.Context, int64, string, time.Time) error { return nil }
func (credRepo) ConsumeResetToken(context.Context, string, string, string, time.Time) (bool, error) {
	return false, nil
}

type projectRepo struct{ s *memStore }

func (r projectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id()
	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

func (r projectRepo) GetByID(_ context.Context, id int64) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r projectRepo) isMember(projectID, userID int64) bool {
	for _, m := range r.s.members {
		if m.ProjectID == projectID && m.UserID == userID && !m.IsDeleted {
			return true
		}
	}
	return false
}

func (r projectRepo) List(_ context.Context, scope access.Scope, limit, offset int) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Project
	for _, p := range r.s.projects {
		if p.IsDeleted {
			continue
		}
		t := access.Target{CompanyID: p.CompanyID, IsMember: scope.MemberUserID != 0 && r.isMember(p.ID, scope.MemberUserID)}
		if scope.Allows(t) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r projectRepo) IsMember(_ context.Context, projectID, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.isMember(projectID, userID), nil
}

func (r projectRepo) AddMember(_ context.Context, m *entity.ProjectMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	cp := *m
	r.s.members = append(r.s.members, &cp)
	return nil
}

type listRepo struct{ s *memStore }

func (r listRepo) Create(_ context.Context, l *entity.TaskList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l.ID = r.s.id()
	cp := *l
	r.s.lists[l.ID] = &cp
	return nil
}

func (r listRepo) GetByID(_ context.Context, id int64) (*entity.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r listRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.TaskList, error) {
	r.s.mu.Lock()
	r.s.lockedReads++
	r.s.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r listRepo) ListByProject(_ context.Context, projectID int64) ([]*entity.TaskList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TaskList
	for _, l := range r.s.lists {
		if l.ProjectID == projectID && !l.IsDeleted {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r listRepo) SoftDelete(_ context.Context, id, _ int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lists[id].IsDeleted = true
	return nil
}

type taskRepo struct{ s *memStore }

func (r taskRepo) Create(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t.ID = r.s.id()
	cp := *t
	r.s.tasks[t.ID] = &cp
	return nil
}

func (r taskRepo) GetByID(_ context.Context, id int64) (*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r taskRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Task, error) {
	r.s.mu.Lock()
	r.s.lockedReads++
	r.s.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r taskRepo) Update(_ context.Context, t *entity.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.tasks[t.ID] = &cp
	return nil
}

func (r taskRepo) ListByTaskList(_ context.Context, listID int64, _ access.Scope) ([]*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Task
	for _, t := range r.s.tasks {
		if t.List() == listID && !t.IsDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r taskRepo) ListByProject(_ context.Context, projectID int64) ([]*entity.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Task
	for _, t := range r.s.tasks {
		if t.ProjectID == projectID && !t.IsDeleted {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r taskRepo) SubTaskIDs(_ context.Context, parentID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []int64
	for _, t := range r.s.tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == parentID && !t.IsDeleted {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func (r taskRepo) IDsByTaskList(_ context.Context, listID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []int64
	for _, t := range r.s.tasks {
		if t.List() == listID && !t.IsDeleted {
			out = append(out, t.ID)
		}
	}
	return out, nil
}

func (r taskRepo) SoftDeleteMany(_ context.Context, ids []int64, by int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if t, ok := r.s.tasks[id]; ok && !t.IsDeleted {
			t.IsDeleted = true
			t.UpdatedBy = by
			n++
		}
	}
	return n, nil
}

type statusRepo struct{ s *memStore }

func (r statusRepo) Create(_ context.Context, st *entity.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st.ID = r.s.id()
	cp := *st
	r.s.statuses[st.ID] = &cp
	return nil
}

func (r statusRepo) GetByID(_ context.Context, id int64) (*entity.TaskStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.statuses[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r statusRepo) ListByCompany(_ context.Context, companyID int64) ([]*entity.TaskStatus, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TaskStatus
	for _, st := range r.s.statuses {
		if st.CompanyID == companyID {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r statusRepo) CountReferences(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, t := range r.s.tasks {
		if t.StatusID != nil && *t.StatusID == id {
			n++
		}
	}
	return n, nil
}

// Delete respeta la clave foránea tasks.status_id como la base real.
func (r statusRepo) Delete(_ context.Context, id int64) error {
	if r.s.beforeStatusDelete != nil {
		r.s.beforeStatusDelete()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tasks {
		if t.StatusID != nil && *t.StatusID == id {
			return domain.Conflict("el estado está en uso por tareas")
		}
	}
	delete(r.s.statuses, id)
	return nil
}

type docRepo struct{ s *memStore }

func (r docRepo) Create(_ context.Context, d *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.ID = r.s.id()
	cp := *d
	r.s.docs[d.ID] = &cp
	return nil
}

func (r docRepo) GetByID(_ context.Context, id int64) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r docRepo) SoftDelete(_ context.Context, id, _ int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.docs[id].IsDeleted = true
	return nil
}

func (r docRepo) SoftDeleteByTasks(_ context.Context, ids []int64, _ int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failDocCascade != nil {
		return 0, r.s.failDocCascade
	}
	set := map[int64]bool{}
	for _, id := range ids {
		set[id] = true
	}
	var n int64
	for _, d := range r.s.docs {
		if d.OwnerKind == entity.DocumentOwnerTask && set[d.OwnerID] && !d.IsDeleted {
			d.IsDeleted = true
			n++
		}
	}
	return n, nil
}

// txRunner restaura la instantánea de listas, tareas y documentos si fn falla.
type txRunner struct{ s *memStore }

func (r txRunner) RunCascade(ctx context.Context, fn func(repository.TaskListRepository, repository.TaskRepository, repository.DocumentRepository) error) error {
	r.s.mu.Lock()
	lists, tasks, docs := cloneMap(r.s.lists), cloneMap(r.s.tasks), cloneMap(r.s.docs)
	r.s.mu.Unlock()

	if err := fn(listRepo{r.s}, taskRepo{r.s}, docRepo{r.s}); err != nil {
		r.s.mu.Lock()
		r.s.lists, r.s.tasks, r.s.docs = lists, tasks, docs
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[T any](m map[int64]*T) map[int64]*T {
	out := make(map[int64]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores externos
// ──────────────────────────────────────────────────────────────────────────────

type fakeBlobs struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
	failErr error
}

func (b *fakeBlobs) Save(_ context.Context, folder, name, _ string, r io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failErr != nil {
		return "", b.failErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	p := fmt.Sprintf("%s/%d-%s", folder, len(b.saved)+1, name)
	b.saved[p] = buf.Bytes()
	return p, nil
}

func (b *fakeBlobs) Delete(_ context.Context, p string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, p)
	delete(b.saved, p)
	return nil
}

type fakeReports struct {
	last ports.ProjectReport
}

func (f *fakeReports) GenerateProjectReport(_ context.Context, r ports.ProjectReport) ([]byte, error) {
	f.last = r
	return []byte("%PDF-1.4"), nil
}

// failingDocs envuelve docRepo y falla al crear (para probar limpieza del blob).
type failingDocs struct{ docRepo }

func (failingDocs) Create(context.Context, *entity.Document) error {
	return errors.New("insert falló")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: empresa 7 (proyecto 100, lista 11 y 12, tarea 50 con subtarea 51,
// tarea hermana 52) y empresa 9 (proyecto 900).
// ──────────────────────────────────────────────────────────────────────────────

var (
	superAdmin = access.Actor{UserID: 1, RoleID: entity.RoleSuperAdmin}
	admin7     = access.Actor{UserID: 2, RoleID: entity.RoleCompanyAdmin, CompanyID: 7}
	head7      = access.Actor{UserID: 4, RoleID: entity.RoleDepartmentHead, CompanyID: 7}
	member7    = access.Actor{UserID: 3, RoleID: entity.RoleEmployee, CompanyID: 7}
	outsider7  = access.Actor{UserID: 5, RoleID: entity.RoleEmployee, CompanyID: 7}
	admin9     = access.Actor{UserID: 6, RoleID: entity.RoleCompanyAdmin, CompanyID: 9}
)

type fixture struct {
	uc      *hierarchy.HierarchyUseCase
	store   *memStore
	blobs   *fakeBlobs
	reports *fakeReports
}

func ptr(v int64) *int64 { return &v }

func newFixture() *fixture {
	s := newMemStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c7, c9 := int64(7), int64(9)

	s.companies[7] = &entity.Company{ID: 7, Name: "Acme", IsActive: true}
	s.companies[9] = &entity.Company{ID: 9, Name: "Globex", IsActive: true}
	s.companies[8] = &entity.Company{ID: 8, Name: "Inactiva", IsActive: false}
	for _, a := range []access.Actor{admin7, head7, member7, outsider7} {
		s.creds[a.UserID] = &entity.Credential{ID: a.UserID, IsActive: true, RoleID: a.RoleID, CompanyID: &c7}
	}
	s.creds[admin9.UserID] = &entity.Credential{ID: admin9.UserID, IsActive: true, RoleID: admin9.RoleID, CompanyID: &c9}

	s.projects[100] = &entity.Project{ID: 100, CompanyID: 7, Name: "Web", Status: entity.ProjectStatusActive, IsActive: true}
	s.projects[900] = &entity.Project{ID: 900, CompanyID: 9, Name: "Otra", Status: entity.ProjectStatusActive, IsActive: true}
	s.members = append(s.members, &entity.ProjectMember{ID: 1, ProjectID: 100, UserID: member7.UserID})

	s.lists[11] = &entity.TaskList{ID: 11, ProjectID: 100, CompanyID: 7, Name: "Backlog"}
	s.lists[12] = &entity.TaskList{ID: 12, ProjectID: 100, CompanyID: 7, Name: "Sprint"}
	s.lists[901] = &entity.TaskList{ID: 901, ProjectID: 900, CompanyID: 9, Name: "Ajena"}

	s.tasks[50] = &entity.Task{ID: 50, CompanyID: 7, ProjectID: 100, TaskListID: ptr(11), Title: "Padre", AssignedTo: ptr(member7.UserID), CreatedAt: now}
	s.tasks[51] = &entity.Task{ID: 51, CompanyID: 7, ProjectID: 100, TaskListID: ptr(11), ParentTaskID: ptr(50), Title: "Hija", CreatedAt: now}
	s.tasks[52] = &entity.Task{ID: 52, CompanyID: 7, ProjectID: 100, TaskListID: ptr(11), Title: "Hermana", CreatedAt: now}
	s.tasks[60] = &entity.Task{ID: 60, CompanyID: 7, ProjectID: 100, TaskListID: ptr(12), Title: "Otra lista", CreatedAt: now}

	s.docs[70] = &entity.Document{ID: 70, OwnerKind: entity.DocumentOwnerTask, OwnerID: 50, CompanyID: 7, UploadedBy: member7.UserID}
	s.docs[71] = &entity.Document{ID: 71, OwnerKind: entity.DocumentOwnerTask, OwnerID: 51, CompanyID: 7, UploadedBy: admin7.UserID}
	s.docs[72] = &entity.Document{ID: 72, OwnerKind: entity.DocumentOwnerTask, OwnerID: 52, CompanyID: 7, UploadedBy: admin7.UserID}
	s.docs[73] = &entity.Document{ID: 73, OwnerKind: entity.DocumentOwnerProject, OwnerID: 100, CompanyID: 7, UploadedBy: admin7.UserID}

	s.statuses[80] = &entity.TaskStatus{ID: 80, CompanyID: 7, Name: "Pendiente"}
	s.statuses[81] = &entity.TaskStatus{ID: 81, CompanyID: 9, Name: "Ajeno"}

	f := &fixture{store: s, blobs: &fakeBlobs{saved: map[string][]byte{}}, reports: &fakeReports{}}
	f.uc = f.build(docRepo{s})
	return f
}

func (f *fixture) build(docs repository.DocumentRepository) *hierarchy.HierarchyUseCase {
	s := f.store
	return hierarchy.NewHierarchyUseCase(hierarchy.Deps{
		Companies:   companyRepo{s},
		Credentials: credRepo{s},
		Projects:    projectRepo{s},
		TaskLists:   listRepo{s},
		Tasks:       taskRepo{s},
		Statuses:    statusRepo{s},
		Documents:   docs,
		Tx:          txRunner{s},
		Blobs:       f.blobs,
		Reports:     f.reports,
		Clock:       func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
	})
}
