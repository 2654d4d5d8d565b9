package permission_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertzappdev/bizfree-backend/internal/application/permission"
	"github.com/expertzappdev/bizfree-backend/internal/domain"
)

type fakePermissionRepo struct {
	calls atomic.Int32
	names map[[2]int64][]string
	err   error
	delay time.Duration
	// Con release la consulta avisa en started y espera a release o a la
	// cancelación de su contexto.
	started chan struct{}
	release chan struct{}
}

func (f *fakePermissionRepo) ListNames(ctx context.Context, roleID, companyID int64) ([]string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.release != nil {
		f.started <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.names[[2]int64{roleID, companyID}], nil
}

func newRepo() *fakePermissionRepo {
	return &fakePermissionRepo{names: map[[2]int64][]string{
		{3, 7}: {"task.read", "document.create", "task.read"},
		{2, 7}: {"project.create"},
	}}
}

func TestResolve_OrdenaYDeduplica(t *testing.T) {
	r := permission.NewResolver(newRepo(), time.Minute, 10)
	names, err := r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"document.create", "task.read"}, names)
}

func TestResolve_UsaCacheDentroDelTTL(t *testing.T) {
	repo := newRepo()
	r := permission.NewResolver(repo, time.Minute, 10)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background(), 3, 7)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), repo.calls.Load())

	_, err := r.Resolve(context.Background(), 2, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load(), "otra clave es otro cálculo")
}

func TestResolve_RecalculaAlExpirar(t *testing.T) {
	repo := newRepo()
	r := permission.NewResolver(repo, 30*time.Millisecond, 10)

	_, err := r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	time.Sleep(80 * time.Millisecond)
	_, err = r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestResolve_SinRolOEmpresaDevuelveVacio(t *testing.T) {
	repo := newRepo()
	r := permission.NewResolver(repo, time.Minute, 10)

	names, err := r.Resolve(context.Background(), 0, 7)
	require.NoError(t, err)
	assert.Empty(t, names)
	names, err = r.Resolve(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
	assert.Zero(t, repo.calls.Load())
}

func TestResolve_ErrorDeStoreNoSeCachea(t *testing.T) {
	repo := newRepo()
	repo.err = errors.New("conexión caída")
	r := permission.NewResolver(repo, time.Minute, 10)

	_, err := r.Resolve(context.Background(), 3, 7)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Zero(t, r.Len())

	repo.err = nil
	names, err := r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Len(t, names, 2)
}

func TestResolve_ConcurrenciaColapsaFallos(t *testing.T) {
	repo := newRepo()
	repo.delay = 20 * time.Millisecond
	r := permission.NewResolver(repo, time.Minute, 10)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names, err := r.Resolve(context.Background(), 3, 7)
			assert.NoError(t, err)
			assert.Equal(t, []string{"document.create", "task.read"}, names)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), repo.calls.Load())
}

func TestResolve_ResultadoNoComparteMemoria(t *testing.T) {
	r := permission.NewResolver(newRepo(), time.Minute, 10)
	a, err := r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	a[0] = "alterado"
	b, err := r.Resolve(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "document.create", b[0])
}

func TestResolve_CancelarAlPrimeroNoAfectaAlResto(t *testing.T) {
	repo := newRepo()
	repo.started = make(chan struct{}, 1)
	repo.release = make(chan struct{})
	r := permission.NewResolver(repo, time.Minute, 10)

	// A inicia la consulta compartida y luego cancela su petición.
	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.Resolve(ctxA, 3, 7)
		errA <- err
	}()
	<-repo.started

	// B llega mientras la consulta sigue en curso y se une a ella.
	type result struct {
		names []string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		names, err := r.Resolve(context.Background(), 3, 7)
		resB <- result{names, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("A debe volver en cuanto se cancela su contexto")
	}

	close(repo.release)
	select {
	case res := <-resB:
		require.NoError(t, res.err)
		assert.Equal(t, []string{"document.create", "task.read"}, res.names)
	case <-time.After(time.Second):
		t.Fatal("B no recibió resultado")
	}
	assert.Equal(t, int32(1), repo.calls.Load(), "una sola consulta para ambos")
	assert.Equal(t, 1, r.Len(), "el resultado queda en caché")
}
