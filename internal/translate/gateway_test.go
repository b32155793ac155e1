package translate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stayhub_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranslator struct {
	mu      sync.Mutex
	active  int32
	maxSeen int32
	delay   time.Duration
	err     error
}

func (f *fakeTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	cur := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)

	f.mu.Lock()
	if cur > f.maxSeen {
		f.maxSeen = cur
	}
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return "[" + targetLang + "] " + text, nil
}

func TestGateway_TargetFor(t *testing.T) {
	t.Parallel()

	g := NewGateway(&fakeTranslator{}, "KO", time.Second, 4)

	// Язык гостя совпадает с дефолтным - перевод не нужен
	_, need := g.TargetFor(models.UserRoleManager, "KO")
	assert.False(t, need)
	_, need = g.TargetFor(models.UserRoleGeneral, "")
	assert.False(t, need)

	// Персонал пишет гостю - переводим на язык гостя
	target, need := g.TargetFor(models.UserRoleManager, "EN")
	require.True(t, need)
	assert.Equal(t, "EN", target)

	target, need = g.TargetFor(models.UserRoleAdmin, "JA")
	require.True(t, need)
	assert.Equal(t, "JA", target)

	// Гость пишет персоналу - переводим на язык персонала
	target, need = g.TargetFor(models.UserRoleGeneral, "EN")
	require.True(t, need)
	assert.Equal(t, "KO", target)

	target, need = g.TargetFor(models.UserRoleTemp, "EN")
	require.True(t, need)
	assert.Equal(t, "KO", target)
}

func TestGateway_Translate(t *testing.T) {
	t.Parallel()

	g := NewGateway(&fakeTranslator{}, "KO", time.Second, 4)

	out, err := g.Translate(context.Background(), "Hello", "KO")
	require.NoError(t, err)
	assert.Equal(t, "[KO] Hello", out)
}

func TestGateway_TranslateError(t *testing.T) {
	t.Parallel()

	boom := errors.New("api down")
	g := NewGateway(&fakeTranslator{err: boom}, "KO", time.Second, 4)

	_, err := g.Translate(context.Background(), "Hello", "KO")
	assert.ErrorIs(t, err, boom)
}

func TestGateway_Timeout(t *testing.T) {
	t.Parallel()

	g := NewGateway(&fakeTranslator{delay: 500 * time.Millisecond}, "KO", 50*time.Millisecond, 4)

	_, err := g.Translate(context.Background(), "Hello", "KO")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateway_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	ft := &fakeTranslator{delay: 20 * time.Millisecond}
	g := NewGateway(ft, "KO", time.Second, 2)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Translate(context.Background(), "Hello", "EN")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ft.mu.Lock()
	defer ft.mu.Unlock()
	assert.LessOrEqual(t, ft.maxSeen, int32(2), "семафор должен ограничивать параллелизм")
}
