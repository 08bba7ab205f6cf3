package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"suerga/internal/modules/preview/domain"
	"suerga/internal/modules/preview/service"
)

type countingBuilder struct {
	builds atomic.Int32
	err    error
}

func (b *countingBuilder) Build(context.Context) (domain.BuildSummary, error) {
	b.builds.Add(1)
	return domain.BuildSummary{Files: 3}, b.err
}

type chanWatcher struct{ ch chan string }

func (w chanWatcher) Watch(context.Context, string) (<-chan string, error) {
	return w.ch, nil
}

type failingWatcher struct{}

func (failingWatcher) Watch(context.Context, string) (<-chan string, error) {
	return nil, errors.New("too many open files")
}

type blockingServer struct {
	started atomic.Bool

	mount string
	dir   string
}

func (s *blockingServer) Serve(ctx context.Context, _, mount, dir string) error {
	s.started.Store(true)
	s.mount, s.dir = mount, dir
	<-ctx.Done()
	return nil
}

func TestServeDebouncesRebuilds(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	builder := &countingBuilder{}
	changes := make(chan string)
	server := &blockingServer{}
	svc := service.NewPreviewService(builder, chanWatcher{ch: changes}, server, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx, service.Options{
			SourcePath: "site",
			TargetPath: "site/build",
			BaseURL:    "/pandas/",
			Addr:       "127.0.0.1:0",
			Watch:      true,
			Debounce:   50 * time.Millisecond,
		})
	}()

	for _, rel := range []string{"try.md", "index.html", "static/css/pandas.css", "build/try.html", ".suerga/suerga.db"} {
		changes <- rel
	}
	require.Eventually(t, func() bool { return builder.builds.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	changes <- "build/index.html"
	time.Sleep(150 * time.Millisecond)
	assert.EqualValues(t, 2, builder.builds.Load(), "output changes must not trigger rebuilds")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	assert.Equal(t, "/pandas", server.mount)
	assert.Equal(t, "site/build", server.dir)
}

func TestServeFailsWhenInitialBuildFails(t *testing.T) {
	t.Parallel()
	builder := &countingBuilder{err: errors.New("broken layout")}
	svc := service.NewPreviewService(builder, chanWatcher{}, &blockingServer{}, zerolog.Nop())
	err := svc.Serve(context.Background(), service.Options{SourcePath: "site", TargetPath: "build"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken layout")
}

func TestServeWatchFailureStartsNoServer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	builder := &countingBuilder{}
	server := &blockingServer{}
	svc := service.NewPreviewService(builder, failingWatcher{}, server, zerolog.Nop())

	err := svc.Serve(context.Background(), service.Options{SourcePath: "site", TargetPath: "build", Addr: "127.0.0.1:0", Watch: true})
	require.ErrorContains(t, err, "watch source")
	assert.False(t, server.started.Load(), "server must not outlive a failed watch")
	assert.EqualValues(t, 1, builder.builds.Load())
}
