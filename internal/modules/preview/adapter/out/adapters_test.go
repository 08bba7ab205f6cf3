package out_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	previewout "suerga/internal/modules/preview/adapter/out"
)

func TestSiteHandlerServesUnderMount(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "try.html"), []byte("<h1>Try</h1>"), 0o644))

	srv := httptest.NewServer(previewout.NewSiteHandler("/pandas", dir, zerolog.Nop()))
	defer srv.Close()
	client := srv.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := client.Get(srv.URL + "/pandas/try.html")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>Try</h1>", string(body))

	resp, err = client.Get(srv.URL + "/pandas")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t, "/pandas/", resp.Header.Get("Location"))

	resp, err = client.Get(srv.URL + "/try.html")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestChiServerShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ready := make(chan string, 1)
	server := previewout.NewChiServer(zerolog.Nop())
	server.Ready = ready
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, "127.0.0.1:0", "", t.TempDir()) }()

	addr := <-ready
	resp, err := http.Get("http://" + addr + "/missing.html")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	http.DefaultClient.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestFSNotifyWatcherReportsRelativePaths(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "static"), 0o755))
	ctx, cancel := context.WithCancel(context.Background())
	changes, err := previewout.NewFSNotifyWatcher(zerolog.Nop()).Watch(ctx, root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "static", "site.css"), []byte("body{}"), 0o644))
	select {
	case rel := <-changes:
		assert.Equal(t, "static/site.css", rel)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	for range changes {
	}
}
