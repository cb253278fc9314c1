package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/themesync"
	"github.com/yacobolo/themesync/internal/logger"
	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

const tokensCSS = `@theme inline {
  --color-cream: #fef8e2;
  --color-black: #0f0e0c;
  --color-surface-primary: var(--color-cream);
}

@theme {
  --radius-md: 0.5rem;
}
`

type fixture struct {
	root   string
	server *Server
	http   *httptest.Server
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func newFixture(t *testing.T, env string) *fixture {
	t.Helper()
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("app/globals.css", "@import \"tailwindcss\";\n@import \"@rdna/theme-rad-os\";\n")
	write("packages/theme-rad-os/package.json", `{"name": "@rdna/theme-rad-os", "version": "1.0.0"}`)
	write("packages/theme-rad-os/tokens.css", tokensCSS)
	write("packages/theme-rad-os/dark.css", ".dark {\n  --color-surface-primary: var(--color-black);\n}\n")
	write("packages/theme-phase/package.json", `{"name": "@rdna/theme-phase", "version": "1.0.0"}`)
	write("packages/theme-phase/tokens.css", "@theme {\n  --radius-md: 0.5rem;\n}\n")

	cfg := themesync.DefaultConfig(root)
	cfg.Env = env
	engine, err := themesync.New(cfg, themesync.WithLogger(logger.Nop()))
	require.NoError(t, err)

	srv := New(engine, logger.Nop(), Options{})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &fixture{root: root, server: srv, http: ts}
}

// call performs a request and decodes the envelope, keeping data raw
func (f *fixture) call(t *testing.T, method, path string, body any) (int, Envelope, json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, f.http.URL+Prefix+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw struct {
		Envelope
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	return resp.StatusCode, raw.Envelope, raw.Data
}

func TestGetTokens(t *testing.T) {
	f := newFixture(t, "development")

	status, env, data := f.call(t, http.MethodGet, "/tokens", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var snap struct {
		ThemeID string            `json:"themeId"`
		Radius  map[string]string `json:"radius"`
	}
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "rad-os", snap.ThemeID)
	assert.Equal(t, map[string]string{"md": "0.5rem"}, snap.Radius)

	status, _, _ = f.call(t, http.MethodGet, "/tokens?theme=phase", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestPostTokens(t *testing.T) {
	f := newFixture(t, "development")

	status, env, data := f.call(t, http.MethodPost, "/tokens", map[string]any{
		"radius": map[string]string{"md": "8px"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.Equal(t, "Updated 1 tokens", env.Message)

	var res themesync.WriteResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 1, res.Updated)
	assert.Contains(t, f.read(t, "packages/theme-rad-os/tokens.css"), "--radius-md: 8px;")
}

func TestPostTokens_DryRun(t *testing.T) {
	f := newFixture(t, "development")

	status, env, data := f.call(t, http.MethodPost, "/tokens", map[string]any{
		"radius": map[string]string{"md": "8px"},
		"dryRun": true,
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var res themesync.WriteResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Contains(t, res.Diff, "+  --radius-md: 8px;")
	assert.Equal(t, tokensCSS, f.read(t, "packages/theme-rad-os/tokens.css"))
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantKind   string
	}{
		{
			name:       "write locked",
			method:     http.MethodPost,
			path:       "/tokens",
			body:       map[string]any{"theme": "phase", "radius": map[string]string{"md": "8px"}},
			wantStatus: http.StatusLocked,
			wantKind:   "write_locked",
		},
		{
			name:       "invalid json",
			method:     http.MethodPost,
			path:       "/tokens",
			body:       `{"radius": `,
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid",
		},
		{
			name:       "empty body",
			method:     http.MethodPost,
			path:       "/semantic",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid",
		},
		{
			name:       "empty change-set",
			method:     http.MethodPost,
			path:       "/tokens",
			body:       map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid",
		},
		{
			name:       "unknown theme package",
			method:     http.MethodPost,
			path:       "/themes/switch",
			body:       map[string]any{"package": "@rdna/theme-ghost"},
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:       "method not allowed",
			method:     http.MethodDelete,
			path:       "/tokens",
			wantStatus: http.StatusMethodNotAllowed,
			wantKind:   "invalid",
		},
		{
			name:       "bad audit query",
			method:     http.MethodGet,
			path:       "/audit?maxIssues=-1",
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "development")

			status, env, _ := f.call(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantKind, env.Error.Kind)
		})
	}
}

func TestWriteLocked_ReportsActiveTheme(t *testing.T) {
	f := newFixture(t, "development")

	_, env, _ := f.call(t, http.MethodPost, "/tokens", map[string]any{
		"theme":  "phase",
		"radius": map[string]string{"md": "8px"},
	})
	require.NotNil(t, env.Error)
	assert.Equal(t, "rad-os", env.Error.ActiveTheme)
	assert.Equal(t, "@theme {\n  --radius-md: 0.5rem;\n}\n", f.read(t, "packages/theme-phase/tokens.css"))
}

func TestProduction(t *testing.T) {
	f := newFixture(t, "production")

	for _, path := range []string{"/tokens", "/themes", "/themes/current", "/audit", "/components", "/export", "/events"} {
		t.Run(path, func(t *testing.T) {
			status, env, _ := f.call(t, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, ProductionMessage, env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, "production", env.Error.Kind)
		})
	}

	status, _, _ := f.call(t, http.MethodPost, "/tokens", map[string]any{"radius": map[string]string{"md": "8px"}})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, tokensCSS, f.read(t, "packages/theme-rad-os/tokens.css"))

	for _, path := range []string{"/tokens", "/semantic", "/css", "/themes", "/themes/switch"} {
		t.Run("malformed body "+path, func(t *testing.T) {
			status, env, _ := f.call(t, http.MethodPost, path, `{not json`)
			assert.Equal(t, http.StatusForbidden, status)
			assert.Equal(t, ProductionMessage, env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, "production", env.Error.Kind)
		})
	}

	status, env, _ := f.call(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestPostCSS_RemoveModes(t *testing.T) {
	f := newFixture(t, "development")

	status, env, data := f.call(t, http.MethodPost, "/css", `{"colorModes": []}`)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	var res themesync.MultiWriteResult
	require.NoError(t, json.Unmarshal(data, &res))
	require.Len(t, res.Files, 1)
	assert.Equal(t, "modes", res.Files[0].Section)
	assert.NotContains(t, f.read(t, "packages/theme-rad-os/dark.css"), ".dark")
}

func TestPostSemantic(t *testing.T) {
	f := newFixture(t, "development")

	status, env, _ := f.call(t, http.MethodPost, "/semantic", map[string]any{
		"mappings": map[string]string{"surface-primary": "black"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Updated 1 semantic tokens", env.Message)
	assert.Contains(t, f.read(t, "packages/theme-rad-os/tokens.css"), "--color-surface-primary: var(--color-black);")
}

func TestThemes(t *testing.T) {
	f := newFixture(t, "development")

	status, _, data := f.call(t, http.MethodGet, "/themes", nil)
	require.Equal(t, http.StatusOK, status)
	var themes []struct {
		ID       string `json:"id"`
		IsActive bool   `json:"isActive"`
	}
	require.NoError(t, json.Unmarshal(data, &themes))
	assert.Len(t, themes, 2)

	status, env, _ := f.call(t, http.MethodPost, "/themes/switch", map[string]any{"package": "@rdna/theme-phase"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Switched to phase", env.Message)
	assert.Contains(t, f.read(t, "app/globals.css"), `@import "@rdna/theme-phase";`)

	status, _, data = f.call(t, http.MethodGet, "/themes/current", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), `"phase"`)

	status, env, _ = f.call(t, http.MethodPost, "/themes", map[string]any{"id": "night", "from": "rad-os"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Created @rdna/theme-night", env.Message)
}

func TestAuditAndComponents(t *testing.T) {
	f := newFixture(t, "development")

	status, env, _ := f.call(t, http.MethodGet, "/audit?skipInfo=true", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0 issues", env.Message)

	status, _, data := f.call(t, http.MethodGet, "/components", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"components": [], "stats": {"filesDiscovered": 0, "filesScanned": 0, "filesSkipped": 0}}`, string(data))
}

func TestEvents(t *testing.T) {
	f := newFixture(t, "development")

	url := "ws" + strings.TrimPrefix(f.http.URL, "http") + Prefix + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var hello Event
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello.Type)
	assert.Equal(t, "rad-os", hello.Theme)

	require.Eventually(t, func() bool { return f.server.Hub().Len() == 1 }, time.Second, 10*time.Millisecond)

	f.server.Hub().Broadcast(Event{
		Type:  "change",
		Theme: "rad-os",
		Files: []themesync.FileEvent{{Theme: "rad-os", File: "packages/theme-rad-os/tokens.css", Op: "write"}},
	})

	var change Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&change))
	assert.Equal(t, "change", change.Type)
	require.Len(t, change.Files, 1)
	assert.Equal(t, "packages/theme-rad-os/tokens.css", change.Files[0].File)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return f.server.Hub().Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestClassify_IOHint(t *testing.T) {
	status, body := classify(&tserrors.IOError{Op: "write", Path: "tokens.css", Backup: ".tokens.css.backup", Err: os.ErrPermission})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "io", body.Kind)
	assert.Equal(t, "restore from backup .tokens.css.backup", body.Hint)
}
