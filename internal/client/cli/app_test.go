package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/dropnshare/internal/client/config"
	"github.com/dmitrijs2005/dropnshare/internal/client/tokenstore"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
	"github.com/dmitrijs2005/dropnshare/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubInputs answers text prompts from answers in order and every password
// prompt with password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		require.NotEmpty(t, answers, "unexpected prompt")
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func testConfig(apiURL string) *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.APIURL = apiURL
	c.TokenStore = tokenstore.BackendMemory
	return c
}

func newTestApp(t *testing.T, c *config.Config, in string) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := newApp(context.Background(), c, logging.Discard(), strings.NewReader(in), &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, &out
}

func TestOpenTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closer, err := openTokenStore(ctx, &config.Config{TokenStore: "memory"}, logging.Discard())
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &tokenstore.Memory{}, store)
	})

	t.Run("sqlite creates the data directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "client.db")
		store, closer, err := openTokenStore(ctx, &config.Config{TokenStore: "sqlite", DBPath: path}, logging.Discard())
		require.NoError(t, err)
		t.Cleanup(func() { _ = closer() })

		require.NoError(t, store.Set(ctx, "tok"))
		got, ok := store.Get(ctx)
		assert.True(t, ok)
		assert.Equal(t, "tok", got)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("redis is lazy", func(t *testing.T) {
		store, closer, err := openTokenStore(ctx, &config.Config{TokenStore: "redis", RedisAddr: "127.0.0.1:1"}, logging.Discard())
		require.NoError(t, err)
		t.Cleanup(func() { _ = closer() })
		assert.IsType(t, &tokenstore.Redis{}, store)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := openTokenStore(ctx, &config.Config{TokenStore: "etcd"}, logging.Discard())
		assert.EqualError(t, err, `unknown token store "etcd"`)
	})
}

func TestApp_RegisterWhoAmILogout(t *testing.T) {
	srv, apiURL := fakeapi.Start(t)
	app, out := newTestApp(t, testConfig(apiURL), "")
	ctx := context.Background()

	stubInputs(t, "secret123", "Alice", "alice@example.com")
	require.NoError(t, app.Register(ctx))
	assert.Contains(t, out.String(), "Welcome, Alice!")
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "(alice@example.com)", app.status())

	out.Reset()
	require.NoError(t, app.WhoAmI(ctx))
	assert.Equal(t, "Alice <alice@example.com> (id 1)\nEmail not verified\n", out.String())

	out.Reset()
	require.NoError(t, app.Logout(ctx))
	assert.Equal(t, "Logged out\n", out.String())
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, 1, srv.Accounts())

	out.Reset()
	require.NoError(t, app.WhoAmI(ctx))
	assert.Equal(t, "Not logged in\n", out.String())
}

func TestApp_LoginFailureIsReported(t *testing.T) {
	_, apiURL := fakeapi.Start(t)
	app, out := newTestApp(t, testConfig(apiURL), "")

	stubInputs(t, "wrong-pass", "ghost@example.com")
	err := app.Login(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Login failed: These credentials do not match our records.\n", out.String())
	assert.False(t, app.isLoggedIn())
}

func TestApp_LoginServerUnavailable(t *testing.T) {
	app, out := newTestApp(t, testConfig("http://127.0.0.1:1/api"), "")

	stubInputs(t, "secret123", "a@b.com")
	err := app.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, out.String(), "Login failed: server unavailable")
}

func TestApp_RefreshDetectsExpiredSession(t *testing.T) {
	srv, apiURL := fakeapi.Start(t)
	app, out := newTestApp(t, testConfig(apiURL), "")
	ctx := context.Background()

	stubInputs(t, "secret123", "Bob", "bob@example.com")
	require.NoError(t, app.Register(ctx))

	srv.Override(http.MethodGet, "/auth/me", http.StatusUnauthorized, `{"message":"Unauthenticated."}`)
	out.Reset()
	require.NoError(t, app.Refresh(ctx))

	assert.Equal(t, "Session expired, please log in again\n", out.String())
	assert.False(t, app.isLoggedIn())
}

func TestApp_UploadAndLinks(t *testing.T) {
	_, apiURL := fakeapi.Start(t)
	c := testConfig(apiURL)
	c.WebURL = "https://share.example"
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("hello"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte(`{"k":"v"}`), 0o600))

	// Paths come from the prompt when the command has no arguments.
	app, out := newTestApp(t, c, a+"\n"+b+"\n\n")
	ctx := context.Background()

	require.NoError(t, app.Upload(ctx, []string{a}))
	assert.Equal(t, "Please log in first\n", out.String())

	stubInputs(t, "secret123", "Carol", "carol@example.com")
	require.NoError(t, app.Register(ctx))

	out.Reset()
	require.NoError(t, app.Upload(ctx, nil))

	text := out.String()
	assert.Contains(t, text, "a.txt  5 B")
	assert.Contains(t, text, "b.json  9 B  application/json")
	assert.Contains(t, text, "Uploaded 2 file(s), 14 B")
	assert.Contains(t, text, "Download link: "+apiURL+"/download/")
	assert.Contains(t, text, "Download page: https://share.example/download/")
	assert.Contains(t, text, "Direct link:   "+apiURL+"/download/")
	assert.Contains(t, text, "Expires 6 days from now")

	out.Reset()
	require.NoError(t, app.Links(ctx))
	assert.Contains(t, out.String(), "Download page: https://share.example/download/")

	require.NoError(t, app.Logout(ctx))
	out.Reset()
	require.NoError(t, app.Links(ctx))
	assert.Equal(t, "Nothing uploaded yet\n", out.String())
}

func TestApp_UploadFailure(t *testing.T) {
	_, apiURL := fakeapi.Start(t)
	app, out := newTestApp(t, testConfig(apiURL), "")
	ctx := context.Background()

	stubInputs(t, "secret123", "Dan", "dan@example.com")
	require.NoError(t, app.Register(ctx))

	out.Reset()
	err := app.Upload(ctx, []string{filepath.Join(t.TempDir(), "missing.bin")})

	require.Error(t, err)
	assert.Contains(t, out.String(), "Upload failed: stat ")
}

func TestApp_RunRestoresSession(t *testing.T) {
	_, apiURL := fakeapi.Start(t)
	c := testConfig(apiURL)
	c.TokenStore = tokenstore.BackendSQLite
	c.DBPath = filepath.Join(t.TempDir(), "client.db")
	ctx := context.Background()

	first, _ := newTestApp(t, c, "")
	stubInputs(t, "secret123", "Eve", "eve@example.com")
	require.NoError(t, first.Register(ctx))

	capturePrints(t)
	second, out := newTestApp(t, c, "whoami\nexit\n")
	second.Run(ctx)

	assert.Contains(t, out.String(), "Signed in as Eve <eve@example.com>")
	assert.Contains(t, out.String(), "Eve <eve@example.com> (id 1)")
}
