package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/dmitrijs2005/dropnshare/internal/client/client"
	"github.com/dmitrijs2005/dropnshare/internal/client/config"
	"github.com/dmitrijs2005/dropnshare/internal/client/repositories"
	"github.com/dmitrijs2005/dropnshare/internal/client/services"
	"github.com/dmitrijs2005/dropnshare/internal/client/session"
	"github.com/dmitrijs2005/dropnshare/internal/client/tokenstore"
	"github.com/dmitrijs2005/dropnshare/internal/filex"
	"github.com/dmitrijs2005/dropnshare/internal/logging"
	"github.com/redis/go-redis/v9"
)

// App is the composition root of the CLI.
type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Manager
	uploads *services.UploadService
	reader  *bufio.Reader
	out     io.Writer
	closers []func() error

	lastUpload *services.Upload
}

// NewApp builds every dependency from c. Call Close when done.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, logging.ParseLevel(c.LogLevel))
	return newApp(ctx, c, log, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store, closer, err := openTokenStore(ctx, c, log)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: c.RequestTimeout}
	api := client.NewHTTPClient(client.NewExecutor(c.APIURL, httpClient, store, log))

	log.Debug(ctx, "configured", "api_url", c.APIURL, "web_url", c.WebOrigin(), "token_store", c.TokenStore)

	a := &App{
		config:  c,
		log:     log,
		session: session.New(api, store, log),
		uploads: services.NewUploadService(api, c.APIURL, c.WebOrigin(), log),
		reader:  bufio.NewReader(in),
		out:     out,
	}
	if closer != nil {
		a.closers = append(a.closers, closer)
	}
	return a, nil
}

// openTokenStore selects the backend named by c.TokenStore. The returned
// closer may be nil.
func openTokenStore(ctx context.Context, c *config.Config, log logging.Logger) (tokenstore.Store, func() error, error) {
	switch c.TokenStore {
	case tokenstore.BackendMemory:
		return tokenstore.NewMemory(""), nil, nil

	case tokenstore.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return tokenstore.NewRedis(rdb, c.RedisPrefix, log), rdb.Close, nil

	case tokenstore.BackendSQLite, "":
		if _, err := filex.EnsureParentDir(c.DBPath); err != nil {
			return nil, nil, err
		}
		db, err := repositories.InitDatabase(ctx, c.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("error initializing database: %w", err)
		}
		return tokenstore.NewSQLite(db, log), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown token store %q", c.TokenStore)
	}
}

// Run restores the session and serves the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) {
	updates, cancel := a.session.Subscribe()
	defer cancel()
	go func() {
		for st := range updates {
			a.log.Debug(ctx, "session changed", "version", st.Version, "authenticated", st.IsAuthenticated(), "loading", st.IsLoading)
		}
	}()

	fmt.Fprintln(a.out, "Welcome to DropNShare CLI (type 'help' for commands)")
	a.session.Restore(ctx)
	if user := a.session.State().User; user != nil {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", user.Name, user.Email)
	}

	runREPL(ctx, a, a.status, a.reader)
}

// Close releases the token store backend.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated()
}

func (a *App) status() string {
	if user := a.session.State().User; user != nil {
		return fmt.Sprintf("(%s)", user.Email)
	}
	return ""
}
