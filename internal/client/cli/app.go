package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/study-upc/studyclient/internal/client/client"
	"github.com/study-upc/studyclient/internal/client/config"
	"github.com/study-upc/studyclient/internal/client/mutation"
	"github.com/study-upc/studyclient/internal/client/notify"
	"github.com/study-upc/studyclient/internal/client/services"
	"github.com/study-upc/studyclient/internal/client/upload"
	"github.com/study-upc/studyclient/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	api    *client.HTTPClient
	tasks  *mutation.Tasks
	queue  *notify.Queue

	pipeline      *upload.Pipeline
	session       services.SessionService
	materials     *services.MaterialService
	notifications *services.NotificationService
	review        *services.ReviewService
	committee     *services.CommitteeService
	search        *services.SearchService
	uploadConfig  *services.UploadConfigService

	Mode   Mode
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local cache and builds every service.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.APIBaseURL,
		client.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		client.WithLogger(logger),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, logger, db, api, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, api *client.HTTPClient, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop{}
	}

	queue := notify.NewQueue(notify.DefaultQueueSize)
	var n notify.Notifier = queue
	if c.Debug {
		n = notify.Multi{queue, notify.LogNotifier{Logger: logger}}
	}

	tasks := mutation.NewTasks(logger, c.RequestTimeout)
	repos := client.NewRepositories(db)

	// the transfer goes to object storage, not the API, so it gets its own
	// client without the API timeout
	pipeline := upload.NewPipeline(api, upload.HTTPTransferer{Client: &http.Client{}},
		upload.WithNotifier(n),
		upload.WithLogger(logger),
	)

	a := &App{
		config:        c,
		logger:        logger,
		db:            db,
		api:           api,
		tasks:         tasks,
		queue:         queue,
		pipeline:      pipeline,
		session:       services.NewSessionService(api, db, tasks, logger),
		materials:     services.NewMaterialService(api, pipeline, n, c.PageSize),
		notifications: services.NewNotificationService(api, n, c.PageSize),
		review:        services.NewReviewService(api, n, c.PageSize),
		committee:     services.NewCommitteeService(api, n, c.PageSize),
		search:        services.NewSearchService(api, repos.History, logger, c.PageSize),
		uploadConfig:  services.NewUploadConfigService(api, db, pipeline, logger),
		reader:        bufio.NewReader(in),
		out:           out,
	}
	a.session.OnLogout(a.materials, a.notifications, a.review, a.committee, a.search)
	return a
}

// Run starts the REPL and releases resources when it returns.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close waits for background tasks, then closes the local cache.
func (a *App) Close() {
	a.tasks.Wait()
	a.queue.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(context.Background(), "switched mode", "mode", string(mode))
	}
}

// track updates the connectivity mode from the outcome of a backend call and
// passes err through.
func (a *App) track(err error) error {
	switch {
	case err == nil:
		a.setMode(ModeOnline)
	case client.IsUnavailable(err):
		a.setMode(ModeOffline)
	case errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn():
		a.setMode(ModeOnline)
		a.printf("Session expired, please login again\n")
		a.session.Logout(context.Background())
	default:
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			a.setMode(ModeOnline)
		}
	}
	return err
}

// flushNotifications prints every queued notification.
func (a *App) flushNotifications() {
	for _, m := range a.queue.Drain() {
		a.printf("[%s] %s\n", m.Level, m.Text)
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
