package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	ntf "github.com/go-pkgz/notify"
	"github.com/robfig/cron/v3"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/threefoldtech/gridwatch/app/conditions"
	"github.com/threefoldtech/gridwatch/app/config"
	"github.com/threefoldtech/gridwatch/app/gridproxy"
	"github.com/threefoldtech/gridwatch/app/notify"
	"github.com/threefoldtech/gridwatch/app/pages"
	"github.com/threefoldtech/gridwatch/app/resumer"
	"github.com/threefoldtech/gridwatch/app/runner"
	"github.com/threefoldtech/gridwatch/app/scenario"
	"github.com/threefoldtech/gridwatch/app/store"
	"github.com/threefoldtech/gridwatch/app/suite"
	"github.com/threefoldtech/gridwatch/app/web"
)

var opts struct {
	Config      string        `short:"c" long:"config" env:"GRIDWATCH_CONFIG" default:"Config.ini" description:"ini file with [Base] section"`
	Once        bool          `long:"once" env:"GRIDWATCH_ONCE" description:"run selected scenarios once and exit"`
	Scenarios   []string      `short:"s" long:"scenario" env:"GRIDWATCH_SCENARIO" env-delim:"," description:"scenario id, case number or group, all if not set"`
	Schedule    string        `long:"schedule" env:"GRIDWATCH_SCHEDULE" default:"@every 6h" description:"cron schedule of selected scenarios"`
	Suite       string        `long:"suite" env:"GRIDWATCH_SUITE" description:"yaml file with scheduled selections, replaces --schedule"`
	Resume      string        `long:"resume" env:"GRIDWATCH_RESUME" description:"auto-resume location for interrupted jobs"`
	Concurrency int           `long:"concurrency" env:"GRIDWATCH_CONCURRENCY" default:"1" description:"scenarios running in parallel"`
	Timeout     time.Duration `long:"timeout" env:"GRIDWATCH_TIMEOUT" default:"10m" description:"max duration of a scenario"`
	List        bool          `long:"list" description:"list scenarios and exit"`
	Schema      string        `long:"schema" description:"write json schema of suite file to path and exit"`
	Dbg         bool          `long:"dbg" env:"GRIDWATCH_DEBUG" description:"debug mode"`

	Base struct {
		Port int    `long:"port" env:"PORT" description:"dashboard port, overrides [Base] port"`
		Net  string `long:"net" env:"NET" description:"network name, overrides [Base] net"`
	} `group:"base" namespace:"base" env-namespace:"GRIDWATCH_BASE"`

	Accounts config.Accounts `group:"accounts" namespace:"accounts"`
	Browser  config.Browser  `group:"browser" namespace:"browser" env-namespace:"GRIDWATCH_BROWSER"`

	Proxy struct {
		Timeout  time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"grid proxy request timeout"`
		Retries  int           `long:"retries" env:"RETRIES" default:"3" description:"grid proxy request retries"`
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"30" description:"polls waiting for grid proxy to catch up"`
		Delay    time.Duration `long:"delay" env:"DELAY" default:"2s" description:"delay between polls"`
	} `group:"proxy" namespace:"proxy" env-namespace:"GRIDWATCH_PROXY"`

	Store struct {
		Path string `long:"path" env:"PATH" default:"var/gridwatch.db" description:"sqlite file with run history, empty to disable"`
		Keep int    `long:"keep" env:"KEEP" default:"1000" description:"runs to keep in history"`
	} `group:"store" namespace:"store" env-namespace:"GRIDWATCH_STORE"`

	Web struct {
		Enabled      bool    `long:"enabled" env:"ENABLED" description:"enable status api"`
		Address      string  `long:"address" env:"ADDRESS" default:":8080" description:"status api listen address"`
		PasswordHash string  `long:"password-hash" env:"PASSWORD_HASH" description:"bcrypt hash of basic auth password"`
		RunRate      float64 `long:"run-rate" env:"RUN_RATE" default:"1" description:"manual run requests per second"`
	} `group:"web" namespace:"web" env-namespace:"GRIDWATCH_WEB"`

	Guard struct {
		LoadAvg       float64       `long:"load-avg" env:"LOAD_AVG" description:"skip run if 1-min load average is above"`
		CPU           int           `long:"cpu" env:"CPU" description:"skip run if cpu usage percent is above"`
		Memory        int           `long:"memory" env:"MEMORY" description:"skip run if memory usage percent is above"`
		DiskFree      int           `long:"disk-free" env:"DISK_FREE" description:"skip run if free disk percent is below"`
		DiskPath      string        `long:"disk-path" env:"DISK_PATH" default:"/" description:"path for disk check"`
		Dashboard     bool          `long:"dashboard" env:"DASHBOARD" description:"skip run if dashboard does not answer at base url"`
		Custom        string        `long:"custom" env:"CUSTOM" description:"script which must exit with 0 to allow run"`
		CustomTimeout time.Duration `long:"custom-timeout" env:"CUSTOM_TIMEOUT" default:"30s" description:"custom script and dashboard check timeout"`
	} `group:"guard" namespace:"guard" env-namespace:"GRIDWATCH_GUARD"`

	Notify struct {
		EnabledError       bool          `long:"enabled-error" env:"ENABLED_ERROR" description:"notify on failed runs"`
		EnabledCompletion  bool          `long:"enabled-complete" env:"ENABLED_COMPLETE" description:"notify on passed runs"`
		ErrorTemplate      string        `long:"err-template" env:"ERR_TEMPLATE" description:"failed run report template"`
		CompletionTemplate string        `long:"complete-template" env:"COMPLETE_TEMPLATE" description:"passed run report template"`
		SMTPHost           string        `long:"smtp-host" env:"SMTP_HOST" description:"SMTP host"`
		SMTPPort           int           `long:"smtp-port" env:"SMTP_PORT" description:"SMTP port"`
		SMTPUsername       string        `long:"smtp-username" env:"SMTP_USERNAME" description:"SMTP user name"`
		SMTPPassword       string        `long:"smtp-password" env:"SMTP_PASSWORD" description:"SMTP password"`
		SMTPTLS            bool          `long:"smtp-tls" env:"SMTP_TLS" description:"enable SMTP TLS"`
		SMTPTimeOut        time.Duration `long:"smtp-timeout" env:"SMTP_TIMEOUT" default:"10s" description:"SMTP TCP connection timeout"`
		FromEmail          string        `long:"from" env:"FROM" description:"SMTP from email"`
		ToEmails           []string      `long:"to" env:"TO" description:"SMTP to email(s)" env-delim:","`
		SlackToken         string        `long:"slack-token" env:"SLACK_TOKEN" description:"slack token"`
		SlackChannels      []string      `long:"slack-channel" env:"SLACK_CHANNEL" description:"slack channel(s)" env-delim:","`
		WebhookURLs        []string      `long:"webhook" env:"WEBHOOK" description:"webhook url(s)" env-delim:","`
		WebhookHeaders     []string      `long:"webhook-header" env:"WEBHOOK_HEADER" description:"webhook header(s), key:value" env-delim:","`
		WebhookTimeout     time.Duration `long:"webhook-timeout" env:"WEBHOOK_TIMEOUT" default:"10s" description:"webhook timeout"`
		HostName           string        `long:"host" env:"HOSTNAME" description:"host name running gridwatch"`
	} `group:"notify" namespace:"notify" env-namespace:"GRIDWATCH_NOTIFY"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"var/gridwatch.log" description:"file to write logs to"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in MB"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of rotated files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max age of rotated files in days"`
		EnabledCompress bool   `long:"enabled-compress" env:"ENABLED_COMPRESS" description:"compress rotated files"`
	} `group:"log" namespace:"log" env-namespace:"GRIDWATCH_LOG"`
}

var revision = "unknown"

func main() {
	fmt.Printf("gridwatch %s\n", revision)

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel) // handle SIGQUIT and SIGTERM

	code, err := run(ctx)
	if err != nil {
		log.Printf("[ERROR] %v", err)
	}
	cancel()
	os.Exit(code)
}

// run returns exit code, 1 for failed once-run or setup errors
func run(ctx context.Context) (int, error) {
	if opts.Schema != "" {
		if err := writeSchema(opts.Schema); err != nil {
			return 1, err
		}
		return 0, nil
	}
	if opts.List {
		listScenarios(os.Stdout, scenario.All())
		return 0, nil
	}

	selected, err := scenario.Select(opts.Scenarios...)
	if err != nil {
		return 2, err
	}
	jobs, err := makeJobs()
	if err != nil {
		return 2, err
	}

	base, err := loadBase()
	if err != nil {
		return 2, err
	}
	settings := config.Settings{Base: base, Accounts: opts.Accounts, Browser: opts.Browser}
	if err = settings.Validate(); err != nil {
		return 2, err
	}
	log.Printf("[INFO] dashboard %s, grid proxy %s", base.BaseURL(), base.GridProxyURL())

	var st *store.SQLite
	if opts.Store.Path != "" {
		if st, err = store.New(opts.Store.Path); err != nil {
			return 1, err
		}
		defer st.Close() //nolint:errcheck // read-only at this point
	}
	if opts.Web.Enabled && st == nil {
		return 2, fmt.Errorf("status api requires run history, set --store.path")
	}

	browser, err := pages.Launch(settings.Browser)
	if err != nil {
		return 1, err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Printf("[WARN] can't close browser, %v", err)
		}
	}()

	proxy := gridproxy.New(gridproxy.Params{URL: base.GridProxyURL(), Timeout: opts.Proxy.Timeout, Retries: opts.Proxy.Retries})
	r := &runner.Runner{
		Settings: settings,
		NewSession: func() (runner.Session, error) {
			sess, err := browser.NewSession()
			if err != nil {
				return nil, err
			}
			return sess, nil
		},
		Proxy:       proxy,
		Poll:        gridproxy.Poll{Attempts: opts.Proxy.Attempts, Delay: opts.Proxy.Delay},
		Concurrency: opts.Concurrency,
		Timeout:     opts.Timeout,
		HostName:    makeHostName(),
	}
	if st != nil {
		r.Store = st
	}
	if n := makeNotifier(); n != nil {
		r.Notifier = n
	}
	if cond := makeConditions(base.BaseURL()); cond.Enabled() {
		r.Checker, r.Conditions = conditions.NewChecker(opts.Guard.CustomTimeout), cond
	}

	if opts.Once {
		summary, err := r.Run(ctx, "once", selected)
		if err != nil {
			return 1, err
		}
		cleanupStore(ctx, st)
		if summary.Failed() {
			return 1, nil
		}
		return 0, nil
	}

	manual := make(chan runner.ManualRequest, 10)
	sched := &runner.Scheduler{
		Cron:          cron.New(),
		Executor:      r,
		Jobs:          jobs,
		ManualTrigger: manual,
		DeDup:         runner.NewDeDup(true),
	}
	if opts.Resume != "" {
		sched.Resumer = resumer.New(opts.Resume, true)
	}

	if opts.Web.Enabled {
		srv, err := web.New(web.Config{
			Results:       st,
			Jobs:          sched,
			ManualTrigger: manual,
			PasswordHash:  opts.Web.PasswordHash,
			Hostname:      makeHostName(),
			Version:       revision,
			RunRate:       opts.Web.RunRate,
		})
		if err != nil {
			return 1, err
		}
		go func() {
			if err := srv.Run(ctx, opts.Web.Address); err != nil {
				log.Printf("[ERROR] %v", err)
			}
		}()
	}

	if st != nil {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					cleanupStore(ctx, st)
				}
			}
		}()
	}

	if err := sched.Do(ctx); err != nil {
		return 1, err
	}
	return 0, nil
}

// makeJobs returns jobs from suite file or a single job for --scenario and --schedule
func makeJobs() ([]runner.Job, error) {
	if opts.Suite == "" {
		return []runner.Job{{Name: "default", Schedule: opts.Schedule, Filters: opts.Scenarios}}, nil
	}
	f, err := suite.Load(opts.Suite)
	if err != nil {
		return nil, err
	}
	return f.Jobs(), nil
}

func makeNotifier() *notify.Service {
	if !opts.Notify.EnabledError && !opts.Notify.EnabledCompletion {
		return nil
	}

	if opts.Notify.FromEmail == "" {
		opts.Notify.FromEmail = "gridwatch@" + makeHostName()
	}

	return notify.NewService(
		notify.Params{
			EnabledError:       opts.Notify.EnabledError,
			EnabledCompletion:  opts.Notify.EnabledCompletion,
			ErrorTemplate:      opts.Notify.ErrorTemplate,
			CompletionTemplate: opts.Notify.CompletionTemplate,
		},
		notify.SendersParams{
			SMTPParams: ntf.SMTPParams{
				Host:        opts.Notify.SMTPHost,
				Port:        opts.Notify.SMTPPort,
				TLS:         opts.Notify.SMTPTLS,
				Username:    opts.Notify.SMTPUsername,
				Password:    opts.Notify.SMTPPassword,
				TimeOut:     opts.Notify.SMTPTimeOut,
				ContentType: "text/html",
			},
			FromEmail:      opts.Notify.FromEmail,
			ToEmails:       opts.Notify.ToEmails,
			SlackToken:     opts.Notify.SlackToken,
			SlackChannels:  opts.Notify.SlackChannels,
			WebhookURLs:    opts.Notify.WebhookURLs,
			WebhookHeaders: opts.Notify.WebhookHeaders,
			WebhookTimeout: opts.Notify.WebhookTimeout,
		},
	)
}

// loadBase reads [Base] from the ini file, --base.* flags and GRIDWATCH_BASE_* env override it
func loadBase() (config.Base, error) {
	base, err := config.Load(opts.Config)
	if err != nil {
		return config.Base{}, err
	}
	return base.Override(config.Base{Port: opts.Base.Port, Net: opts.Base.Net}), nil
}

// makeConditions returns run guard config from --guard.* options
func makeConditions(dashboardURL string) conditions.Config {
	res := conditions.Config{
		MaxLoadAvg:  opts.Guard.LoadAvg,
		MaxCPU:      opts.Guard.CPU,
		MaxMemory:   opts.Guard.Memory,
		MinDiskFree: opts.Guard.DiskFree,
		DiskPath:    opts.Guard.DiskPath,
		Custom:      opts.Guard.Custom,
	}
	if opts.Guard.Dashboard {
		res.DashboardURL = dashboardURL
	}
	return res
}

func makeHostName() string {
	if opts.Notify.HostName != "" {
		return opts.Notify.HostName
	}
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return host
}

func cleanupStore(ctx context.Context, st *store.SQLite) {
	if st == nil || opts.Store.Keep <= 0 {
		return
	}
	n, err := st.Cleanup(ctx, opts.Store.Keep)
	if err != nil {
		log.Printf("[WARN] can't cleanup run history, %v", err)
		return
	}
	if n > 0 {
		log.Printf("[DEBUG] removed %d old runs", n)
	}
}

func listScenarios(w io.Writer, list []scenario.Scenario) {
	for _, s := range list {
		_, _ = fmt.Fprintf(w, "%-26s %-8s %-9s %s\n", s.ID, s.Case, s.Group, s.Name)
	}
}

func writeSchema(path string) error {
	data, err := json.MarshalIndent(suite.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		return fmt.Errorf("failed to write schema file: %w", err)
	}
	log.Printf("[INFO] schema written to %s", path)
	return nil
}

// setupLogs configures lgr, returns writer used for logs
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled && strings.TrimSpace(opts.Log.Filename) != "" {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	logOpts := []log.Option{log.Msec, log.LevelBraces, log.Out(out), log.Err(out)}
	if opts.Dbg {
		logOpts = append(logOpts, log.Debug, log.CallerFile, log.CallerFunc)
	}
	log.Setup(logOpts...)
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] %v received, terminating", sig)
			cancel()
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
