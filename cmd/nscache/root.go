package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/nscache"
	"github.com/unkn0wn-root/nscache/codec"
	"github.com/unkn0wn-root/nscache/config"
	logzap "github.com/unkn0wn-root/nscache/log/zap"
	rp "github.com/unkn0wn-root/nscache/provider/redis"
)

type app struct {
	ns         string
	connection string
	format     string
	logLevel   string
	timeout    time.Duration

	stderr io.Writer
	log    *zap.Logger
	conn   *rp.Connection
	cache  *nscache.Cache
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{stderr: stderr}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "nscache",
		Short:             "Namespaced cache over Redis",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.ns, "ns", "", "namespace id (required)")
	pf.StringVar(&a.connection, "connection", "", "redis target, overrides $"+config.EnvConnection)
	pf.StringVar(&a.format, "format", "", "array format json|msgpack|cbor|protobuf, overrides $"+config.EnvFormat)
	pf.StringVar(&a.logLevel, "log-level", "", "log level, overrides $"+config.EnvLogLevel)
	pf.DurationVar(&a.timeout, "timeout", 5*time.Second, "timeout for each store call")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.delCmd(),
		a.existsCmd(),
		a.expireCmd(),
		a.purgeCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.connection != "" {
		cfg.Connection = a.connection
	}
	if a.format != "" {
		if _, ok := codec.Lookup(a.format); !ok {
			return fmt.Errorf("--format: %w: %q", codec.ErrUnknownFormat, a.format)
		}
		cfg.Format = a.format
	}
	if a.logLevel != "" {
		if cfg.LogLevel, err = zapcore.ParseLevel(a.logLevel); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
	}
	if a.ns == "" {
		return errors.New("--ns is required")
	}

	a.log = newLogger(a.stderr, cfg.LogLevel)

	opts, err := cfg.RedisOptions()
	if err != nil {
		return err
	}
	a.conn = rp.NewConnection(opts)
	ctx, cancel := a.callCtx(cmd)
	defer cancel()
	client, err := a.conn.Client(ctx)
	if err != nil {
		return err
	}
	store, err := rp.New(rp.Config{Client: client})
	if err != nil {
		return err
	}

	copts := cfg.Options(store, a.ns)
	copts.Logger = logzap.New(a.log)
	a.cache, err = nscache.New(copts)
	if err != nil {
		return err
	}
	a.log.Debug("cache ready",
		zap.String("ns", a.ns),
		zap.Strings("addrs", opts.Addrs),
		zap.String("format", cfg.Format))
	return nil
}

func (a *app) close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func (a *app) callCtx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core)
}
