package launcher

import (
	"context"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"sync"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/storefront/storefront"
	"github.com/storefront/storefront/bolt"
	"github.com/storefront/storefront/dynamodb"
	"github.com/storefront/storefront/inmem"
	"github.com/storefront/storefront/internal/fs"
	"github.com/storefront/storefront/kit/cli"
	"github.com/storefront/storefront/kit/tracing"
	kithttp "github.com/storefront/storefront/kit/transport/http"
	"github.com/storefront/storefront/kv"
	storefrontlogger "github.com/storefront/storefront/logger"
	"github.com/storefront/storefront/shop"
	jaegerconfig "github.com/uber/jaeger-client-go/config"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// BoltStore stores all resources in boltdb.
	BoltStore = "bolt"
	// MemoryStore stores all resources in memory (useful for testing).
	MemoryStore = "memory"
	// DynamoDBStore stores all resources in DynamoDB tables.
	DynamoDBStore = "dynamodb"
)

const (
	// JaegerTracing enables tracing via the Jaeger client, configured from
	// the standard JAEGER_* environment variables.
	JaegerTracing = "jaeger"
)

const programName = "storefrontd"

// NewCommand returns the storefrontd command. It serves until ctx is done,
// then shuts down within two seconds.
func NewCommand(ctx context.Context, v *viper.Viper) (*cobra.Command, error) {
	l := NewLauncher()
	p := &cli.Program{
		Name: programName,
		Opts: l.options(),
		Run: func() error {
			if err := l.run(ctx); err != nil {
				return err
			}

			<-ctx.Done()

			// Attempt clean shutdown.
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return l.Shutdown(ctx)
		},
	}

	cmd, err := cli.NewCommand(v, p)
	if err != nil {
		return nil, err
	}
	cmd.Short = "Serve the storefront users, products and orders API"
	return cmd, nil
}

func (m *Launcher) options() []cli.Opt {
	boltPath, err := fs.BoltFile()
	if err != nil {
		panic(fmt.Errorf("failed to determine storefront directory: %v", err))
	}

	defaults := dynamodb.DefaultTables()
	return []cli.Opt{
		{
			DestP:   &m.logLevel,
			Flag:    "log-level",
			Default: zapcore.InfoLevel,
			Desc:    "supported log levels are debug, info, warn and error",
		},
		{
			DestP:   &m.logFormat,
			Flag:    "log-format",
			Default: "auto",
			Desc:    "log output format: auto, console, json or logfmt",
		},
		{
			DestP: &m.tracingType,
			Flag:  "tracing-type",
			Desc:  fmt.Sprintf("supported tracing types are %s", JaegerTracing),
		},
		{
			DestP:   &m.httpBindAddress,
			Flag:    "http-bind-address",
			Default: ":8080",
			Desc:    "bind address for the REST HTTP API",
		},
		{
			DestP:   &m.httpGzip,
			Flag:    "http-gzip",
			Default: true,
			Desc:    "gzip responses for clients that accept it",
		},
		{
			DestP:   &m.storeType,
			Flag:    "store",
			Default: BoltStore,
			Desc:    fmt.Sprintf("backing store for resources (%s, %s or %s)", BoltStore, MemoryStore, DynamoDBStore),
		},
		{
			DestP:   &m.boltPath,
			Flag:    "bolt-path",
			Default: boltPath,
			Desc:    "path to boltdb database",
		},
		{
			DestP: &m.dynamoEndpoint,
			Flag:  "dynamodb-endpoint",
			Desc:  "override the DynamoDB endpoint, e.g. http://localhost:8000 for DynamoDB local",
		},
		{
			DestP:   &m.dynamoTables.Users,
			Flag:    "dynamodb-users-table",
			Default: defaults.Users,
			Desc:    "DynamoDB table holding users",
		},
		{
			DestP:   &m.dynamoTables.Products,
			Flag:    "dynamodb-products-table",
			Default: defaults.Products,
			Desc:    "DynamoDB table holding products",
		},
		{
			DestP:   &m.dynamoTables.Orders,
			Flag:    "dynamodb-orders-table",
			Default: defaults.Orders,
			Desc:    "DynamoDB table holding orders",
		},
	}
}

// Launcher represents the main program execution.
type Launcher struct {
	wg      sync.WaitGroup
	running bool

	logLevel    zapcore.Level
	logFormat   string
	tracingType string

	jaegerTracerCloser io.Closer

	httpBindAddress string
	httpGzip        bool

	storeType      string
	boltPath       string
	dynamoEndpoint string
	dynamoTables   dynamodb.Tables

	boltStore *bolt.KVStore

	httpPort   int
	httpServer *nethttp.Server

	log *zap.Logger
	reg *prometheus.Registry

	Stdout io.Writer
	Stderr io.Writer
}

// NewLauncher returns a new instance of Launcher connected to standard out/err.
func NewLauncher() *Launcher {
	return &Launcher{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Running returns true if the main Launcher has started running.
func (m *Launcher) Running() bool {
	return m.running
}

// Registry returns the prometheus metrics registry.
func (m *Launcher) Registry() *prometheus.Registry {
	return m.reg
}

// Logger returns the launchers logger.
func (m *Launcher) Logger() *zap.Logger {
	return m.log
}

// URL returns the URL to connect to the HTTP server.
func (m *Launcher) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", m.httpPort)
}

// Run parses args and starts serving. It returns once the server is
// listening; call Shutdown to stop it.
func (m *Launcher) Run(ctx context.Context, args ...string) error {
	p := &cli.Program{
		Name: programName,
		Opts: m.options(),
		Run: func() error {
			return m.run(ctx)
		},
	}

	cmd, err := cli.NewCommand(viper.New(), p)
	if err != nil {
		return err
	}
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetOut(m.Stdout)
	cmd.SetErr(m.Stderr)
	return cmd.Execute()
}

// Shutdown shuts down the HTTP server and closes the store.
func (m *Launcher) Shutdown(ctx context.Context) error {
	if !m.running {
		return nil
	}

	var err error
	m.log.Info("Stopping", zap.String("service", "http"))
	err = multierr.Append(err, m.httpServer.Shutdown(ctx))

	if m.boltStore != nil {
		m.log.Info("Stopping", zap.String("service", "bolt"))
		if cerr := m.boltStore.Close(); cerr != nil {
			m.log.Error("Failed closing bolt", zap.Error(cerr))
			err = multierr.Append(err, cerr)
		}
	}

	m.wg.Wait()
	m.running = false

	if m.jaegerTracerCloser != nil {
		if cerr := m.jaegerTracerCloser.Close(); cerr != nil {
			m.log.Error("Failed closing Jaeger tracer", zap.Error(cerr))
			err = multierr.Append(err, cerr)
		}
	}

	_ = m.log.Sync()
	return err
}

// services groups the three services the API serves.
type services struct {
	users    storefront.UserService
	products storefront.ProductService
	orders   storefront.OrderService
}

func (m *Launcher) run(ctx context.Context) (err error) {
	logconf := &storefrontlogger.Config{
		Format: m.logFormat,
		Level:  m.logLevel,
	}
	m.log, err = logconf.New(m.Stdout)
	if err != nil {
		return err
	}

	m.log.Info("Welcome to storefrontd",
		zap.String("store", m.storeType),
	)

	switch m.tracingType {
	case JaegerTracing:
		m.log.Info("Tracing via Jaeger")
		cfg, err := jaegerconfig.FromEnv()
		if err != nil {
			m.log.Error("Failed to get Jaeger client config from environment variables", zap.Error(err))
			break
		}
		if cfg.ServiceName == "" {
			cfg.ServiceName = programName
		}
		tracer, closer, err := cfg.NewTracer()
		if err != nil {
			m.log.Error("Failed to instantiate Jaeger tracer", zap.Error(err))
			break
		}
		opentracing.SetGlobalTracer(tracer)
		m.jaegerTracerCloser = closer
	case "":
	default:
		return fmt.Errorf("unknown tracing type %s; expected %s", m.tracingType, JaegerTracing)
	}

	m.reg = prometheus.NewRegistry()
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svcs, err := m.openServices(ctx)
	if err != nil {
		m.log.Error("Failed opening store", zap.String("store", m.storeType), zap.Error(err))
		if m.boltStore != nil {
			_ = m.boltStore.Close()
		}
		return err
	}

	httpLogger := m.log.With(zap.String("service", "http"))
	m.httpServer = &nethttp.Server{
		Handler:           m.handler(httpLogger, svcs),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(httpLogger),
	}

	ln, err := net.Listen("tcp", m.httpBindAddress)
	if err != nil {
		httpLogger.Error("Failed http listener", zap.Error(err))
		if m.boltStore != nil {
			_ = m.boltStore.Close()
		}
		return err
	}

	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		m.httpPort = addr.Port
	}
	m.running = true

	m.wg.Add(1)
	go func(log *zap.Logger) {
		defer m.wg.Done()
		log.Info("Listening", zap.String("transport", "http"), zap.String("addr", m.httpBindAddress), zap.Int("port", m.httpPort))

		if err := m.httpServer.Serve(ln); err != nethttp.ErrServerClosed {
			log.Error("Failed http service", zap.Error(err))
		}
		log.Info("Stopping")
	}(httpLogger)

	return nil
}

// openServices builds the services for the configured store, wrapped with
// RED metrics and debug logging.
func (m *Launcher) openServices(ctx context.Context) (services, error) {
	var (
		users    storefront.UserService
		products storefront.ProductService
		orders   storefront.OrderService
	)

	switch m.storeType {
	case BoltStore, MemoryStore:
		var kvStore kv.SchemaStore
		if m.storeType == BoltStore {
			m.boltStore = bolt.NewKVStore(m.log.With(zap.String("service", "bolt")), m.boltPath)
			if err := m.boltStore.Open(ctx); err != nil {
				return services{}, err
			}
			m.reg.MustRegister(m.boltStore)
			kvStore = m.boltStore
		} else {
			kvStore = inmem.NewKVStore()
		}

		store, err := shop.NewStore(ctx, kvStore)
		if err != nil {
			return services{}, err
		}
		svc := shop.NewService(store)
		users, products, orders = svc, svc, svc

	case DynamoDBStore:
		client, err := dynamodb.NewClient(ctx, m.dynamoEndpoint)
		if err != nil {
			return services{}, err
		}
		svc := dynamodb.NewService(client, dynamodb.WithTables(m.dynamoTables))
		users, products, orders = svc, svc, svc

	default:
		return services{}, fmt.Errorf("unknown store type %s; expected %s, %s or %s", m.storeType, BoltStore, MemoryStore, DynamoDBStore)
	}

	svcLog := m.log.With(zap.String("store", m.storeType))
	return services{
		users:    shop.NewUserLogger(svcLog.With(zap.String("service", "user")), shop.NewUserMetrics(m.reg, users)),
		products: shop.NewProductLogger(svcLog.With(zap.String("service", "product")), shop.NewProductMetrics(m.reg, products)),
		orders:   shop.NewOrderLogger(svcLog.With(zap.String("service", "order")), shop.NewOrderMetrics(m.reg, orders)),
	}, nil
}

func (m *Launcher) handler(log *zap.Logger, svcs services) nethttp.Handler {
	reqs, dur := kithttp.NewRequestMetrics(m.reg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
		kithttp.SetCORS,
		tracing.Middleware(programName),
		kithttp.LoggingMW(log),
		kithttp.Metrics(programName, reqs, dur),
	)
	if m.httpGzip {
		r.Use(gziphandler.GzipHandler)
	}

	r.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{DisableCompression: true}))
	r.Handle("/health", kithttp.HealthHandler(programName))
	r.Handle("/ready", kithttp.ReadyHandler(clock.New()))
	r.Mount("/", shop.NewAPIHandler(log, svcs.users, svcs.products, svcs.orders))

	return r
}
