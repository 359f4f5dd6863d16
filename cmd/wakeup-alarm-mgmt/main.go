package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/alarms"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/application/countdown"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/router"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/scheduler"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/infrastructure/storage"
	"github.com/diwise/wakeup-alarm-mgmt/internal/pkg/presentation/api"
	"github.com/go-chi/chi/v5"
)

const serviceName string = "wakeup-alarm-mgmt"

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort

	policiesFile
	configurationFile

	dbHost
	dbUser
	dbPassword
	dbPort
	dbName
	dbSSLMode

	devmode
)

func defaultFlags() flagMap {
	return flagMap{
		listenAddress: "0.0.0.0",
		servicePort:   "8080",

		policiesFile:      "/opt/diwise/config/authz.rego",
		configurationFile: "/opt/diwise/config/config.yaml",

		dbHost:     "",
		dbUser:     "",
		dbPassword: "",
		dbPort:     "5432",
		dbName:     "diwise",
		dbSSLMode:  "disable",

		devmode: "false",
	}
}

func main() {
	ctx, flags := parseExternalConfig(context.Background(), defaultFlags())

	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")
	defer cleanup()

	cfgFile, err := os.Open(flags[configurationFile])
	exitIf(err, logger, "could not open configuration file")

	cfg, err := alarms.LoadConfiguration(cfgFile)
	cfgFile.Close()
	exitIf(err, logger, "could not parse configuration file")

	policies, err := os.Open(flags[policiesFile])
	exitIf(err, logger, "unable to open opa policy file")

	mux, err := initialize(ctx, flags, cfg, policies)
	exitIf(err, logger, "failed to initialize service")

	apiPort := fmt.Sprintf(":%s", flags[servicePort])
	logger.Info("starting to listen for incoming connections", slog.String("port", apiPort))

	err = http.ListenAndServe(apiPort, mux)
	exitIf(err, logger, "failed to listen for incoming connections")
}

func initialize(ctx context.Context, flags flagMap, cfg *alarms.Config, policies io.ReadCloser) (*chi.Mux, error) {
	defer policies.Close()

	log := logging.GetFromContext(ctx)

	store, err := newStorage(ctx, flags)
	if err != nil {
		return nil, fmt.Errorf("could not create or connect to database: %w", err)
	}

	messenger, err := messaging.Initialize(ctx, messaging.LoadConfiguration(ctx, serviceName, log))
	if err != nil {
		return nil, fmt.Errorf("failed to init messenger: %w", err)
	}
	messenger.Start()

	sched := scheduler.New()
	go sched.Run(ctx)

	svc := alarms.New(store, sched, messenger, countdown.New(), cfg)

	err = svc.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start alarm service: %w", err)
	}

	err = svc.RegisterTopicMessageHandlers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to register topic message handlers: %w", err)
	}

	return api.RegisterHandlers(ctx, router.New(serviceName), policies, svc)
}

func newStorage(ctx context.Context, flags flagMap) (alarms.CollectionStore, error) {
	if flags[devmode] == "true" {
		return storage.NewInMemory(), nil
	}

	s, err := storage.New(ctx, storage.NewConfig(
		flags[dbHost], flags[dbUser], flags[dbPassword], flags[dbPort], flags[dbName], flags[dbSSLMode],
	))
	if err != nil {
		return nil, err
	}

	err = s.CreateTables(ctx)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func parseExternalConfig(ctx context.Context, flags flagMap) (context.Context, flagMap) {
	// Allow environment variables to override certain defaults
	envOrDef := env.GetVariableOrDefault

	flags[listenAddress] = envOrDef(ctx, "LISTEN_ADDRESS", flags[listenAddress])
	flags[servicePort] = envOrDef(ctx, "SERVICE_PORT", flags[servicePort])

	flags[policiesFile] = envOrDef(ctx, "POLICIES_FILE", flags[policiesFile])

	flags[dbHost] = envOrDef(ctx, "POSTGRES_HOST", flags[dbHost])
	flags[dbPort] = envOrDef(ctx, "POSTGRES_PORT", flags[dbPort])
	flags[dbName] = envOrDef(ctx, "POSTGRES_DBNAME", flags[dbName])
	flags[dbUser] = envOrDef(ctx, "POSTGRES_USER", flags[dbUser])
	flags[dbPassword] = envOrDef(ctx, "POSTGRES_PASSWORD", flags[dbPassword])
	flags[dbSSLMode] = envOrDef(ctx, "POSTGRES_SSLMODE", flags[dbSSLMode])

	apply := func(f flagType) func(string) error {
		return func(value string) error {
			flags[f] = value
			return nil
		}
	}

	// Allow command line arguments to override defaults and environment variables
	flag.Func("policies", "an authorization policy file", apply(policiesFile))
	flag.Func("config", "alarm service configuration file", apply(configurationFile))
	flag.Func("devmode", "enable dev mode", apply(devmode))
	flag.Parse()

	return ctx, flags
}

func exitIf(err error, logger *slog.Logger, msg string, args ...any) {
	if err != nil {
		logger.With(args...).Error(msg, "err", err.Error())
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}
}
