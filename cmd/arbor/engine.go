package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/seedworks/arbor"
	"github.com/seedworks/arbor/internal/logging"
	"github.com/seedworks/arbor/internal/metrics"
	"github.com/seedworks/arbor/pkg/adapters/memory"
	redisadapter "github.com/seedworks/arbor/pkg/adapters/redis"
	"github.com/seedworks/arbor/pkg/flows/faq"
	"github.com/seedworks/arbor/pkg/flows/tutor"
	"github.com/seedworks/arbor/pkg/ports"
)

// application bundles everything a command needs to run flows.
type application struct {
	engine *arbor.Engine
	faq    *faq.Flow
	tutor  *tutor.Flow

	// closer releases the store connection, if any.
	closer func() error
}

func (a *application) Close() error {
	if a.closer != nil {
		return a.closer()
	}
	return nil
}

// defaultCorpus seeds the FAQ lookup when no corpus file is given.
var defaultCorpus = []memory.Entry{
	{Question: "What is Arbor?", Answer: "Arbor is a compiled decision-graph engine for conversational flows."},
	{Question: "How do sessions work?", Answer: "Each invocation runs to completion; sessions carry the state between invocations."},
	{Question: "How many hints does the tutor give?", Answer: "Two. After that, the full solution is explained."},
}

// newApplication wires the engine from the command flags: logger, store
// (Redis or in-memory), metrics, and both bundled flows.
func newApplication(cmd *cobra.Command) (*application, error) {
	level, _ := cmd.Flags().GetString("log-level")
	logger := logging.New(logging.ParseLevel(level))

	app := &application{}

	var store ports.StateStore
	var locker ports.DistributedLocker
	redisAddr, _ := cmd.Flags().GetString("redis-addr")
	if redisAddr != "" {
		password, _ := cmd.Flags().GetString("redis-password")
		db, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("session-ttl")

		client := backend.NewClient(&backend.Options{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		})
		store = redisadapter.NewFromClient(client, redisadapter.WithTTL(ttl))
		locker = redisadapter.NewLocker(client, "arbor:")
		app.closer = client.Close
		logger.Info("using redis session store", "addr", redisAddr)
	} else {
		store = memory.NewStore()
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)

	eng, err := arbor.New(
		arbor.WithLogger(logger),
		arbor.WithStateStore(store),
		arbor.WithLocker(locker),
		arbor.WithLifecycleHooks(recorder.Hooks()),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}
	app.engine = eng

	lookup, err := loadCorpus(cmd)
	if err != nil {
		return nil, err
	}

	completer := newArithmeticCompleter()
	app.faq = faq.New(lookup, completer, memory.NewFeedbackLog(), faq.WithLogger(logger))
	app.tutor = tutor.New(completer, tutor.WithLogger(logger))

	faqCompiled, err := app.faq.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling faq flow: %w", err)
	}
	tutorCompiled, err := app.tutor.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling tutor flow: %w", err)
	}

	if err := eng.Register(faqCompiled); err != nil {
		return nil, err
	}
	if err := eng.Register(tutorCompiled); err != nil {
		return nil, err
	}
	return app, nil
}

func loadCorpus(cmd *cobra.Command) (*memory.Lookup, error) {
	path, _ := cmd.Flags().GetString("faq-corpus")
	if path == "" {
		return memory.NewLookup(defaultCorpus...), nil
	}

	lookup, err := memory.LoadCorpus(path)
	if err != nil {
		return nil, fmt.Errorf("loading faq corpus %s: %w", path, err)
	}
	return lookup, nil
}
