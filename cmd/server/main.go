package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/Luismorlan/foodreels/app_config"
	"github.com/Luismorlan/foodreels/engagement"
	"github.com/Luismorlan/foodreels/feed"
	"github.com/Luismorlan/foodreels/server"
	"github.com/Luismorlan/foodreels/server/middlewares"
	"github.com/Luismorlan/foodreels/store"
	. "github.com/Luismorlan/foodreels/utils"
	"github.com/Luismorlan/foodreels/utils/dotenv"
	. "github.com/Luismorlan/foodreels/utils/flag"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/sirupsen/logrus"
)

// view marks expire so a returning viewer eventually counts again
const viewMarkTTL = 30 * 24 * time.Hour

// backend is the store chosen by -store. Both implementations serve the feed
// reads and the engagement writes.
type backend interface {
	feed.Store
	engagement.Store
}

func cleanup() {
	CloseProfiler()
	CloseTracer()
	Log.Info("api server shutdown")
}

func openStore(ctx context.Context) (backend, error) {
	switch *StoreKind {
	case PostgresStore:
		db, err := GetDBConnection()
		if err != nil {
			return nil, err
		}
		if err := DatabaseSetupAndMigration(db); err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	case MemoryStore:
		s := store.NewMemoryStore()
		if _, err := store.SeedFakeData(ctx, s, store.DefaultSeedOptions(), time.Now()); err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store kind: %s", *StoreKind)
}

// viewTracker dedupes signed in views in redis when it is configured, and in
// process otherwise.
func viewTracker(ctx context.Context) engagement.ViewTracker {
	if os.Getenv("REDIS_HOST") == "" {
		return engagement.NewMemoryViewTracker()
	}
	views, err := GetRedisViewStatusStore(ctx, viewMarkTTL)
	if err != nil {
		Log.WithError(err).Warn("redis unavailable, deduping views in process")
		return engagement.NewMemoryViewTracker()
	}
	return views
}

func statsdClient() statsd.ClientInterface {
	host := os.Getenv("DD_AGENT_HOST")
	if host == "" {
		return &statsd.NoOpClient{}
	}
	client, err := statsd.New(fmt.Sprintf("%s:8125", host))
	if err != nil {
		Log.WithError(err).Warn("fail to create statsd client, metrics disabled")
		return &statsd.NoOpClient{}
	}
	return client
}

func main() {
	ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()
	defer cleanup()

	if *EnableTracing {
		StartTracer(*ServiceName)
		if err := StartProfiler(*ServiceName); err != nil {
			Log.WithError(err).Warn("profiler disabled")
		}
	}

	config, err := app_config.ParseFeedAppConfig(*FeedConfigPath)
	if err != nil {
		Log.WithError(err).Fatal("fail to load feed config")
	}

	ctx := context.Background()
	s, err := openStore(ctx)
	if err != nil {
		Log.WithError(err).Fatal("fail to open store")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		Log.Fatal("JWT_SECRET is not set")
	}

	router := server.NewRouter(server.RouterConfig{
		ServiceName: *ServiceName,
		Feed: &server.FeedHandlers{
			Feed: feed.NewService(s, config, rand.New(rand.NewSource(time.Now().UnixNano()))),
		},
		Engagement: &server.EngagementHandlers{
			Engagement: engagement.NewService(s, viewTracker(ctx)),
		},
		Auth:          middlewares.NewAuthenticator([]byte(secret), s),
		Statsd:        statsdClient(),
		EnableTracing: *EnableTracing,
	})

	Log.WithFields(logrus.Fields{
		"port":  *Port,
		"store": *StoreKind,
	}).Info("api server starts up")
	if err := router.Run(fmt.Sprintf(":%d", *Port)); err != nil {
		Log.WithError(err).Fatal("api server stopped")
	}
}
