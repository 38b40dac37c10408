package main

import (
	"context"
	"flag"
	"time"

	"github.com/Luismorlan/foodreels/store"
	. "github.com/Luismorlan/foodreels/utils"
	"github.com/Luismorlan/foodreels/utils/dotenv"
	. "github.com/Luismorlan/foodreels/utils/flag"
	. "github.com/Luismorlan/foodreels/utils/log"
	"github.com/sirupsen/logrus"
)

// seeder specific flags
var (
	users = flag.Int("users", store.DefaultSeedOptions().Users, "number of fake users to create")
	seed  = flag.Int64("seed", store.DefaultSeedOptions().Seed, "random seed, same seed same data")
)

func main() {
	ParseFlags()
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	InitLogger()

	opts := store.DefaultSeedOptions()
	opts.Users = *users
	opts.Seed = *seed

	var w store.Writer
	switch *StoreKind {
	case PostgresStore:
		db, err := GetDBConnection()
		if err != nil {
			Log.WithError(err).Fatal("fail to connect to database")
		}
		if err := DatabaseSetupAndMigration(db); err != nil {
			Log.WithError(err).Fatal("fail to migrate database")
		}
		w = store.NewGormStore(db)
	case MemoryStore:
		// dry run, only reports what would be created
		w = store.NewMemoryStore()
	default:
		Log.Fatalf("unknown store kind: %s", *StoreKind)
	}

	summary, err := store.SeedFakeData(context.Background(), w, opts, time.Now())
	if err != nil {
		Log.WithError(err).Fatal("fail to seed data")
	}
	Log.WithFields(logrus.Fields{
		"users":   summary.Users,
		"vendors": summary.Vendors,
		"videos":  summary.Videos,
		"follows": summary.Follows,
		"likes":   summary.Likes,
	}).Info("seeder done")
}
