package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"txnsense/internal/config"
	"txnsense/internal/constants"
	"txnsense/internal/logger"
	"txnsense/pkg/migrations"
	"txnsense/pkg/retry"
)

// Connections holds whichever backing services the configuration asked for. Unused
// fields stay nil.
type Connections struct {
	Postgres    *sql.DB
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
}

type DatabaseConnector struct {
	Config *config.Config
	Logger logger.Logger
}

func NewDatabaseConnector(cfg *config.Config, log logger.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Config: cfg,
		Logger: log,
	}
}

// PostgresDSN builds a lib/pq connection URL from cfg.
func PostgresDSN(cfg config.PostgresConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		sslMode,
	)
}

// Connect opens the store selected by database.driver and, when the rate cache lives
// in Redis, the Redis client. Each dependency is retried with the database.connect
// policy before giving up.
func (dc *DatabaseConnector) Connect(ctx context.Context) (*Connections, error) {
	conns := &Connections{}

	switch dc.Config.Database.Driver {
	case constants.DriverPostgres:
		db, err := dc.InitPostgreSQL(ctx)
		if err != nil {
			return nil, err
		}
		conns.Postgres = db
	case constants.DriverMongoDB:
		client, err := dc.InitMongoDB(ctx)
		if err != nil {
			return nil, err
		}
		conns.MongoClient = client
		conns.MongoDB = client.Database(dc.mongoDatabaseName())
	}

	if dc.Config.Currency.CacheBackend == "redis" {
		rdb, err := dc.InitRedis(ctx)
		if err != nil {
			dc.ShutdownDatabases(ctx, conns)
			return nil, err
		}
		conns.Redis = rdb
	}

	if dc.Config.Database.RunMigrations {
		if err := dc.Migrate(ctx, conns); err != nil {
			dc.ShutdownDatabases(ctx, conns)
			return nil, err
		}
	}

	return conns, nil
}

func (dc *DatabaseConnector) mongoDatabaseName() string {
	if dc.Config.Database.MongoDB.Database != "" {
		return dc.Config.Database.MongoDB.Database
	}
	return constants.DefaultMongoDBName
}

// Migrate brings the Postgres schema up to date or creates the Mongo indexes.
func (dc *DatabaseConnector) Migrate(ctx context.Context, conns *Connections) error {
	if conns.Postgres != nil {
		if err := migrations.MigratePostgresUp(conns.Postgres); err != nil {
			return err
		}
		version, dirty, err := migrations.PostgresVersion(conns.Postgres)
		if err != nil {
			return err
		}
		dc.Logger.Infow("PostgreSQL migrations applied", "version", version, "dirty", dirty)
	}
	if conns.MongoDB != nil {
		if err := migrations.EnsureMongoIndexes(ctx, conns.MongoDB); err != nil {
			return err
		}
		dc.Logger.Info("MongoDB indexes ensured")
	}
	return nil
}

func (dc *DatabaseConnector) connectWithRetry(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	policy := retry.FromConfig(dc.Config.Database.Connect)
	err := retry.Do(ctx, policy, fn, func(attempt int, err error, next time.Duration) {
		dc.Logger.Warnw("Dependency not reachable yet, retrying",
			"dependency", name,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"next_delay", next,
			"error", err,
		)
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", name, err)
	}
	return nil
}

func (dc *DatabaseConnector) InitRedis(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", dc.Config.Database.Redis.Host, dc.Config.Database.Redis.Port),
		Password: dc.Config.Database.Redis.Password,
		DB:       dc.Config.Database.Redis.DB,
	})

	err := dc.connectWithRetry(ctx, "redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if err != nil {
		rdb.Close()
		return nil, err
	}

	dc.Logger.Info("Redis connected successfully")
	return rdb, nil
}

func (dc *DatabaseConnector) InitPostgreSQL(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", PostgresDSN(dc.Config.Database.Postgres))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = dc.connectWithRetry(ctx, "postgresql", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	dc.Logger.Info("PostgreSQL connected successfully")
	return db, nil
}

func (dc *DatabaseConnector) InitMongoDB(ctx context.Context) (*mongo.Client, error) {
	mongoOpts := options.Client().ApplyURI(dc.Config.Database.MongoDB.URI)
	mongoClient, err := mongo.Connect(ctx, mongoOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	err = dc.connectWithRetry(ctx, "mongodb", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, nil)
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	dc.Logger.Info("MongoDB connected successfully")
	return mongoClient, nil
}

func (dc *DatabaseConnector) ShutdownDatabases(ctx context.Context, conns *Connections) []error {
	var errs []error
	if conns == nil {
		return errs
	}

	if conns.Redis != nil {
		if err := conns.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if conns.Postgres != nil {
		if err := conns.Postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close error: %w", err))
		}
	}

	if conns.MongoClient != nil {
		if err := conns.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect error: %w", err))
		}
	}

	return errs
}
