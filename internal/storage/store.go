package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"launcher-api/internal/config"
	"launcher-api/internal/constants"
	"launcher-api/internal/models"
)

// Store groups the four independent collections. There is no referential integrity
// between them.
type Store struct {
	Backend    string
	Users      Collection[models.User]
	Messages   Collection[models.Message]
	Payments   Collection[models.Payment]
	Broadcasts Collection[models.Broadcast]

	closers []func(context.Context) error
}

// NewMemoryStore creates a store that lives only in process memory
func NewMemoryStore() *Store {
	return &Store{
		Backend:    config.BackendMemory,
		Users:      NewMemoryCollection[models.User](UsersCollection),
		Messages:   NewMemoryCollection[models.Message](MessagesCollection),
		Payments:   NewMemoryCollection[models.Payment](PaymentsCollection),
		Broadcasts: NewMemoryCollection[models.Broadcast](BroadcastsCollection),
	}
}

// NewFileStore creates a store with one JSON file per collection in dir.
// prefix is prepended to every file name.
func NewFileStore(dir, prefix string, logger *logrus.Logger) *Store {
	path := func(name string) string {
		return filepath.Join(dir, prefix+name)
	}

	return &Store{
		Backend:    config.BackendFile,
		Users:      NewFileCollection[models.User](UsersCollection, path(constants.UsersFile), logger),
		Messages:   NewFileCollection[models.Message](MessagesCollection, path(constants.MessagesFile), logger),
		Payments:   NewFileCollection[models.Payment](PaymentsCollection, path(constants.PaymentsFile), logger),
		Broadcasts: NewFileCollection[models.Broadcast](BroadcastsCollection, path(constants.BroadcastsFile), logger),
	}
}

// NewMongoStore creates a store over a MongoDB database
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Backend:    config.BackendMongo,
		Users:      NewMongoCollection[models.User](db, UsersCollection),
		Messages:   NewMongoCollection[models.Message](db, MessagesCollection),
		Payments:   NewMongoCollection[models.Payment](db, PaymentsCollection),
		Broadcasts: NewMongoCollection[models.Broadcast](db, BroadcastsCollection),
	}
}

// NewPostgresStore creates a store over a PostgreSQL pool
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Backend:    config.BackendPostgres,
		Users:      NewPostgresCollection[models.User](pool, UsersCollection),
		Messages:   NewPostgresCollection[models.Message](pool, MessagesCollection),
		Payments:   NewPostgresCollection[models.Payment](pool, PaymentsCollection),
		Broadcasts: NewPostgresCollection[models.Broadcast](pool, BroadcastsCollection),
	}
}

// Open connects the backend selected by cfg
func Open(ctx context.Context, cfg config.StoreConfig, logger *logrus.Logger) (*Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage, data will not survive a restart")
		return NewMemoryStore(), nil

	case config.BackendFile, "":
		logger.Infof("Using file storage in %s", cfg.DataDir)
		return NewFileStore(cfg.DataDir, cfg.FilePrefix, logger), nil

	case config.BackendMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		logger.Infof("Using mongo storage in database %s", cfg.MongoDatabase)

		s := NewMongoStore(client.Database(cfg.MongoDatabase))
		s.closers = append(s.closers, client.Disconnect)
		return s, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		if err := migratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("Using postgres storage")

		s := NewPostgresStore(pool)
		s.closers = append(s.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Init creates empty backing storage for collections that support it and returns
// the names of the collections it created
func (s *Store) Init(ctx context.Context) ([]string, error) {
	var created []string
	for _, c := range []interface{ Name() string }{s.Users, s.Messages, s.Payments, s.Broadcasts} {
		initializer, ok := c.(Initializer)
		if !ok {
			continue
		}
		made, err := initializer.Ensure(ctx)
		if err != nil {
			return created, fmt.Errorf("failed to initialize %s: %w", c.Name(), err)
		}
		if made {
			created = append(created, c.Name())
		}
	}
	return created, nil
}

// Close releases backend connections
func (s *Store) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
