package di

import (
	"context"
	"fmt"
	"taskhub/application/serviceimpl"
	"taskhub/domain/ports"
	"taskhub/domain/repositories"
	"taskhub/domain/services"
	"taskhub/infrastructure/activity"
	"taskhub/infrastructure/memory"
	"taskhub/infrastructure/mongodb"
	natspkg "taskhub/infrastructure/nats"
	"taskhub/infrastructure/postgres"
	redispkg "taskhub/infrastructure/redis"
	"taskhub/infrastructure/storage"
	"taskhub/infrastructure/websocket"
	"taskhub/interfaces/api/handlers"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
	"taskhub/pkg/scheduler"
	"time"

	"gorm.io/gorm"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"

	activityPruneJobID = "activity-prune"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	MongoClient    *mongodb.Client
	RedisClient    *redispkg.Client // optional, completion cache
	NATSClient     *natspkg.Client  // optional, activity bus
	Storage        ports.StoragePort
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository     repositories.UserRepository
	ProjectRepository  repositories.ProjectRepository
	TaskRepository     repositories.TaskRepository
	ActivityRepository repositories.ActivityRepository

	// Services
	UserService     services.UserService
	ProjectService  services.ProjectService
	TaskService     services.TaskService
	ActivityService services.ActivityService
	ExportService   services.ExportService

	// Activity fan-out
	ActivityDispatcher   *activity.Dispatcher
	ActivitySubscriber   *natspkg.ActivitySubscriber
	WebSocketManager     *websocket.Manager
	ActivityBroadcaster  *websocket.ActivityBroadcaster
	stopWebSocketManager context.CancelFunc
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initActivity(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initStore(); err != nil {
		return err
	}

	// Redis is optional - completion stats are computed on every read without it
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			logger.Info("Redis client initialized", "url", c.Config.Redis.URL)
		}
	}

	// NATS is optional - activity is pushed to websockets in-process without it
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{URL: c.Config.NATS.URL})
		if err != nil {
			logger.Warn("NATS client initialization failed (in-process activity feed)", "error", err)
		} else {
			c.NATSClient = natsClient
		}
	}

	if err := c.initStorage(); err != nil {
		logger.Warn("Export storage unavailable (export disabled)", "error", err)
	}

	return nil
}

// initStore connects the backing store selected by STORE_DRIVER.
func (c *Container) initStore() error {
	switch c.Config.Store.Driver {
	case StoreDriverPostgres:
		dbConfig := postgres.DatabaseConfig{
			Host:     c.Config.Database.Host,
			Port:     c.Config.Database.Port,
			User:     c.Config.Database.User,
			Password: c.Config.Database.Password,
			DBName:   c.Config.Database.DBName,
			SSLMode:  c.Config.Database.SSLMode,
			Verbose:  c.Config.IsDevelopment(),
		}

		db, err := postgres.NewDatabase(dbConfig)
		if err != nil {
			return err
		}
		c.DB = db
		logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated")

	case StoreDriverMongo:
		mongoClient, err := mongodb.NewClient(mongodb.ClientConfig{
			URI:      c.Config.Mongo.URI,
			Database: c.Config.Mongo.Database,
		})
		if err != nil {
			return err
		}
		c.MongoClient = mongoClient
		logger.Info("MongoDB connected", "database", c.Config.Mongo.Database)

	case StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")

	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want postgres, mongo or memory)", c.Config.Store.Driver)
	}

	return nil
}

// initStorage creates the export sink from config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Config := storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 Storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localConfig := storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		}
		localStorage, err := storage.NewLocalStorage(localConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initRepositories() error {
	switch {
	case c.DB != nil:
		c.UserRepository = postgres.NewUserRepository(c.DB)
		c.ProjectRepository = postgres.NewProjectRepository(c.DB)
		c.TaskRepository = postgres.NewTaskRepository(c.DB)
		c.ActivityRepository = postgres.NewActivityRepository(c.DB)

	case c.MongoClient != nil:
		db := c.MongoClient.Database()
		c.UserRepository = mongodb.NewUserRepository(db)
		c.ProjectRepository = mongodb.NewProjectRepository(db)
		c.TaskRepository = mongodb.NewTaskRepository(db)
		c.ActivityRepository = mongodb.NewActivityRepository(db)

	default:
		c.UserRepository = memory.NewUserRepository()
		c.ProjectRepository = memory.NewProjectRepository()
		c.TaskRepository = memory.NewTaskRepository()
		c.ActivityRepository = memory.NewActivityRepository()
	}

	logger.Info("Repositories initialized", "driver", c.Config.Store.Driver)
	return nil
}

// initActivity wires the observer every service emits to: the activity log
// recorder, the bus publisher and the live websocket feed.
func (c *Container) initActivity() error {
	c.WebSocketManager = websocket.NewManager()

	ctx, cancel := context.WithCancel(context.Background())
	c.stopWebSocketManager = cancel
	go c.WebSocketManager.Run(ctx)

	c.ActivityDispatcher = activity.NewDispatcher(activity.NewRecorder(c.ActivityRepository))

	if c.NATSClient != nil {
		c.ActivityDispatcher.Add(activity.NewPublisherObserver(natspkg.NewActivityPublisher(c.NATSClient.JetStream())))

		c.ActivitySubscriber = natspkg.NewActivitySubscriber(c.NATSClient.Conn())
		c.ActivityBroadcaster = websocket.NewActivityBroadcaster(c.WebSocketManager, c.ActivitySubscriber)
		if err := c.ActivityBroadcaster.Start(ctx); err != nil {
			return fmt.Errorf("failed to start activity broadcaster: %w", err)
		}
		logger.Info("Activity feed initialized", "transport", "nats")
		return nil
	}

	c.ActivityBroadcaster = websocket.NewActivityBroadcaster(c.WebSocketManager, nil)
	c.ActivityDispatcher.Add(c.ActivityBroadcaster)
	logger.Info("Activity feed initialized", "transport", "in-process")
	return nil
}

func (c *Container) initServices() error {
	c.ProjectService = serviceimpl.NewProjectService(c.ProjectRepository, c.ActivityDispatcher)
	c.UserService = serviceimpl.NewUserService(
		c.UserRepository,
		c.ProjectService,
		c.Config.JWT.Secret,
		c.Config.JWT.TTL,
	)

	if c.RedisClient != nil {
		c.TaskService = serviceimpl.NewTaskService(
			c.TaskRepository,
			c.ProjectRepository,
			c.ActivityDispatcher,
			serviceimpl.WithCompletionCache(c.RedisClient, c.Config.Redis.TTL),
		)
		logger.Info("Task service initialized with Redis cache")
	} else {
		c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.ProjectRepository, c.ActivityDispatcher)
		logger.Info("Task service initialized without cache")
	}

	c.ActivityService = serviceimpl.NewActivityService(c.ActivityRepository)

	if c.Storage != nil {
		c.ExportService = serviceimpl.NewExportService(c.TaskRepository, c.Storage)
	}

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	retention := time.Duration(c.Config.Activity.RetentionDays) * 24 * time.Hour
	if retention <= 0 {
		logger.Info("Activity retention disabled")
		return nil
	}

	err := c.EventScheduler.AddJob(activityPruneJobID, c.Config.Activity.PruneCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		removed, err := c.ActivityService.PruneOlderThan(ctx, retention)
		if err != nil {
			logger.Error("Activity prune failed", "error", err)
			return
		}
		logger.Info("Activity log pruned", "removed", removed, "retention_days", c.Config.Activity.RetentionDays)
	})
	if err != nil {
		return fmt.Errorf("failed to register activity prune job: %w", err)
	}

	c.EventScheduler.Start()
	if job, ok := c.EventScheduler.GetJob(activityPruneJobID); ok && job.NextRun != nil {
		logger.Info("Activity prune job registered", "cron", job.CronExpr, "next_run", job.NextRun.Format(time.RFC3339))
	}
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.ActivityBroadcaster != nil {
		if err := c.ActivityBroadcaster.Stop(); err != nil {
			logger.Warn("Failed to stop activity broadcaster", "error", err)
		}
	}

	if c.stopWebSocketManager != nil {
		c.stopWebSocketManager()
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Close(); err != nil {
			logger.Warn("Failed to close MongoDB connection", "error", err)
		} else {
			logger.Info("MongoDB connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:      c.UserService,
		TaskService:      c.TaskService,
		ProjectService:   c.ProjectService,
		ActivityService:  c.ActivityService,
		ExportService:    c.ExportService,
		WebSocketManager: c.WebSocketManager,
	}
}
