package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HarshalBhogawade/project-management-backend/config"
	"github.com/HarshalBhogawade/project-management-backend/handlers"
	"github.com/HarshalBhogawade/project-management-backend/logging"
	"github.com/HarshalBhogawade/project-management-backend/services"
	"github.com/HarshalBhogawade/project-management-backend/store"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting project management backend...")

	if err := config.Load(); err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", config.AppConfig.MongoURI)

	db := client.Database(config.AppConfig.MongoDBName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create unique indexes: %v", err)
	}

	mongoBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "MongoCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	users := store.NewMongo(db.Collection("users"), mongoBreaker)
	projects := store.NewMongo(db.Collection("projects"), mongoBreaker)
	tasks := store.NewMongo(db.Collection("tasks"), mongoBreaker)

	blackList := map[string]bool{}
	if path := config.AppConfig.PasswordBlacklistPath; path != "" {
		blackList, err = services.LoadBlackList(path)
		if err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: Failed to load password blacklist from %s: %v", path, err)
		}
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords.", len(blackList))
	}

	userService := services.NewUserService(users, blackList)
	projectService := services.NewProjectService(projects)
	taskService := services.NewTaskService(tasks, projects, users)

	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	router := handlers.NewRouter(authHandler, projectHandler, taskHandler)
	corsRouter := enableCORS(router)

	serverAddress := fmt.Sprintf(":%s", config.AppConfig.ServerPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
