package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/readly-app/backend/config"
	"github.com/readly-app/backend/handlers"
	"github.com/readly-app/backend/middleware"
	"github.com/readly-app/backend/service"
	"github.com/readly-app/backend/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()
	if err := db.EnsureIndexes(ctx); err != nil {
		log.Fatal("mongodb indexes:", err)
	}

	var s3Service *service.S3Service
	if cfg.S3Bucket != "" {
		s3Service, err = service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
	} else {
		log.Println("warning: AWS_S3_BUCKET not set; profile image uploads will fail")
	}

	var mailSender service.MailSender = &service.ConsoleMailSender{}
	if cfg.SMTPHost != "" {
		mailSender = service.NewSMTPMailSender(service.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	composer := &service.FeedComposer{Follows: db, Reviews: db, History: db, Users: db}
	stats := &service.Stats{Shelf: db, Reviews: db, History: db}
	hydrator := &service.Hydrator{Catalog: &service.Catalog{}, Concurrency: cfg.HydrateConcurrency}

	authHandler := &handlers.AuthHandler{Users: db, JWTSecret: cfg.JWTSecret, Mail: mailSender}
	shelfHandler := &handlers.ShelfHandler{Shelf: db, History: db, Hydrator: hydrator}
	reviewHandler := &handlers.ReviewHandler{Reviews: db, History: db}
	feedHandler := &handlers.FeedHandler{Composer: composer}
	followHandler := &handlers.FollowHandler{Follows: db}
	usersHandler := &handlers.UsersHandler{Users: db, Stats: stats}
	uploadHandler := &handlers.UploadHandler{
		Users:    db,
		S3:       s3Service,
		MaxBytes: cfg.MaxUploadMB * 1024 * 1024,
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"welcome to readly."}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Post("/status", shelfHandler.SetStatus)
			r.Post("/page", shelfHandler.SetPage)
			r.Get("/progress/{externalBookID}", shelfHandler.Progress)
			r.Get("/shelf/{shelfName}", shelfHandler.List)
			r.Post("/review", reviewHandler.Create)
			r.Get("/review", reviewHandler.ListByBook)
			r.Get("/feed/review", feedHandler.ReviewFeed)
			r.Get("/feed/history", feedHandler.HistoryFeed)
			r.Post("/follow", followHandler.Follow)
			r.Delete("/follow", followHandler.Unfollow)
			r.Get("/me", usersHandler.Me)
			r.Patch("/me", usersHandler.UpdateMe)
			r.Get("/users/{id}", usersHandler.Get)
			r.Post("/upload", uploadHandler.Upload)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
