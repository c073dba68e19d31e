package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pulseform/survey-api/src/api/config"
	"github.com/pulseform/survey-api/src/api/data"
	"github.com/pulseform/survey-api/src/api/session"
	"github.com/pulseform/survey-api/src/api/types"
	"github.com/pulseform/survey-api/src/api/webserver"
)

var allModels = []interface{}{
	&types.Question{}, &types.Response{}, &types.AdminUser{},
}

func migrate(db *gorm.DB) {
	err := db.AutoMigrate(allModels...)

	if err == nil {
		return
	}

	log.Printf("auto-migrate failed (%v) - dropping & recreating schema", err)
	_ = db.Migrator().DropTable("responses", "questions", "admin_users")
	if err := db.AutoMigrate(allModels...); err != nil {
		log.Fatalf("migrate after drop: %v", err)
	}
}

func seedAdmin(db *gorm.DB, email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}

	var admin types.AdminUser
	if err := db.Where(types.AdminUser{Email: email}).
		Attrs(types.AdminUser{PasswordHash: string(hash)}).
		FirstOrCreate(&admin).Error; err != nil {
		log.Fatalf("seed admin: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db := data.MustPostgres(cfg.PostgresDSN)
	migrate(db)
	seedAdmin(db, cfg.AdminEmail, cfg.AdminPassword)

	rdb := data.MustRedis(cfg.RedisURL)
	store := session.NewRedisStore(rdb)

	router := webserver.New(cfg, db, rdb, store)
	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	serve := func() error { return httpSrv.ListenAndServe() }
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		reloader, err := webserver.NewTLSReloader(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			log.Fatalf("tls: %v", err)
		}
		httpSrv.TLSConfig = reloader.GetConfig()
		serve = func() error { return httpSrv.ListenAndServeTLS("", "") }
	}

	go func() {
		if err := serve(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()
	log.Printf("Survey API listening on %s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()
	_ = httpSrv.Shutdown(shutCtx)
}
