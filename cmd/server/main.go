package main

import (
	"context"
	"flag"
	"os"

	"github.com/Luismorlan/newsdesk/accounts"
	"github.com/Luismorlan/newsdesk/notifier"
	"github.com/Luismorlan/newsdesk/server"
	"github.com/Luismorlan/newsdesk/server/middlewares"
	. "github.com/Luismorlan/newsdesk/utils"
	"github.com/Luismorlan/newsdesk/utils/dotenv"
	. "github.com/Luismorlan/newsdesk/utils/flag"
	. "github.com/Luismorlan/newsdesk/utils/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	gintrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// credential endpoints, per client ip
	credentialRate  = rate.Limit(1)
	credentialBurst = 10
)

func cleanup() {
	if !*IsDevelopment {
		CloseProfiler()
		CloseTracer()
	}
	Log.Info("api server shutdown")
}

func openDB() *gorm.DB {
	db, err := GetDBConnection()
	if err != nil {
		Log.Fatal("fail to connect database : ", err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		Log.Fatal("fail to migrate database : ", err)
	}
	return db
}

// runInit grants the manager flag to an existing user:
//
//	server init -user <username> -make-manager
func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	username := fs.String("user", "", "username of an existing account")
	makeManager := fs.Bool("make-manager", false, "grant the publisher manager flag")
	fs.Parse(args)

	if *username == "" || !*makeManager {
		fs.Usage()
		os.Exit(2)
	}
	service := &accounts.Service{DB: openDB()}
	user, err := service.GrantManager(*username)
	if err != nil {
		Log.Fatal("fail to grant manager : ", err)
	}
	Log.WithField("user_id", user.Id).Infof("%s is now a publisher manager", user.Username)
}

func main() {
	if err := dotenv.LoadDotEnvs(); err != nil {
		panic(err)
	}
	ParseFlags()
	InitLogger()

	if args := flag.Args(); len(args) > 0 && args[0] == "init" {
		runInit(args[1:])
		return
	}

	defer cleanup()
	ctx := context.Background()

	tokens, err := accounts.NewTokenIssuer(os.Getenv("JWT_SECRET"))
	if err != nil {
		Log.Fatal(err)
	}
	mailer, err := newMailer()
	if err != nil {
		Log.Fatal("fail to set up mailer : ", err)
	}
	poster, err := newPoster(ctx)
	if err != nil {
		Log.Fatal("fail to set up social poster : ", err)
	}
	timeout, err := notifyTimeout()
	if err != nil {
		Log.Fatal(err)
	}
	sessions, err := newResetSessionStore(ctx)
	if err != nil {
		Log.Fatal("fail to set up reset sessions : ", err)
	}

	db := openDB()
	s := &server.Server{
		DB: db,
		Accounts: &accounts.Service{
			DB:       db,
			Mailer:   mailer,
			Sessions: sessions,
			BaseURL:  baseURL(),
			From:     envOrDefault("MAIL_FROM", defaultFrom),
		},
		Tokens: tokens,
		Pipeline: &notifier.Pipeline{
			DB:      db,
			Mailer:  mailer,
			Poster:  poster,
			Metrics: NewStatsdClient(),
			BaseURL: baseURL(),
			From:    envOrDefault("MAIL_FROM", defaultFrom),
			Timeout: timeout,
		},
		Limiter:        middlewares.NewIPRateLimiter(credentialRate, credentialBurst),
		AllowedOrigins: allowedOrigins(),
		SecureCookies:  dotenv.IsProdEnv(),
	}

	extra := []gin.HandlerFunc{}
	if !*IsDevelopment {
		StartTracer(*ServiceName)
		if err := StartProfiler(*ServiceName); err != nil {
			Log.Error("fail to start profiler : ", err)
		}
		extra = append(extra, gintrace.Middleware(*ServiceName))
	}

	router := s.Router(extra...)
	Log.Infof("api server starts up at %s", *ListenAddr)
	if err := router.Run(*ListenAddr); err != nil {
		Log.Fatal("api server stopped : ", err)
	}
}
