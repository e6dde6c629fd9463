package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"eduplatform/bot"
	"eduplatform/catalog"
	"eduplatform/config"
	"eduplatform/db"
	"eduplatform/middleware"
	"eduplatform/notify"
	"eduplatform/routes"
	"eduplatform/store"
	"eduplatform/workflow"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.ConfigInstance = cfg

	if err := db.InitDatabaseConnection(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseConnection()

	if err := db.EnsureSchema(db.DB); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	cat, err := catalog.Load(cfg.CoursesFile, cfg.MaterialsFile, cfg.GroupLinksFile)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to create bot API: %v", err)
	}

	st := store.New(db.DB)
	notifier := notify.NewTelegramNotifier(api)
	engine := workflow.New(st, cat, notifier, cfg.TelegramAdminID, cfg.RejectLateSubmissions)

	tgBot := bot.New(api, engine, st, cat, cfg)
	go tgBot.Run()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	middleware.ApplyMiddleware(r)

	r.Use(func(c *gin.Context) {
		c.Set("store", st)
		c.Set("engine", engine)
		c.Next()
	})

	routes.SetupRoutes(r)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
