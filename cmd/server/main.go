// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/unclebandit/smsleopard-console/internal/client"
	"github.com/unclebandit/smsleopard-console/internal/controller"
	"github.com/unclebandit/smsleopard-console/internal/db"
	"github.com/unclebandit/smsleopard-console/internal/handler"
	"github.com/unclebandit/smsleopard-console/internal/queue"
	"github.com/unclebandit/smsleopard-console/internal/repository"
	"github.com/unclebandit/smsleopard-console/internal/service"
	"github.com/unclebandit/smsleopard-console/internal/wizard"
)

func envSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB (draft autosave + submission audit)
	db.Init()
	draftRepo := &repository.DraftRepository{DB: db.DB}
	auditRepo := &repository.AuditRepository{DB: db.DB}

	// Upstream marketing API
	apiURL := os.Getenv("MARKETING_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8081"
	}
	api := client.New(apiURL)

	// Refresh-event queue: RabbitMQ when configured, in-process otherwise
	var q queue.Queue
	if url := os.Getenv("AMQP_URL"); url != "" {
		aq, err := queue.NewAMQPQueue(url)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		defer aq.Close()
		q = aq
	} else {
		q = queue.NewInMemoryQueue()
	}

	directory := service.NewGroupDirectory(api, envSeconds("GROUPS_MIN_INTERVAL", 30))
	dashboard := service.NewDashboard(api)
	sessions := wizard.NewSessionManager(directory)
	composer := service.NewComposerService(api, sessions, auditRepo, draftRepo, q)

	ctx := context.Background()
	if err := dashboard.Reload(ctx); err != nil {
		log.Println("⚠️ Initial campaign load failed:", err)
	}
	queue.StartRefreshSubscriber(q, func() error {
		return dashboard.Reload(context.Background())
	})

	// Poll the upstream connection state; reload page data on change
	poller := service.NewStatusPoller(api, envSeconds("STATUS_POLL_INTERVAL", 15), func(state string) {
		if err := dashboard.Reload(context.Background()); err != nil {
			log.Println("⚠️ Reload after state change failed:", err)
		}
	})
	poller.Start(ctx)
	defer poller.Stop()

	composerController := &controller.ComposerController{
		Sessions: sessions,
		Composer: composer,
		Drafts:   draftRepo,
	}
	dashboardHandler := handler.NewDashboardHandler(dashboard, directory, api)

	r := chi.NewRouter()

	// Composer session routes
	r.Post("/composer/sessions", composerController.OpenSession)
	r.Get("/composer/sessions/{id}", composerController.GetSession)
	r.Put("/composer/sessions/{id}/fields", composerController.PatchFields)
	r.Post("/composer/sessions/{id}/next", composerController.NextStep)
	r.Post("/composer/sessions/{id}/back", composerController.BackStep)
	r.Post("/composer/sessions/{id}/jump", composerController.JumpStep)
	r.Post("/composer/sessions/{id}/slots/{slot}/toggle", composerController.ToggleSlot)
	r.Get("/composer/sessions/{id}/groups", composerController.ListSessionGroups)
	r.Post("/composer/sessions/{id}/groups/toggle-all", composerController.ToggleAllGroups)
	r.Post("/composer/sessions/{id}/groups/{gid}/toggle", composerController.ToggleGroup)
	r.Get("/composer/sessions/{id}/review", composerController.Review)
	r.Post("/composer/sessions/{id}/submit", composerController.SubmitSession)
	r.Delete("/composer/sessions/{id}", composerController.CloseSession)
	r.Get("/composer/drafts", composerController.ListDrafts)

	// Dashboard routes
	r.Get("/dashboard/next-slot", dashboardHandler.NextSlotHandler)
	r.Get("/dashboard/campaigns", dashboardHandler.CampaignsHandler)
	r.Delete("/dashboard/campaigns/{id}", dashboardHandler.DeleteCampaignHandler)
	r.Get("/catalog/shops", dashboardHandler.ShopsHandler)
	r.Get("/health", dashboardHandler.HealthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Console running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
