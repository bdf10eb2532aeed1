package stub

import (
	"log"
	"time"

	"github.com/TopTalentDev/tutor-booking/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewServer assembles the stub marketplace API.
func NewServer(store *Store, hub *Hub) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Tutor Booking Stub",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	h := &Handlers{store: store, hub: hub}

	app.Get("/v1/token", h.IssueToken)

	app.Use("/v1/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/v1/ws", websocket.New(hub.ServeWs))

	app.Get("/v1/tutors/:id/availability", middleware.Protected(), h.GetTutorAvailability)
	app.Get("/v1/lessons", middleware.Protected(), h.GetLessons)
	app.Post("/v1/lessons", middleware.Protected(), h.CreateLesson)
	app.Put("/v1/lessons/:id/propose", middleware.Protected(), h.ProposeLessonChange)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}
