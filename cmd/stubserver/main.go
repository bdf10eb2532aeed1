package main

import (
	"log"

	config "github.com/TopTalentDev/tutor-booking/configs"
	"github.com/TopTalentDev/tutor-booking/stub"
	"github.com/robfig/cron/v3"
)

func main() {
	store, err := stub.Connect(config.ConfigDefault("STUB_DB", "stub.db"))
	if err != nil {
		log.Fatalf("🔥 Failed to open database: %v", err)
	}
	if err := store.Migrate(); err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	if err := store.Seed(); err != nil {
		log.Fatalf("🔥 Failed to seed database: %v", err)
	}

	hub := stub.NewHub()
	go hub.Run()

	c := cron.New()
	c.AddFunc("*/5 * * * *", func() { stub.SendLessonReminders(store, hub) })
	go c.Start()
	log.Println("✅ Cron job for lesson reminders scheduled successfully.")

	app := stub.NewServer(store, hub)

	addr := ":" + config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Stub server is running on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
