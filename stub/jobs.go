package stub

import (
	"log"
	"time"

	"github.com/TopTalentDev/tutor-booking/models"
	"github.com/google/uuid"
)

// SendLessonReminders pushes a reminder event to both participants of every
// lesson starting in roughly an hour. Meant to run every 5 minutes; the
// 60-65 minute window keeps each lesson reminded exactly once.
func SendLessonReminders(store *Store, hub *Hub) {
	log.Println("Running job: SendLessonReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcoming []LessonRecord
	err := store.DB.
		Where("starts_at BETWEEN ? AND ?", lowerBound, upperBound).
		Find(&upcoming).Error
	if err != nil {
		log.Printf("Error checking for upcoming lessons: %v", err)
		return
	}

	for _, rec := range upcoming {
		log.Printf("Sending reminder for lesson ID: %s", rec.ID)
		hub.Push([]uuid.UUID{rec.StudentID, rec.TutorID}, "reminder", map[string]any{
			"lesson":    wireLesson(rec),
			"starts_in": models.FormatDurationMinutes(rec.StartsAt.Sub(now).Minutes()),
		})
	}
}
