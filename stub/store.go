// Package stub is a self-contained rendition of the marketplace backend for
// local development: the REST contract the api client speaks, the websocket
// hub pushing lesson confirmations, and enough storage to keep both honest.
package stub

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type UserRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	FirstName       string    `gorm:"size:80;not null"`
	LastName        string    `gorm:"size:80"`
	Timezone        string    `gorm:"size:64"`
	Role            string    `gorm:"size:20;not null;default:'student'"`
	CanMeetInPerson bool
	HasPaymentCard  bool
	CreatedAt       time.Time
}

type SubjectRecord struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key"`
	Name string    `gorm:"size:120;not null"`
}

type TutorSubjectRecord struct {
	TutorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SubjectID uuid.UUID `gorm:"type:uuid;not null"`
}

type SlotRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	TutorID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StartTime  time.Time `gorm:"not null"`
	EndTime    time.Time `gorm:"not null"`
	Occurrence int       `gorm:"not null;default:1"`
}

type LessonRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	TutorID         uuid.UUID `gorm:"type:uuid;not null;index"`
	StudentID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SubjectID       uuid.UUID `gorm:"type:uuid;not null"`
	StartsAt        time.Time `gorm:"not null"`
	EndsAt          time.Time `gorm:"not null"`
	DurationMinutes int       `gorm:"not null"`
	Meet            int       `gorm:"not null"`
	Location        string    `gorm:"size:255"`
	RecurrentCount  int
	Status          string `gorm:"size:20;not null;default:'pending'"`

	ProposedStartTime *time.Time
	ProposedEndTime   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Store struct {
	DB *gorm.DB
}

// Connect opens the SQLite database at path; ":memory:" keeps everything
// in-process for tests.
func Connect(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}
	return &Store{DB: db}, nil
}

func (s *Store) Migrate() error {
	return s.DB.AutoMigrate(
		&UserRecord{},
		&SubjectRecord{},
		&TutorSubjectRecord{},
		&SlotRecord{},
		&LessonRecord{},
	)
}

// Seed installs a deterministic tutor, student and availability for playing
// with the client. Idempotent.
func (s *Store) Seed() error {
	var count int64
	s.DB.Model(&UserRecord{}).Count(&count)
	if count > 0 {
		return nil
	}

	tutor := UserRecord{
		ID:              uuid.MustParse("6f9619ff-8b86-4d01-b42d-00cf4fc964ff"),
		FirstName:       "Alice",
		LastName:        "Brown",
		Timezone:        "America/New_York",
		Role:            "tutor",
		CanMeetInPerson: true,
	}
	student := UserRecord{
		ID:             uuid.MustParse("886313e1-3b8a-5372-9b90-0c9aee199e5d"),
		FirstName:      "Bob",
		LastName:       "Stone",
		Timezone:       "America/New_York",
		Role:           "student",
		HasPaymentCard: true,
	}
	subject := SubjectRecord{ID: uuid.MustParse("91f46ca2-9d63-42a1-bb4b-0ea7e3f58ee1"), Name: "Algebra"}

	if err := s.DB.Create(&[]UserRecord{tutor, student}).Error; err != nil {
		return err
	}
	if err := s.DB.Create(&subject).Error; err != nil {
		return err
	}
	if err := s.DB.Create(&TutorSubjectRecord{TutorID: tutor.ID, SubjectID: subject.ID}).Error; err != nil {
		return err
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	slots := []SlotRecord{
		{ID: uuid.New(), TutorID: tutor.ID, StartTime: day.Add(14 * time.Hour), EndTime: day.Add(16 * time.Hour), Occurrence: 1},
		{ID: uuid.New(), TutorID: tutor.ID, StartTime: day.Add(18 * time.Hour), EndTime: day.Add(20 * time.Hour), Occurrence: 3},
	}
	if err := s.DB.Create(&slots).Error; err != nil {
		return err
	}

	log.Println("✅ Stub database seeded")
	return nil
}

// LessonsBetween returns lessons involving the user that start inside the
// window.
func (s *Store) LessonsBetween(userID uuid.UUID, from, to time.Time) ([]LessonRecord, error) {
	var lessons []LessonRecord
	err := s.DB.
		Where("(student_id = ? OR tutor_id = ?) AND starts_at BETWEEN ? AND ?", userID, userID, from, to).
		Order("starts_at asc").
		Find(&lessons).Error
	return lessons, err
}

// SlotsBetween returns a tutor's availability slots overlapping the window.
func (s *Store) SlotsBetween(tutorID uuid.UUID, from, to time.Time) ([]SlotRecord, error) {
	var slots []SlotRecord
	err := s.DB.
		Where("tutor_id = ? AND end_time >= ? AND start_time <= ?", tutorID, from, to).
		Order("start_time asc").
		Find(&slots).Error
	return slots, err
}
