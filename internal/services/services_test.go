package services

import (
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vikasavnish/hunterbot/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a fresh database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Submission{}, &models.SubmittedInstruction{}); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}
	return db
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []models.Message
}

func (p *recordingPublisher) Publish(msg models.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
}

func (p *recordingPublisher) ofType(typ string) []models.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.Message
	for _, m := range p.msgs {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}
