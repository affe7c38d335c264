package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDatabase opens a private in-memory sqlite database with every table migrated.
func newTestDatabase(t *testing.T) *DatabaseService {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(Models()...))

	ds := NewDatabaseService(db)
	t.Cleanup(ds.Shutdown)
	return ds
}

// stubGenerator answers prompts with reply and records every prompt it saw.
type stubGenerator struct {
	mu      sync.Mutex
	prompts []string
	reply   func(prompt string) (string, error)
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	return g.reply(prompt)
}

func (g *stubGenerator) calls(substr string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, p := range g.prompts {
		if strings.Contains(p, substr) {
			n++
		}
	}
	return n
}

func failingGenerator(err error) *stubGenerator {
	return &stubGenerator{reply: func(string) (string, error) { return "", err }}
}

func fixedGenerator(text string) *stubGenerator {
	return &stubGenerator{reply: func(string) (string, error) { return text, nil }}
}
