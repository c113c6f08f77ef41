package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"math/big"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/AnanthuNarashimman/Skeduler/internal/engine"
	"github.com/AnanthuNarashimman/Skeduler/internal/models"
	"github.com/AnanthuNarashimman/Skeduler/internal/repository"
	"github.com/AnanthuNarashimman/Skeduler/pkg/config"
	"github.com/AnanthuNarashimman/Skeduler/pkg/database"
	"github.com/AnanthuNarashimman/Skeduler/pkg/export"
)

// Generic staff entries that never get personal accounts.
var skipNames = map[string]bool{
	"Other Faculty": true,
	"HOD":           true,
	"Mentors":       true,
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// seed-teachers creates instructor accounts for every staff member listed in
// a configuration record and writes the generated credentials to CSV so the
// department office can hand them out.
func main() {
	dataPath := flag.String("data", "data.json", "configuration record listing the staff")
	outPath := flag.String("out", "teacher_credentials.csv", "where to write the generated credentials")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *dataPath, err)
	}
	var record engine.Config
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Fatalf("failed to decode %s: %v", *dataPath, err)
	}

	repo := repository.NewTeacherRepository(db)
	ctx := context.Background()

	dataset := export.Dataset{Headers: []string{"name", "username", "password", "email"}}
	created := 0

	for _, name := range record.Staff {
		if skipNames[name] {
			log.Printf("skipping generic entry %q", name)
			continue
		}

		username := usernameFor(name)
		password, err := randomPassword(8)
		if err != nil {
			log.Fatalf("failed to generate password: %v", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		email := username + "@skeduler.edu"
		teacher := &models.Teacher{
			Name:         name,
			Username:     username,
			PasswordHash: string(hash),
			Email:        &email,
			Department:   cfg.Department,
		}
		if err := repo.Create(ctx, teacher); err != nil {
			if errors.Is(err, repository.ErrUsernameTaken) {
				log.Printf("skipping %q: username %q already exists", name, username)
				continue
			}
			log.Fatalf("failed to create teacher %q: %v", name, err)
		}

		dataset.Rows = append(dataset.Rows, map[string]string{
			"name":     name,
			"username": username,
			"password": password,
			"email":    email,
		})
		created++
	}

	csvData, err := export.NewCSVExporter().Render(dataset)
	if err != nil {
		log.Fatalf("failed to render credentials csv: %v", err)
	}
	if err := os.WriteFile(*outPath, csvData, 0o600); err != nil {
		log.Fatalf("failed to write %s: %v", *outPath, err)
	}

	log.Printf("created %d teacher accounts, credentials written to %s", created, *outPath)
}

// usernameFor derives first.last from a display name, dropping titles.
func usernameFor(name string) string {
	for _, title := range []string{"Mr.", "Mrs.", "Ms.", "Dr."} {
		name = strings.ReplaceAll(name, title, "")
	}
	parts := strings.Fields(strings.TrimSpace(name))
	switch len(parts) {
	case 0:
		return "teacher"
	case 1:
		return strings.ToLower(parts[0])
	default:
		return strings.ToLower(parts[0]) + "." + strings.ToLower(parts[len(parts)-1])
	}
}

func randomPassword(length int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(passwordAlphabet[n.Int64()])
	}
	return sb.String(), nil
}
