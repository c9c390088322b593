package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"

	"workflow-platform/internal/config"
	"workflow-platform/internal/logging"
	"workflow-platform/internal/repository"
	"workflow-platform/pkg/models"
)

// seedFile is the document read by the seeder.
type seedFile struct {
	Workflows []struct {
		Name       string            `yaml:"name"`
		Definition models.Definition `yaml:"definition"`
	} `yaml:"workflows"`
}

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	file := flag.String("file", "workflows.yaml", "YAML document with the workflows to create")
	owner := flag.String("owner", "dev-user", "owner identity of the seeded workflows")
	configPath := flag.String("config", "", "config file")
	flag.Parse()

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	var seeds seedFile
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		log.Fatalf("Failed to parse seed file %s: %v", *file, err)
	}

	// Connect to DB
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	// Check for existing workflows to prevent duplicates
	existingWorkflows, err := store.ListWorkflows(ctx, *owner)
	if err != nil {
		log.Fatalf("Failed to list existing workflows: %v", err)
	}

	existingMap := make(map[string]bool)
	for _, w := range existingWorkflows {
		existingMap[w.Name] = true
	}

	created := 0
	for _, s := range seeds.Workflows {
		if existingMap[s.Name] {
			logger.Info("Skipping existing workflow", "name", s.Name)
			continue
		}

		wf := &models.Workflow{
			OwnerID:    *owner,
			Name:       s.Name,
			Definition: s.Definition,
		}
		if err := store.CreateWorkflow(ctx, wf); err != nil {
			logger.Error("Failed to create workflow", "name", s.Name, "error", err)
			continue
		}
		created++
		logger.Info("Seeded workflow", "name", s.Name, "id", wf.ID)
	}
	logger.Info(fmt.Sprintf("Seeding complete: %d created", created), "owner", *owner)
}
