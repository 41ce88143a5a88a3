package main

import (
	"context"
	"flag"
	"log"

	"docsmith/internal/config"
	models "docsmith/internal/domain/models/authoring"
	authoringSvc "docsmith/internal/domain/services/authoring"
	"docsmith/internal/repository/postgres"
	postgresAuthoring "docsmith/internal/repository/postgres/authoring"
	serviceAuthoring "docsmith/internal/service/authoring"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed projects")
	clearData := flag.Bool("clear-data", false, "Delete the seed user's projects (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		n, err := postgres.ClearUserData(ctx, pool, tables, cfg.DevUserID)
		if err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Printf("Deleted %d projects and all templates of user %s", n, cfg.DevUserID)
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	repos := serviceAuthoring.Repositories{
		Projects:    postgresAuthoring.NewProjectRepository(repoConfig),
		Documents:   postgresAuthoring.NewDocumentRepository(repoConfig),
		Refinements: postgresAuthoring.NewRefinementRepository(repoConfig),
		Feedback:    postgresAuthoring.NewFeedbackRepository(repoConfig),
		Templates:   postgresAuthoring.NewTemplateRepository(repoConfig),
		Tx:          postgres.NewTransactionManager(pool, logger),
	}

	// Seeding only configures outlines, so no model is needed
	services := serviceAuthoring.SetupServices(repos, nil, nil, cfg, logger)

	for i, seed := range seedProjects() {
		seed.project.UserID = cfg.DevUserID
		project, err := services.Project.CreateProject(ctx, &seed.project)
		if err != nil {
			log.Printf("Failed to create project '%s': %v", seed.project.Title, err)
			continue
		}

		doc, err := services.Document.Configure(ctx, project.ID, cfg.DevUserID, &authoringSvc.ConfigureDocumentRequest{
			Structure: seed.structure,
		})
		if err != nil {
			log.Printf("Failed to configure outline of '%s': %v", project.Title, err)
			continue
		}

		log.Printf("Created project %d: %s (ID: %s, %d %ss)",
			i+1, project.Title, project.ID, len(doc.Structure), project.DocumentType.UnitName())
	}

	for _, docType := range []models.DocumentType{models.DocumentTypeWord, models.DocumentTypePowerPoint} {
		tmpl, err := services.Template.CreateTemplate(ctx, &authoringSvc.CreateTemplateRequest{
			UserID:       cfg.DevUserID,
			Name:         "House style",
			DocumentType: string(docType),
			IsDefault:    true,
		})
		if err != nil {
			log.Printf("Failed to create %s template: %v", docType, err)
			continue
		}
		log.Printf("Created default %s template (ID: %s)", docType, tmpl.ID)
	}

	log.Println("Seeding complete")
}

type seedProject struct {
	project   authoringSvc.CreateProjectRequest
	structure models.Structure
}

func seedProjects() []seedProject {
	return []seedProject{
		{
			project: authoringSvc.CreateProjectRequest{
				Title:        "Market Analysis: EV Batteries",
				DocumentType: string(models.DocumentTypeWord),
				MainTopic:    "Market outlook for electric vehicle batteries through 2030",
			},
			structure: models.Structure{
				{ID: "section-1", Title: "Executive Summary", Order: 0},
				{ID: "section-2", Title: "Market Size and Growth", Order: 1},
				{ID: "section-3", Title: "Competitive Landscape", Order: 2},
				{ID: "section-4", Title: "Supply Chain Risks", Order: 3},
				{ID: "section-5", Title: "Recommendations", Order: 4},
			},
		},
		{
			project: authoringSvc.CreateProjectRequest{
				Title:        "Onboarding Deck",
				DocumentType: string(models.DocumentTypePowerPoint),
				MainTopic:    "First week onboarding for new backend engineers",
			},
			structure: models.Structure{
				{ID: "slide-1", Title: "Welcome", Order: 0},
				{ID: "slide-2", Title: "Team and Services", Order: 1},
				{ID: "slide-3", Title: "Local Development Setup", Order: 2},
				{ID: "slide-4", Title: "On-call Basics", Order: 3},
			},
		},
	}
}
