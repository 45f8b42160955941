package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/analysis"
	"resume-analyzer/internal/identity"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/llm/gemini"
	"resume-analyzer/internal/llm/openai"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	ResumesRepo     resumes.Repo
	ResumesService  *resumes.Service
	AnalysisService *analysis.Service
	IdentityClient  identity.Client

	ResumesHandler  *resumes.Handler
	AnalysisHandler *analysis.Handler
	AuthHandler     *identity.Handler
	GoogleAuth      *identity.GoogleService
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	identityClient, err := buildIdentity(cfg)
	if err != nil {
		return nil, err
	}

	var resumesRepo resumes.Repo
	if sqlDB != nil {
		resumesRepo = &resumes.PGRepo{DB: sqlDB}
	} else {
		resumesRepo = resumes.NewMemoryRepo()
	}

	resumeSvc := &resumes.Service{Store: store, Repo: resumesRepo}
	analysisSvc := &analysis.Service{
		LLM:      llmClient,
		Provider: cfg.LLMProvider,
		Model:    cfg.LLMModel,
	}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Store:           store,
		ResumesRepo:     resumesRepo,
		ResumesService:  resumeSvc,
		AnalysisService: analysisSvc,
		IdentityClient:  identityClient,
		ResumesHandler:  resumes.NewHandler(resumeSvc),
		AnalysisHandler: analysis.NewHandler(analysisSvc, resumeSvc),
		AuthHandler:     identity.NewHandler(identityClient),
		GoogleAuth: identity.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
		),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Handlers: []server.RouteRegistrar{
			app.AuthHandler,
			app.GoogleAuth,
			app.ResumesHandler,
			app.AnalysisHandler,
		},
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: GEMINI_API_KEY empty; analysis calls will be refused")
				return llm.PlaceholderClient{}, nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func buildIdentity(cfg config.Config) (identity.Client, error) {
	if strings.TrimSpace(cfg.AuthBaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: AUTH_BASE_URL empty; using in-memory accounts")
			return identity.NewLocalClient(), nil
		}
		return nil, fmt.Errorf("AUTH_BASE_URL is required")
	}
	return identity.NewHTTPClient(cfg.AuthBaseURL, cfg.AuthAPIKey)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
