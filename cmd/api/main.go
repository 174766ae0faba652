package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/stock-api/docs"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/application/purchasing"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/application/usecase"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/stock-api/internal/interfaces/http"
	"github.com/jhoicas/stock-api/pkg/config"
	"github.com/jhoicas/stock-api/pkg/jwt"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// @title           Stock API
// @version         1.0
// @description     Libro de stock de depósito: artículos, movimientos, recepciones y órdenes de compra.
// @BasePath        /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	txRunner, repos, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer closeStore()

	verifier, err := newVerifier(ctx, cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar verificación de tokens")
	}
	defer verifier.Close()

	var archive receiving.DocumentArchive
	if cfg.Storage.Enabled() {
		minioArchive, err := storage.NewMinioArchive(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente MinIO")
		}
		if err := minioArchive.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket MinIO")
		}
		archive = minioArchive
	}

	clock := time.Now
	ledgerUC := inventory.NewLedgerUseCase(txRunner, clock, log)
	articleUC := inventory.NewArticleUseCase(txRunner, repos, ledgerUC, clock, log)
	pdfGenerator := infrapdf.NewMarotoGenerator(cfg.App.Name)
	receivingUC := receiving.NewUseCase(txRunner, repos, ledgerUC, clock, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Articles:      articleUC,
		Ledger:        ledgerUC,
		Labels:        inventory.NewLabelUseCase(repos.Articles, pdfGenerator),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Articles),
		Receiving:     receivingUC,
		ReceiptPDF:    receiving.NewPDFUseCase(repos, pdfGenerator, archive, log),
		Purchasing:    purchasing.NewUseCase(txRunner, repos, clock, log),
		Suppliers:     usecase.NewSupplierUseCase(repos.Suppliers),
		Verifier:      verifier,
		Log:           log.Named("http"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		os.Exit(1)
	}

	log.Info().Msg("aplicación detenida")
}

// openStore arma el TxRunner y los repositorios según STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (inventory.TxRunner, repository.Repositories, func(), error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return store, store.Repositories(), func() {}, nil
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			return nil, repository.Repositories{}, nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, repository.Repositories{}, nil, err
	}
	return postgres.NewTxRunner(pool), postgres.NewRepositories(pool), pool.Close, nil
}

func newVerifier(ctx context.Context, cfg config.JWTConfig) (*jwt.Verifier, error) {
	if cfg.JWKSURL != "" {
		return jwt.NewJWKSVerifier(ctx, cfg.JWKSURL, cfg.Issuer, time.Hour)
	}
	return jwt.NewHMACVerifier(cfg.Secret, cfg.Issuer)
}
