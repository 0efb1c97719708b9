package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	infrapdf "github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/redisstore"
	infraxlsx "github.com/jhoicas/stock-tracker/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	if err := run(waitForSignal); err != nil {
		fmt.Fprintln(os.Stderr, "stock-tracker:", err)
		os.Exit(1)
	}
}

// waitForSignal bloquea hasta SIGINT o SIGTERM.
func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// run arma y ejecuta el servidor hasta que wait retorna. Los errores de arranque se devuelven
// para que los defer cierren el pool y el archivo de log antes de salir.
func run(wait func()) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}

	log := logger.New(logger.Config{
		Env:        cfg.App.Env,
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	defer log.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("session_store", cfg.Session.Store).
		Bool("stock_history", cfg.Inventory.HistoryEnabled).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg.DB, log)
	if err != nil {
		log.Error().Err(err).Msg("almacén de inventario")
		return fmt.Errorf("almacén de inventario: %w", err)
	}
	defer st.close()

	var sessionStorage fiber.Storage
	if cfg.Session.Store == config.SessionStoreRedis {
		redisStorage, err := redisstore.New(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Error().Err(err).Msg("conexión a Redis")
			return fmt.Errorf("conexión a Redis: %w", err)
		}
		defer redisStorage.Close()
		sessionStorage = redisStorage
	}

	authUC, err := auth.NewAuthUseCase(st.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if err != nil {
		log.Error().Err(err).Msg("inicializar auth")
		return fmt.Errorf("inicializar auth: %w", err)
	}
	applyChangeUC := inventory.NewApplyChangeUseCase(st.txRunner, cfg.Inventory.HistoryEnabled)
	stockQueryUC := inventory.NewStockQueryUseCase(st.items, st.history)

	// Exportaciones: reporte PDF de valorización y planilla Excel
	reportUC := inventory.NewReportUseCase(
		stockQueryUC,
		infrapdf.NewMarotoStockReport(cfg.App.Name),
		infraxlsx.NewExcelizeStockReport(),
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:      cfg.App.Name,
		CookieKey: cfg.Session.CookieKey(),
		Session: httpRouter.SessionConfig{
			Storage:      sessionStorage,
			TTL:          cfg.Session.TTL,
			CookieSecure: cfg.Session.CookieSecure,
		},
		SwaggerFile: cfg.App.SwaggerFile,
	}, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ApplyChange: applyChangeUC,
		StockQuery:  stockQueryUC,
		Reports:     reportUC,
		JWTSecret:   cfg.JWT.Secret,
		Ping:        st.ping,
		Log:         log,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()
	stop := make(chan struct{})
	go func() {
		wait()
		close(stop)
	}()

	select {
	case err := <-listenErr:
		log.Error().Err(err).Msg("servidor HTTP finalizado")
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-stop:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
		return fmt.Errorf("apagado del servidor: %w", err)
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
