package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xtding233/codefall/internal/auth"
	"github.com/xtding233/codefall/internal/config"
	"github.com/xtding233/codefall/internal/httpserver"
	"github.com/xtding233/codefall/internal/problem"
	"github.com/xtding233/codefall/internal/rpc"
	"github.com/xtding233/codefall/internal/session"
	"github.com/xtding233/codefall/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := problem.Load(os.Getenv("CATALOGUE_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("load catalogue")
	}

	profile := os.Getenv("PROFILE")
	loader := config.NewLoader(getEnv("CONFIG_DIR", "./config"))
	_, params, err := loader.Resolve(profile)
	if err != nil {
		log.Fatal().Err(err).Str("profile", profile).Msg("load config")
	}

	st, err := openStore(os.Getenv("DB_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	mgr := session.NewManager(cat, params, st)
	tokens := auth.NewSigner(os.Getenv("JWT_SECRET"))

	watcher := config.NewFileWatcher(loader.Paths().Files(profile), params.ReloadInterval, func(path string) {
		loader.Invalidate()
		_, p, err := loader.Resolve(profile)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("config reload rejected")
			return
		}
		mgr.SetParams(p)
		log.Info().Str("file", path).Str("version", p.Version).Msg("config reloaded")
	})
	watcher.Start(ctx)
	defer watcher.Stop()

	go sweep(ctx, mgr)

	httpSrv := &http.Server{
		Addr:              getEnv("HTTP_ADDR", ":8080"),
		Handler:           httpserver.New(mgr, tokens).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Int("problems", cat.Len()).Str("profile", profile).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server exited")
		}
	}()

	grpcAddr := getEnv("GRPC_ADDR", ":9090")
	grpcSrv := rpc.NewServer(mgr, tokens)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", grpcAddr).Msg("grpc listen")
	}
	go func() {
		log.Info().Str("addr", grpcAddr).Msg("grpc listening")
		if err := grpcSrv.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	grpcSrv.GracefulStop()
}

func openStore(dbPath string) (store.Store, error) {
	if dbPath == "" {
		log.Info().Msg("DB_PATH unset, runs kept in memory")
		return store.NewMemoryStore(), nil
	}
	log.Info().Str("path", dbPath).Msg("opening sqlite run archive")
	return store.OpenSQLite(dbPath)
}

// sweep drops finished and idle sessions once a minute.
func sweep(ctx context.Context, mgr *session.Manager) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := mgr.Sweep(now); n > 0 {
				log.Debug().Int("sessions", n).Msg("swept sessions")
			}
		}
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
