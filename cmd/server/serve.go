package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"healthcare-appointments-api/internal/auth"
	"healthcare-appointments-api/internal/config"
	"healthcare-appointments-api/internal/events"
	"healthcare-appointments-api/internal/handler"
	"healthcare-appointments-api/internal/middleware"
	"healthcare-appointments-api/internal/rpc"
	"healthcare-appointments-api/internal/service"
	"healthcare-appointments-api/internal/store"
)

func serve(cfg config.Config, log zerolog.Logger) error {
	db, err := store.Open(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	st := store.New(db)
	defer st.Close()
	log.Info().Msg("connected to postgres")

	ctx := context.Background()
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	hasher, err := auth.NewHasher(cfg.PasswordHashing)
	if err != nil {
		return err
	}
	if cfg.PasswordHashing != auth.ModeBcrypt {
		log.Warn().Msg("passwords are stored in clear text; set PASSWORD_HASHING=bcrypt in production")
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events")
	}
	defer pub.Close()

	users := service.NewUsers(st, hasher, pub, log)
	docs := service.NewDoctors(st)
	appts := service.NewAppointments(st, pub, log)

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer rl.Close()

	// grpc
	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryLog(log),
			middleware.RateLimit(rl, rpc.MethodSignup, rpc.MethodLogin),
		),
	)
	rpc.Register(grpcSrv, rpc.NewServer(users, docs, appts, log))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	// http
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLog(log))
	handler.New(users, docs, appts, st, log).Routes(r, middleware.Limit(rl))

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	return run(log, grpcSrv, lis, httpSrv, stop)
}

// run serves both transports until a signal arrives or either one fails,
// then shuts both down. It returns the transport error, if any.
func run(log zerolog.Logger, grpcSrv *grpc.Server, lis net.Listener, httpSrv *http.Server, stop <-chan os.Signal) error {
	errc := make(chan error, 2)
	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("grpc listening")
		if err := grpcSrv.Serve(lis); err != nil {
			errc <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Msg("http listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("http: %w", err)
		}
	}()

	var serveErr error
	select {
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case serveErr = <-errc:
		log.Error().Err(serveErr).Msg("server failed, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	grpcSrv.GracefulStop()
	return serveErr
}
