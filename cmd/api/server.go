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

	"cinelist/proj/internal/lib/logger"
)

func (app *Application) serve() error {
	server := http.Server{
		Addr:         net.JoinHostPort(app.cfg.Server.Host, app.cfg.Server.Port),
		Handler:      app.routes(),
		ReadTimeout:  app.cfg.Server.ReadTimeout,
		WriteTimeout: app.cfg.Server.WriteTimeout,
		IdleTimeout:  app.cfg.Server.IdleTimeout,
		ErrorLog:     logger.LogAdapter(app.log),
	}
	app.bgTasks.Run()

	shutdownErr := make(chan error)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		app.log.Info("shutting down the server gracefully", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
		defer cancel()
		shutdownErr <- app.shutdown(ctx, &server)
	}()

	app.log.Info("starting server", "url", fmt.Sprintf("http://%s", server.Addr), "storage", app.cfg.Storage.Driver)
	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
		defer cancel()
		return errors.Join(err, app.bgTasks.Shutdown(ctx))
	}
	err = <-shutdownErr
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			app.log.Error("graceful shutdown timed out.. forcing exit", "timeout", app.cfg.Server.ShutdownTimeout)
			return fmt.Errorf("graceful shutdown timed out: %w", err)
		}
		return err
	}
	app.log.Info("server successfully stopped")
	return nil
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops srv and drains background tasks even when srv fails to stop.
func (app *Application) shutdown(ctx context.Context, srv shutdowner) error {
	srvErr := srv.Shutdown(ctx)
	return errors.Join(srvErr, app.bgTasks.Shutdown(ctx))
}
