package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dodgearena/server"
)

// 入口：启动 HTTP + WebSocket 服务，并启动敌人推进循环
func main() {
	var (
		addr     string
		webDir   string
		logFile  string
		logLevel string
	)
	flag.StringVar(&addr, "addr", ":8000", "server listen address, e.g. :8000")
	flag.StringVar(&webDir, "web", "web", "static client directory")
	flag.StringVar(&logFile, "log-file", "app.log", "log file path (empty logs to stderr)")
	flag.StringVar(&logLevel, "log-level", "debug", "log level: debug, info, warn, error")
	flag.Parse()

	opts := server.DefaultLogOptions(logFile)
	opts.Level = logLevel
	if err := server.InitLogger(opts); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	arena := server.NewArena(server.DefaultConfig())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go arena.RunSimulator(ctx)

	srv := &http.Server{Addr: addr, Handler: server.SetupRoutes(arena, webDir)}

	go func() {
		server.Log.Infof("arena listening on %s; open http://localhost%v/", addr, addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Errorf("listen: %v", err)
			os.Exit(1)
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		server.Log.Warnf("shutdown: %v", err)
	}
}
