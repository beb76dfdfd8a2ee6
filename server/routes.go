package server

import "net/http"

// SetupRoutes 注册 WebSocket、监控与静态资源路由
func SetupRoutes(arena *Arena, webDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/ws/{name}", NewHandler(arena))
	mux.HandleFunc("/metrics", HandleMetrics(arena))
	mux.HandleFunc("/state", HandleState(arena))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	// 前后端分离：将 / 映射到 web 目录的静态资源
	mux.Handle("/", http.FileServer(http.Dir(webDir)))
	return mux
}
