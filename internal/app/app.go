// Package app はアプリケーションの起動とワイヤリングを担当する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/memoria/internal/auth"
	"github.com/hitoshi/memoria/internal/config"
	"github.com/hitoshi/memoria/internal/database"
	"github.com/hitoshi/memoria/internal/handler"
	"github.com/hitoshi/memoria/internal/logger"
	"github.com/hitoshi/memoria/internal/memory"
	"github.com/hitoshi/memoria/internal/metrics"
	"github.com/hitoshi/memoria/internal/password"
	"github.com/hitoshi/memoria/internal/repository"
	"github.com/hitoshi/memoria/internal/token"
)

// Init はアプリケーションの初期化を行う。
// .envファイルがあれば読み込み、JSON構造化ログをセットアップしてから
// 環境変数でConfigを組み立てる。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. .envファイルの読み込み。無いのは本番環境では正常。
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.String("reason", err.Error()))
	}

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.Server.Port),
		slog.String("database", cfg.Mongo.Database),
	)

	return runServe(cfg)
}

// runServe はAPIサーバーモードで起動する。
// ドキュメントストアへの接続を開き、全依存関係をワイヤリングし、
// HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ドキュメントストアへの接続
	connectCtx, connectCancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer connectCancel()

	client, err := database.Connect(connectCtx, cfg.Mongo)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Error("mongodb disconnect failed", slog.String("error", err.Error()))
		}
	}()

	db := client.Database(cfg.Mongo.Database)
	if err := database.EnsureIndexes(connectCtx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewMongoUserRepo(db)
	saveRepo := repository.NewMongoSaveRepo(db)

	// 3. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. ドメインサービスの初期化
	tokens := token.NewService([]byte(cfg.Auth.JWTSecret))
	hasher := password.NewHasher()
	authService := auth.NewService(userRepo, hasher, tokens, collector)
	memoryService := memory.NewService(saveRepo, collector)

	// 5. ルーターの構築
	router := handler.NewRouter(handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService),
		Memory:         handler.NewMemoryHandler(memoryService),
		Verifier:       tokens,
		Metrics:        collector,
		Gatherer:       registry,
		Healthcheck:    database.Healthcheck(client),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// ルートエンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
