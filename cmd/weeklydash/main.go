package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"weeklydash/internal/config"
	"weeklydash/internal/logger"
	"weeklydash/internal/server"
)

var (
	port    = flag.Int("port", 0, "서비스 포트 (config.toml 에 port 가 없을 때만 적용)")
	devMode = flag.Bool("dev", false, "개발 모드")
	dataDir = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  WeeklyDash - 주간 매출/광고 대시보드")
	fmt.Println("==========================================")

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		logger.L().WithError(err).Warn("설정 로드 실패, 기본 설정 사용")
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}

	if err := logger.Init(config.LoggerConfig(cfg)); err != nil {
		logger.L().WithError(err).Warn("로그 파일 설정 실패, stdout 만 사용")
	}
	log := logger.WithFields(logrus.Fields{"config": info.Path, "env": info.EnvFile})

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.WithError(err).Fatal("서버 초기화 실패")
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.WithFields(logrus.Fields{
			"port":    cfg.Server.Port,
			"dataDir": config.ResolveDataDir(cfg),
			"dev":     cfg.Server.DevMode,
		}).Info("서비스 시작")
		if err := srv.Run(addr); err != nil {
			log.WithError(err).Fatal("서비스 시작 실패")
		}
	}()

	fmt.Printf("\nhttp://localhost:%d/api/status  (Ctrl+C 로 종료)\n", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("서비스 종료 중")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("종료 중 오류")
	}
}
