package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"weeklydash/internal/calculator"
	"weeklydash/internal/config"
	"weeklydash/internal/importer"
	"weeklydash/internal/logger"
	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

var (
	tolerance = flag.Int("tolerance", 1, "기존 주차 경계와 허용 오차(일)")
	recompute = flag.Bool("recompute", false, "백필 후 모든 주차의 상품분류/판매자 통계를 다시 계산")
	dataDir   = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "사용법: %s [flags] 주차매출.xlsx ...\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "백필 실패: %v\n", err)
		os.Exit(1)
	}
}

func run(files []string) error {
	if len(files) == 0 && !*recompute {
		flag.Usage()
		return importer.ErrMissingFile
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if err := logger.Init(config.LoggerConfig(cfg)); err != nil {
		return err
	}
	if _, err := config.EnsureDataDir(cfg); err != nil {
		return err
	}

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return err
	}
	defer st.Close()

	if err := backfillRevenue(st, cfg, files); err != nil {
		return err
	}
	if *recompute {
		return recomputeAll(st)
	}
	return nil
}

// backfillRevenue 주차 실매출 파일을 차례로 적재한다. 한 파일이 실패해도 나머지는 계속한다.
func backfillRevenue(st *store.Store, cfg *config.AppConfig, files []string) error {
	if len(files) == 0 {
		return nil
	}
	coordinator := importer.NewCoordinator(st, importer.WithHeaderScanRows(cfg.Import.HeaderScanRows))
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("주차 실매출"),
		progressbar.OptionShowCount(),
	)

	var failed int
	for _, path := range files {
		bar.Describe(filepath.Base(path))
		rep, err := coordinator.Import(importer.ImportOptions{
			UploadType:    model.UploadRevenue,
			FilePath:      path,
			Filename:      filepath.Base(path),
			ToleranceDays: *tolerance,
		})
		_ = bar.Add(1)

		log := logger.WithFields(logrus.Fields{"file": path})
		if err != nil {
			failed++
			log.WithError(err).Error("백필 실패")
			continue
		}
		log.WithFields(logrus.Fields{
			"imported": rep.ImportedRows,
			"created":  len(rep.CreatedWeeks),
			"warnings": len(rep.Warnings),
		}).Info("백필 완료")
		for _, w := range rep.Warnings {
			log.WithField("row", w.RowNo).Warn(w.Message)
		}
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	if failed > 0 {
		return fmt.Errorf("%d/%d 개 파일 실패", failed, len(files))
	}
	return nil
}

// recomputeAll 저장된 거래로 모든 주차 통계를 다시 만든다.
func recomputeAll(st *store.Store) error {
	weeks, err := st.ListWeeks()
	if err != nil {
		return err
	}
	calc := calculator.NewCalculator(st)
	bar := progressbar.NewOptions(len(weeks),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("통계 재계산"),
		progressbar.OptionShowCount(),
	)
	for _, w := range weeks {
		if _, _, err := calc.RecomputeWeek(w.ID); err != nil {
			return fmt.Errorf("주차 %d (%s): %w", w.ID, w.Title, err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	return nil
}
