package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"weeklydash/internal/config"
	"weeklydash/internal/importer"
	"weeklydash/internal/logger"
	"weeklydash/internal/model"
	"weeklydash/internal/parser"
	"weeklydash/internal/store"
)

var (
	uploadType = flag.String("type", "transactions", "업로드 종류 (transactions, revenue, consultants, ads)")
	file       = flag.String("file", "", "xlsx/csv 파일 경로")
	reportID   = flag.Int64("report", 0, "대상 주차 id (ads, consultants 는 필수)")
	tolerance  = flag.Int("tolerance", 0, "revenue: 기존 주차 경계와 허용 오차(일)")
	dataDir    = flag.String("dataDir", "", "데이터 디렉터리 (설정 파일보다 우선)")
)

// 진행 단계: start, parsed, saved, done
const progressSteps = 4

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "업로드 실패: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	typ, ok := model.ParseUploadType(*uploadType)
	if !ok {
		return fmt.Errorf("%w: %s", importer.ErrInvalidUploadType, *uploadType)
	}
	if *file == "" {
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

	coordinator := importer.NewCoordinator(st,
		importer.WithSellers(parser.NewSellerClassifier(cfg.Sellers.OpsTeam, cfg.Sellers.Departed)),
		importer.WithHeaderScanRows(cfg.Import.HeaderScanRows),
	)

	bar := progressbar.NewOptions(progressSteps,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(filepath.Base(*file)),
		progressbar.OptionShowCount(),
	)

	opts := importer.ImportOptions{
		UploadType:    typ,
		FilePath:      *file,
		Filename:      filepath.Base(*file),
		ToleranceDays: *tolerance,
		OnProgress: func(e importer.ProgressEvent) {
			bar.Describe(e.Message)
			if e.Type != "error" {
				_ = bar.Add(1)
			}
		},
	}
	if *reportID > 0 {
		opts.ReportID = reportID
	}

	rep, err := coordinator.Import(opts)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"batch":    rep.BatchID,
		"total":    rep.TotalRows,
		"imported": rep.ImportedRows,
		"skipped":  rep.SkippedRows,
		"unlinked": rep.UnlinkedRows,
		"weeks":    rep.AffectedWeeks,
	}).Info("업로드 완료")
	for _, w := range rep.Warnings {
		fmt.Printf("  %d행: %s\n", w.RowNo, w.Message)
	}
	return nil
}
