package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"weeklydash/internal/calculator"
	"weeklydash/internal/logger"
	"weeklydash/internal/model"
	"weeklydash/internal/parser"
	"weeklydash/internal/store"
	"weeklydash/internal/week"
)

// Coordinator 업로드 한 건을 읽기 → 헤더 해석 → 정규화 → 주차 연결 → 집계 → 저장까지 처리한다
type Coordinator struct {
	store          *store.Store
	calc           *calculator.Calculator
	sellers        *parser.SellerClassifier
	headerScanRows int
}

// Option Coordinator 설정
type Option func(*Coordinator)

// WithSellers 판매자 소속 분류 명단
func WithSellers(sellers *parser.SellerClassifier) Option {
	return func(c *Coordinator) { c.sellers = sellers }
}

// WithHeaderScanRows 헤더 탐색 행 수
func WithHeaderScanRows(n int) Option {
	return func(c *Coordinator) { c.headerScanRows = n }
}

// NewCoordinator 업로드 코디네이터 생성
func NewCoordinator(store *store.Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:          store,
		calc:           calculator.NewCalculator(store),
		headerScanRows: parser.DefaultHeaderScanRows,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ImportOptions 업로드 옵션. Reader 가 있으면 FilePath 대신 쓴다.
type ImportOptions struct {
	UploadType model.UploadType
	FilePath   string
	Reader     io.Reader
	Filename   string
	ReportID   *int64

	// ToleranceDays 매출 백필에서 기존 주차와 경계가 이만큼 어긋나도 같은 주차로 본다.
	// 오프라인 백필 도구에서만 쓴다.
	ToleranceDays int

	OnProgress func(ProgressEvent)
}

// ProgressEvent 진행 이벤트
type ProgressEvent struct {
	Type      string    `json:"type"` // start/parsed/saved/done/error
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Report 업로드 결과
type Report struct {
	BatchID       string                `json:"batchId"`
	UploadType    model.UploadType      `json:"uploadType"`
	Filename      string                `json:"filename"`
	ReportID      *int64                `json:"reportId,omitempty"`
	HeaderRow     int                   `json:"headerRow"`
	Mapping       []parser.FieldMapping `json:"mapping"`
	TotalRows     int                   `json:"totalRows"`
	ImportedRows  int                   `json:"importedRows"`
	SkippedRows   int                   `json:"skippedRows"`
	UnlinkedRows  int                   `json:"unlinkedRows"`
	Warnings      []model.RowWarning    `json:"warnings"`
	AffectedWeeks []int64               `json:"affectedWeeks"`
	CreatedWeeks  []model.ReportingWeek `json:"createdWeeks,omitempty"`
	Duration      time.Duration         `json:"-"`
}

func (r *Report) warn(rowNo int, format string, args ...any) {
	r.Warnings = append(r.Warnings, model.RowWarning{RowNo: rowNo, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) addAffected(id int64) {
	for _, v := range r.AffectedWeeks {
		if v == id {
			return
		}
	}
	r.AffectedWeeks = append(r.AffectedWeeks, id)
}

// importContext 업로드 한 건의 처리 상태
type importContext struct {
	opts   ImportOptions
	report *Report
	week   *model.ReportingWeek
	log    *logrus.Entry
}

// Import 업로드 한 건을 동기로 처리한다.
//
// 헤더/필수 컬럼 오류는 파일 전체를 거부하고 아무것도 저장하지 않는다.
// 행 단위 오류는 해당 행만 건너뛰고 Report.Warnings 에 남긴다.
func (c *Coordinator) Import(opts ImportOptions) (*Report, error) {
	startTime := time.Now()

	if _, ok := model.ParseUploadType(string(opts.UploadType)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUploadType, opts.UploadType)
	}
	if opts.Reader == nil && opts.FilePath == "" {
		return nil, ErrMissingFile
	}
	if opts.Filename == "" {
		opts.Filename = filepath.Base(opts.FilePath)
	}
	if opts.ReportID == nil && (opts.UploadType == model.UploadAds || opts.UploadType == model.UploadConsultants) {
		return nil, ErrMissingWeek
	}

	ctx := &importContext{
		opts: opts,
		report: &Report{
			BatchID:       uuid.NewString(),
			UploadType:    opts.UploadType,
			Filename:      opts.Filename,
			ReportID:      opts.ReportID,
			Warnings:      []model.RowWarning{},
			AffectedWeeks: []int64{},
		},
	}
	ctx.log = logger.WithFields(logrus.Fields{
		"batch": ctx.report.BatchID,
		"type":  opts.UploadType,
		"file":  opts.Filename,
	})
	if opts.ReportID != nil {
		ctx.log = ctx.log.WithField("report", *opts.ReportID)
	}

	if opts.ReportID != nil {
		w, err := c.store.GetWeek(*opts.ReportID)
		if err != nil {
			return nil, err
		}
		ctx.week = &w
	}

	logID, err := c.store.CreateImportLog(ctx.report.BatchID, opts.UploadType, opts.Filename, opts.ReportID)
	if err != nil {
		return nil, err
	}

	c.sendProgress(ctx, "start", "업로드 처리 시작", map[string]string{"filename": opts.Filename})

	if err := c.doImport(ctx, logID); err != nil {
		ctx.log.WithError(err).Warn("import failed")
		if uerr := c.store.UpdateImportLog(logID, ctx.report.TotalRows, 0, ctx.report.TotalRows, "failed", err.Error()); uerr != nil {
			ctx.log.WithError(uerr).Error("failed to record import failure")
		}
		c.sendProgress(ctx, "error", err.Error(), nil)
		return nil, err
	}

	r := ctx.report
	r.SkippedRows = r.TotalRows - r.ImportedRows
	r.Duration = time.Since(startTime)
	if err := c.store.UpdateImportLog(logID, r.TotalRows, r.ImportedRows, r.SkippedRows, "completed", ""); err != nil {
		return nil, err
	}

	ctx.log.WithFields(logrus.Fields{
		"total":    r.TotalRows,
		"imported": r.ImportedRows,
		"skipped":  r.SkippedRows,
		"weeks":    r.AffectedWeeks,
		"duration": r.Duration.String(),
	}).Info("import completed")
	c.sendProgress(ctx, "done", "업로드 완료", r)
	return r, nil
}

func (c *Coordinator) doImport(ctx *importContext, logID int64) error {
	sheet, err := c.readSheet(ctx.opts)
	if err != nil {
		return err
	}

	parsed, err := parser.Parse(sheet, parser.ParseOptions{
		UploadType:     ctx.opts.UploadType,
		HeaderScanRows: c.headerScanRows,
	})
	if err != nil {
		return err
	}

	r := ctx.report
	r.HeaderRow = parsed.HeaderRow
	r.Mapping = parsed.Mapping
	r.TotalRows = parsed.TotalRows
	r.Warnings = append(r.Warnings, parsed.Warnings...)
	for _, w := range parsed.Warnings {
		ctx.log.WithFields(logrus.Fields{"row": w.RowNo}).Warn(w.Message)
	}
	if err := c.store.SetImportMapping(logID, parsed.HeaderRow, parsed.Mapping); err != nil {
		return err
	}

	c.sendProgress(ctx, "parsed", fmt.Sprintf("%d 행 해석 완료", parsed.ParsedRows()), map[string]int{
		"header_row": parsed.HeaderRow,
		"total_rows": parsed.TotalRows,
		"parsed":     parsed.ParsedRows(),
	})

	switch ctx.opts.UploadType {
	case model.UploadTransactions:
		err = c.importTransactions(ctx, parsed.Transactions)
	case model.UploadRevenue:
		err = c.importRevenue(ctx, parsed.Revenue)
	case model.UploadConsultants:
		err = c.importConsultants(ctx, parsed.Consultants)
	case model.UploadAds:
		err = c.importAds(ctx, parsed.Ads)
	}
	return err
}

func (c *Coordinator) readSheet(opts ImportOptions) (*parser.Sheet, error) {
	if opts.Reader != nil {
		return parser.ReadSheet(opts.Reader, opts.Filename)
	}
	if _, err := os.Stat(opts.FilePath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingFile, opts.FilePath)
	}
	return parser.ReadFile(opts.FilePath)
}

// importTransactions 거래 업로드.
// reportId 가 있으면 모든 행이 그 주차 안이어야 하고 벗어난 행은 건너뛴다.
// 이때 그 주차의 기존 거래는 이번 파일로 통째로 바뀐다.
// 없으면 행마다 결제일로 주차를 찾고, 못 찾은 행은 주차 미연결로 저장한다.
func (c *Coordinator) importTransactions(ctx *importContext, rows []model.TransactionRow) error {
	r := ctx.report
	txs := calculator.BuildTransactions(rows, calculator.BuildOptions{
		Sellers:    c.sellers,
		BatchID:    r.BatchID,
		SourceFile: r.Filename,
	})

	kept := txs[:0]
	if ctx.week != nil {
		for _, tx := range txs {
			if !ctx.week.Contains(tx.PaymentDate) {
				r.warn(tx.RowNo, "결제일 %s 이(가) 주차 %s~%s 밖입니다", tx.PaymentDate, ctx.week.StartDate, ctx.week.EndDate)
				continue
			}
			id := ctx.week.ID
			tx.ReportID = &id
			kept = append(kept, tx)
		}
	} else {
		weeks, err := c.store.ListWeeks()
		if err != nil {
			return err
		}
		matcher := week.NewMatcher(weeks)
		for _, tx := range txs {
			if w, ok := matcher.Match(tx.PaymentDate); ok {
				id := w.ID
				tx.ReportID = &id
			} else {
				r.UnlinkedRows++
			}
			kept = append(kept, tx)
		}
	}
	// 건너뛴 행을 뺀 나머지로 다시 정제
	calculator.RefinePaymentCounts(kept)

	var affected []int64
	var err error
	if ctx.week != nil {
		affected, err = c.store.ReplaceWeekTransactions(ctx.week.ID, kept)
	} else {
		affected, err = c.store.SaveTransactions(kept)
	}
	if err != nil {
		return err
	}
	r.ImportedRows = len(kept)
	c.sendProgress(ctx, "saved", fmt.Sprintf("거래 %d 건 저장", len(kept)), nil)

	for _, id := range affected {
		if _, _, err := c.calc.RecomputeWeek(id); err != nil {
			return err
		}
		r.addAffected(id)
	}
	return nil
}

func (c *Coordinator) importConsultants(ctx *importContext, rows []model.ConsultantRow) error {
	reportID := ctx.week.ID
	stats := calculator.AggregateConsultants(reportID, rows)
	if err := c.store.ReplaceConsultantAvailability(reportID, stats); err != nil {
		return err
	}
	ctx.report.ImportedRows = len(rows)
	ctx.report.addAffected(reportID)
	c.sendProgress(ctx, "saved", fmt.Sprintf("직무 %d 개 저장", len(stats)), nil)
	return nil
}

func (c *Coordinator) importAds(ctx *importContext, rows []model.AdRow) error {
	reportID := ctx.week.ID
	overview, trend := calculator.AggregateAds(reportID, rows)
	if err := c.store.ReplaceAdOverview(reportID, overview, trend); err != nil {
		return err
	}
	ctx.report.ImportedRows = len(rows)
	ctx.report.addAffected(reportID)
	c.sendProgress(ctx, "saved", fmt.Sprintf("매체 %d 개 저장", len(overview)), nil)
	return nil
}

// sendProgress 진행 콜백 호출 (없으면 무시)
func (c *Coordinator) sendProgress(ctx *importContext, typ, message string, data any) {
	if ctx.opts.OnProgress == nil {
		return
	}
	ctx.opts.OnProgress(ProgressEvent{
		Type:      typ,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	})
}
