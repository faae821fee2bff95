package importer

import (
	"errors"
	"fmt"

	"weeklydash/internal/calculator"
	"weeklydash/internal/model"
	"weeklydash/internal/store"
	"weeklydash/internal/week"
)

// importRevenue 주차별 실매출 백필.
//
// 행마다 기간이 정확히 같은 주차를 찾고, 없으면 새 주차를 만든다.
// ToleranceDays > 0 이면 경계가 그만큼 어긋난 기존 주차도 같은 주차로 본다.
// 기존 주차와 겹치는데 맞는 주차가 없으면 그 행은 건너뛴다.
func (c *Coordinator) importRevenue(ctx *importContext, rows []model.RevenueRow) error {
	weeks, err := c.store.ListWeeks()
	if err != nil {
		return err
	}
	matcher := week.NewMatcher(weeks)
	r := ctx.report

	var out []model.WeeklyRevenue
	for _, row := range rows {
		w, ok := matcher.FindInterval(row.StartDate, row.EndDate)
		if !ok && ctx.opts.ToleranceDays > 0 {
			if w, ok = matcher.MatchWithTolerance(row.StartDate, row.EndDate, ctx.opts.ToleranceDays); ok {
				ctx.log.WithField("row", row.RowNo).Infof("matched %s~%s to week %d (%s~%s)",
					row.StartDate, row.EndDate, w.ID, w.StartDate, w.EndDate)
			}
		}

		if !ok {
			created, err := c.store.CreateWeek(row.Title, row.StartDate, row.EndDate, model.WeekStatusDraft)
			switch {
			case errors.Is(err, store.ErrWeekOverlap), errors.Is(err, week.ErrInvalidInterval):
				r.warn(row.RowNo, "%v", err)
				continue
			case err != nil:
				return fmt.Errorf("failed to create week for row %d: %w", row.RowNo, err)
			}
			matcher.Add(created)
			r.CreatedWeeks = append(r.CreatedWeeks, created)
			w = created
		}

		out = append(out, calculator.WeeklyRevenueOf(w.ID, row))
		r.addAffected(w.ID)
	}

	if err := c.store.UpsertWeeklyRevenue(out); err != nil {
		return err
	}
	r.ImportedRows = len(out)
	c.sendProgress(ctx, "saved", fmt.Sprintf("주차 실매출 %d 건 저장", len(out)), nil)
	return nil
}
