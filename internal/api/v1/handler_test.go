package v1

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"weeklydash/internal/importer"
	"weeklydash/internal/model"
	"weeklydash/internal/store"
)

var txHeader = []any{"상태", "결제일", "판매자", "구매자", "판매구분", "상품명", "결제금액", "환불금액"}

type testEnv struct {
	store  *store.Store
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "weeklydash.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	h := NewHandler(st, importer.NewCoordinator(st), Options{MaxUploadMB: 1, DefaultYear: 2025})
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return &testEnv{store: st, router: router}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e *testEnv) upload(t *testing.T, uploadType, filename string, data []byte, reportID string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	if reportID != "" {
		require.NoError(t, mw.WriteField("reportId", reportID))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/"+uploadType, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(t, req)
}

func xlsxBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCreateWeekAndOverlap(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodPost, "/api/weeks", map[string]string{
		"title": "1월 1주", "startDate": "2025-01-01", "endDate": "2025-01-07",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.ReportingWeek](t, w)
	assert.Equal(t, "1월 1주", created.Title)
	assert.Equal(t, model.WeekStatusDraft, created.Status)

	w = env.doJSON(t, http.MethodPost, "/api/weeks", map[string]string{
		"title": "겹침", "startDate": "2025-01-07", "endDate": "2025-01-13",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CategoryConflict, decode[ErrorResponse](t, w).Category)

	w = env.doJSON(t, http.MethodPost, "/api/weeks", map[string]string{
		"title": "역순", "startDate": "2025-02-07", "endDate": "2025-02-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/weeks", map[string]string{
		"title": "형식", "startDate": "2025/02/01", "endDate": "2025-02-07",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/weeks?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[weeksResponse](t, w).Items, 1)
}

func TestUpdateWeek(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodPatch, "/api/weeks/"+itoa(wk.ID), map[string]string{"status": "published"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.WeekStatusPublished, decode[model.ReportingWeek](t, w).Status)

	w = env.doJSON(t, http.MethodPatch, "/api/weeks/999", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadTransactions(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", 45658, "김판매", "홍길동", "완납", "게임톤 과정", 1000000, ""},
	)
	w := env.upload(t, "transactions", "sales.xlsx", data, itoa(wk.ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success       bool    `json:"success"`
		ImportedRows  int     `json:"importedRows"`
		AffectedWeeks []int64 `json:"affectedWeeks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.ImportedRows)
	assert.Equal(t, []int64{wk.ID}, resp.AffectedWeeks)

	w = env.doJSON(t, http.MethodGet, "/api/weeks/"+itoa(wk.ID)+"/transactions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"total\":1")

	w = env.doJSON(t, http.MethodGet, "/api/imports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sales.xlsx")
}

func TestUploadMissingColumn(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		[]any{"상태", "결제일", "판매자", "판매구분", "상품명", "결제금액"},
		[]any{"결", "2025-01-01", "김판매", "완납", "게임톤", 1000},
	)
	w := env.upload(t, "transactions", "sales.xlsx", data, itoa(wk.ID))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CategoryMissingColumn, resp.Category)
	assert.Contains(t, resp.Details["columns"], "구매자")
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.upload(t, "transactions", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, "unknown", "a.xlsx", []byte("x"), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, "ads", "ads.xlsx", xlsxBytes(t, []any{"매체"}), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, "ads", "ads.xlsx", xlsxBytes(t, []any{"매체"}), "77")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.upload(t, "ads", "ads.xlsx", xlsxBytes(t, []any{"매체"}), "abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadTooLarge(t *testing.T) {
	env := newTestEnv(t)

	big := bytes.Repeat([]byte("a"), 2<<20)
	w := env.upload(t, "transactions", "sales.csv", big, "")
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CategoryValidation, resp.Category)
	assert.NotContains(t, resp.Error, "missing file")

	// Content-Length 를 모르는 경우에도 본문 제한에 걸린다
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "sales.csv")
	require.NoError(t, err)
	_, err = fw.Write(big)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/transactions", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = -1
	w = env.do(t, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestSelection(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodGet, "/api/weeks/selected", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/weeks/select", map[string]int64{"reportId": wk.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sid := decode[selectionResponse](t, w).SessionID
	require.NotEmpty(t, sid)

	req := httptest.NewRequest(http.MethodGet, "/api/weeks/selected", nil)
	req.Header.Set(sessionHeader, sid)
	w = env.do(t, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "1월 1주")

	req = httptest.NewRequest(http.MethodGet, "/api/weeks/selected", nil)
	req.Header.Set(sessionHeader, "other-session")
	w = env.do(t, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/weeks/select", map[string]int64{"reportId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "홍길동", "완납", "게임톤 과정", 1000000, ""},
	)
	require.Equal(t, http.StatusOK, env.upload(t, "transactions", "sales.xlsx", data, itoa(wk.ID)).Code)

	w := env.doJSON(t, http.MethodGet, "/api/weeks/"+itoa(wk.ID)+"/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Week     model.ReportingWeek        `json:"week"`
		Partial  bool                       `json:"partial"`
		Sections map[string]json.RawMessage `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Partial)
	assert.Equal(t, wk.ID, resp.Week.ID)
	for _, name := range []string{"indicators", "revenueStats", "sellerStats", "adOverview", "costTrend", "weeklyRevenue", "consultants"} {
		assert.Contains(t, resp.Sections, name)
	}
	assert.Contains(t, string(resp.Sections["revenueStats"]), "gameton")

	w = env.doJSON(t, http.MethodGet, "/api/weeks/404/dashboard", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardSettlesAllSections(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	data := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "홍길동", "완납", "게임톤 과정", 1000000, ""},
	)
	require.Equal(t, http.StatusOK, env.upload(t, "transactions", "sales.xlsx", data, itoa(wk.ID)).Code)

	// 광고 매체 테이블이 없으면 그 구역만 실패해야 한다
	_, err = env.store.DB().Exec(`DROP TABLE ad_overview`)
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodGet, "/api/weeks/"+itoa(wk.ID)+"/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Partial  bool `json:"partial"`
		Sections map[string]struct {
			Data  json.RawMessage `json:"data"`
			Error string          `json:"error"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Partial)

	require.Contains(t, resp.Sections, "adOverview")
	assert.NotEmpty(t, resp.Sections["adOverview"].Error)

	for _, name := range []string{"indicators", "revenueStats", "sellerStats", "costTrend", "weeklyRevenue", "consultants"} {
		assert.Empty(t, resp.Sections[name].Error, name)
	}
	assert.Contains(t, string(resp.Sections["revenueStats"].Data), "gameton")
	assert.Contains(t, string(resp.Sections["sellerStats"].Data), "김판매")
}

func TestConversionsEmptyYear(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(t, http.MethodGet, "/api/conversions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"year":2025,"items":[]}`, w.Body.String())

	w = env.doJSON(t, http.MethodGet, "/api/conversions?year=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversionsUseRefinedPayments(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	sales := xlsxBytes(t,
		txHeader,
		[]any{"결", "2025-01-02", "김판매", "홍길동", "분납", "일반 26주", 300000, 0},
		[]any{"결", "2025-01-05", "김판매", "홍길동", "완납", "일반 26주", 700000, 0},
	)
	require.Equal(t, http.StatusOK, env.upload(t, "transactions", "sales.xlsx", sales, itoa(wk.ID)).Code)

	ads := xlsxBytes(t,
		[]any{"매체", "광고비", "클릭수", "DB수", "결제수"},
		[]any{"meta", 100000, 200, 10, 4},
	)
	require.Equal(t, http.StatusOK, env.upload(t, "ads", "ads.xlsx", ads, itoa(wk.ID)).Code)

	w := env.doJSON(t, http.MethodGet, "/api/conversions?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []model.WeekConversion `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	item := resp.Items[0]
	assert.Equal(t, int64(1), item.Payments)
	assert.Equal(t, int64(4), item.AdPayments)
	assert.Equal(t, 5.0, item.ConversionRate)
	assert.Equal(t, 10.0, item.RevenueConversionRate)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	wk, err := env.store.CreateWeek("1월 1주", "2025-01-01", "2025-01-07", "")
	require.NoError(t, err)

	w := env.doJSON(t, http.MethodGet, "/api/weeks/"+itoa(wk.ID)+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filename*=UTF-8''")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "요약")
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)
	w := env.doJSON(t, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[StatusResponse](t, w)
	assert.False(t, resp.Initialized)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
