package dashboard

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func newTestServer(t *testing.T, p Predictor) (*testClient, *SessionStore) {
	t.Helper()
	store := NewSessionStore(time.Hour)
	info := ModelInfo{
		Name:         "O3",
		Unit:         "ug/m3",
		TrainEndTime: time.Date(2023, 5, 5, 0, 0, 0, 0, time.UTC),
		TestRMSE:     17.43,
		HasTestRMSE:  true,
	}
	srv, err := NewServer(NewInvoker(p), store, info, nil)
	require.NoError(t, err)
	return &testClient{t: t, handler: srv.Handler()}, store
}

func (c *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			c.cookie = cookie
		}
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) predict(days string) *httptest.ResponseRecorder {
	form := url.Values{"days": []string{days}}
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func TestServerIndexIdle(t *testing.T) {
	c, store := newTestServer(t, loadTestForecaster(t))

	w := c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	assert.Equal(t, 1, store.Len())

	body := w.Body.String()
	assert.Contains(t, body, "Previsão de Níveis de Ozônio (O3) Utilizando a Biblioteca Prophet")
	assert.Contains(t, body, "05/05/2023")
	assert.Contains(t, body, "17.43")
	assert.Contains(t, body, `value="1"`)
	assert.Contains(t, body, `max="3650"`)
	assert.NotContains(t, body, "/chart")
	assert.NotContains(t, body, "<table>")

	// the same cookie keeps the same session
	c.get("/")
	assert.Equal(t, 1, store.Len())
}

func TestServerPredictFlow(t *testing.T) {
	p := &countingPredictor{Predictor: loadTestForecaster(t)}
	c, _ := newTestServer(t, p)

	w := c.predict("3")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = c.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "/chart?v=1")
	assert.Contains(t, body, "próximos 3 dias")
	assert.Contains(t, body, "06-05-2023")
	assert.Contains(t, body, "57.83")
	assert.Contains(t, body, "08-05-2023")
	assert.Contains(t, body, "56.88")
	assert.NotContains(t, body, "09-05-2023")

	// changing the input re-renders the previous result
	w = c.get("/?days=10")
	body = w.Body.String()
	assert.Contains(t, body, `value="10"`)
	assert.Contains(t, body, "próximos 3 dias")
	assert.NotContains(t, body, "09-05-2023")

	w = c.get("/chart?v=1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Observado")
	assert.Contains(t, w.Body.String(), "2023-05-08")

	assert.Equal(t, int64(1), p.calls.Load())
}

func TestServerChartIdle(t *testing.T) {
	c, _ := newTestServer(t, loadTestForecaster(t))

	assert.Equal(t, http.StatusNotFound, c.get("/chart").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/download.csv").Code)
	assert.Equal(t, http.StatusNotFound, c.get("/download.xlsx").Code)
}

func TestServerDownloadCSV(t *testing.T) {
	c, _ := newTestServer(t, loadTestForecaster(t))
	c.predict("3")

	first := c.get("/download.csv")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, CSVMIME, first.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=previsao_ozonio.csv", first.Header().Get("Content-Disposition"))

	expected := "Data (Dia/Mês/Ano),O3 (ug/m3)\n" +
		"06-05-2023,57.83\n" +
		"07-05-2023,58.19\n" +
		"08-05-2023,56.88\n"
	assert.Equal(t, expected, first.Body.String())

	c.predict("3")
	second := c.get("/download.csv")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestServerDownloadXLSX(t *testing.T) {
	c, _ := newTestServer(t, loadTestForecaster(t))
	c.predict("2")

	w := c.get("/download.xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, XLSXMIME, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(XLSXSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"06-05-2023", "57.83"}, rows[1])
	assert.Equal(t, []string{"07-05-2023", "58.19"}, rows[2])
}

func TestServerInvalidHorizon(t *testing.T) {
	testData := map[string]struct {
		days string
	}{
		"zero":      {days: "0"},
		"negative":  {days: "-2"},
		"text":      {days: "abc"},
		"empty":     {days: ""},
		"above max": {days: "3651"},
		"huge":      {days: "2000000000"},
		"overflow":  {days: "99999999999999999999"},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestServer(t, loadTestForecaster(t))
			c.predict("3")

			w := c.predict(td.days)
			require.Equal(t, http.StatusSeeOther, w.Code)

			body := c.get("/").Body.String()
			assert.Contains(t, body, msgInvalidHorizon)
			assert.NotContains(t, body, "/chart?v=")
			assert.Equal(t, http.StatusNotFound, c.get("/chart").Code)

			// the message is shown once
			assert.NotContains(t, c.get("/").Body.String(), msgInvalidHorizon)
		})
	}
}

func TestServerPredictionUnavailable(t *testing.T) {
	c, _ := newTestServer(t, failingPredictor{panicWith: "boom"})

	c.predict("3")
	body := c.get("/").Body.String()
	assert.Contains(t, body, msgPredictionUnavailable)
	assert.NotContains(t, body, "/chart?v=")
}

func TestServerSessionsAreIsolated(t *testing.T) {
	a, store := newTestServer(t, loadTestForecaster(t))
	a.predict("3")

	b := &testClient{t: t, handler: a.handler}
	body := b.get("/").Body.String()
	assert.NotContains(t, body, "/chart?v=")
	assert.Equal(t, 2, store.Len())
}

func TestServerHealthz(t *testing.T) {
	c, store := newTestServer(t, loadTestForecaster(t))

	w := c.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","model":"O3"}`, w.Body.String())
	assert.Equal(t, 0, store.Len())
}

func TestModelInfoDescription(t *testing.T) {
	info := NewModelInfo(loadTestForecaster(t))
	assert.Equal(t, "O3", info.Name)
	assert.True(t, info.HasTestRMSE)

	desc := info.Description()
	assert.Contains(t, desc, "ug/m3")
	assert.Contains(t, desc, "05/05/2023")
	assert.Contains(t, desc, "17.43")

	desc = ModelInfo{}.Description()
	assert.NotContains(t, desc, "treinado")
}
