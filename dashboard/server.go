package dashboard

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	forecaster "github.com/aouyang1/ozone-forecaster"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	SessionCookie = "ozoneboard_session"

	sessionKey      = "session"
	shutdownTimeout = 10 * time.Second
)

const (
	pageTitle     = "Previsão de Níveis de Ozônio (O3) Utilizando a Biblioteca Prophet"
	pageSubheader = "Insira o número de dias para previsão:"
	pageButton    = "Prever"
	pageDownload  = "Baixar tabela como csv"
	pageCaption   = "Tabela contendo as previsões de ozônio (ug/m3) para os próximos %d dias:"

	chartTitle = "Previsão de Ozônio"
	chartXAxis = "Data"
	chartYAxis = "Nível de Ozônio (O3 μg/m3)"
)

// ModelInfo describes the loaded model in the page description
type ModelInfo struct {
	Name         string
	Unit         string
	TrainEndTime time.Time
	TestRMSE     float64
	HasTestRMSE  bool
}

// NewModelInfo collects the model description from a loaded forecaster
func NewModelInfo(f *forecaster.Forecaster) ModelInfo {
	info := ModelInfo{
		Name: f.Name(),
		Unit: f.Unit(),
	}
	if history := f.History(); history.Len() > 0 {
		info.TrainEndTime = history.T[history.Len()-1]
	}
	if scores := f.TestScores(); scores != nil {
		info.TestRMSE = scores.RMSE()
		info.HasTestRMSE = true
	}
	return info
}

// Description is the text shown under the page title
func (m ModelInfo) Description() string {
	unit := m.Unit
	if unit == "" {
		unit = "ug/m3"
	}
	desc := fmt.Sprintf("Este projeto utiliza a biblioteca Prophet para prever os níveis de ozônio em %s.", unit)
	if !m.TrainEndTime.IsZero() {
		desc += fmt.Sprintf(" O modelo criado foi treinado com dados até o dia %s", m.TrainEndTime.Format("02/01/2006"))
		if m.HasTestRMSE {
			desc += fmt.Sprintf(" e possui um erro de previsão (RMSE - Erro Quadrático Médio) igual a %.2f nos dados de teste", m.TestRMSE)
		}
		desc += "."
	}
	desc += " O usuário pode inserir o número de dias para os quais deseja a previsão, e o modelo gerará um gráfico" +
		" interativo contendo as estimativas baseadas em dados históricos de concentração de O3." +
		" Além disso, uma tabela será exibida com os valores estimados para cada dia."
	return desc
}

// Server is the http surface of the dashboard
type Server struct {
	invoker *Invoker
	store   *SessionStore
	info    ModelInfo
	logger  *slog.Logger

	engine *gin.Engine
}

func NewServer(inv *Invoker, store *SessionStore, info ModelInfo, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("unable to parse page templates, %w", err)
	}

	s := &Server{
		invoker: inv,
		store:   store,
		info:    info,
		logger:  logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", s.healthz)

	sessions := r.Group("/")
	sessions.Use(sessionMiddleware(store))
	sessions.GET("/", s.index)
	sessions.POST("/predict", s.predict)
	sessions.GET("/chart", s.chart)
	sessions.GET("/download.csv", s.downloadCSV)
	sessions.GET("/download.xlsx", s.downloadXLSX)

	s.engine = r
	return s, nil
}

// Handler returns the http handler serving every route
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the context is done and then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("unable to serve dashboard, %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("unable to shut down dashboard, %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

func sessionMiddleware(store *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(SessionCookie)
		sess, created := store.GetOrCreate(id)
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *Session {
	return c.MustGet(sessionKey).(*Session)
}

type pageData struct {
	Title       string
	Description string
	Subheader   string
	Button      string
	Days        int
	MaxDays     int
	Message     string

	Displaying    bool
	Generation    uint64
	ChartTitle    string
	Caption       string
	DateHeader    string
	ValueHeader   string
	Rows          []Row
	DownloadLabel string
	CSVFilename   string
	XLSXFilename  string
}

func (s *Server) index(c *gin.Context) {
	sess := sessionFrom(c)

	if raw, exists := c.GetQuery("days"); exists {
		if days, err := strconv.Atoi(raw); err == nil {
			_ = sess.Handle(c.Request.Context(), InputChanged{Days: days}, s.invoker)
		}
	}

	view := sess.View()
	data := pageData{
		Title:         pageTitle,
		Description:   s.info.Description(),
		Subheader:     pageSubheader,
		Button:        pageButton,
		Days:          view.Days,
		MaxDays:       MaxDays,
		Message:       view.Message,
		Displaying:    view.Displaying(),
		Generation:    view.Generation,
		ChartTitle:    chartTitle,
		DateHeader:    DateHeader,
		ValueHeader:   ValueHeader,
		DownloadLabel: pageDownload,
		CSVFilename:   CSVFilename,
		XLSXFilename:  XLSXFilename,
	}
	if data.Displaying {
		data.Caption = fmt.Sprintf(pageCaption, view.Result.Days)
		data.Rows = view.Result.Table().Rows
	}
	if view.Message != "" {
		sess.ClearMessage()
	}

	c.HTML(http.StatusOK, "index.html", data)
}

func (s *Server) predict(c *gin.Context) {
	sess := sessionFrom(c)

	// a non integer input is handled as an invalid horizon
	days, _ := strconv.Atoi(c.PostForm("days"))
	if err := sess.Handle(c.Request.Context(), Triggered{Days: days}, s.invoker); err != nil {
		s.logger.Warn("prediction not available", "session", sess.ID, "days", days, "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) chart(c *gin.Context) {
	view := sessionFrom(c).View()
	if !view.Displaying() {
		c.String(http.StatusNotFound, "no forecast")
		return
	}

	line := forecaster.LineForecast(view.Result.History, view.Result.Results, &forecaster.PlotOpts{
		Title:        chartTitle,
		XAxisName:    chartXAxis,
		YAxisName:    chartYAxis,
		ObservedName: "Observado",
		ForecastName: "Previsão",
		BandName:     "Intervalo",
		Width:        "100%",
		Height:       "520px",
	})

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		s.logger.Error("unable to render chart", "session", view.ID, "error", err)
		c.String(http.StatusInternalServerError, "unable to render chart")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) downloadCSV(c *gin.Context) {
	s.download(c, CSVFilename, CSVMIME, Table.WriteCSV)
}

func (s *Server) downloadXLSX(c *gin.Context) {
	s.download(c, XLSXFilename, XLSXMIME, Table.WriteXLSX)
}

func (s *Server) download(c *gin.Context, filename, mime string, write func(Table, io.Writer) error) {
	view := sessionFrom(c).View()
	if !view.Displaying() {
		c.String(http.StatusNotFound, "no forecast")
		return
	}

	var buf bytes.Buffer
	if err := write(view.Result.Table(), &buf); err != nil {
		s.logger.Error("unable to export table", "session", view.ID, "file", filename, "error", err)
		c.String(http.StatusInternalServerError, "unable to export table")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, mime, buf.Bytes())
}

func (s *Server) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.info.Name})
}
