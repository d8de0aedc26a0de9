package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"socialpulse/app"
	"socialpulse/domain/engagement"
	"socialpulse/internal"
	"socialpulse/internal/aggregate"
	"socialpulse/internal/errors"
	uimw "socialpulse/ui/middleware"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App is the server-rendered HTML front end
type App struct {
	config    Config
	router    *chi.Mux
	service   *app.DashboardService
	store     uimw.StatusReporter
	templates *template.Template
	about     template.HTML
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// FilterOption is one clickable value of a filter widget
type FilterOption struct {
	Value  string
	Href   string
	Active bool
}

// FilterGroup is the widget for one dimension
type FilterGroup struct {
	Dimension engagement.Dimension
	Label     string
	Options   []FilterOption
}

var dimensionLabels = map[engagement.Dimension]string{
	engagement.DimRegion:      "Region",
	engagement.DimPlatform:    "Platform",
	engagement.DimContentType: "Content Type",
	engagement.DimHashtag:     "Hashtag",
}

// NewApp creates the UI application
func NewApp(config Config, service *app.DashboardService, store uimw.StatusReporter, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Port == "" {
		config.Port = "8081"
	}

	templates, err := template.New("").Funcs(templateFuncs).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	about, err := renderMarkdown("templates/about.md")
	if err != nil {
		return nil, err
	}

	a := &App{
		config:    config,
		router:    chi.NewRouter(),
		service:   service,
		store:     store,
		templates: templates,
		about:     about,
		logger:    logger.WithComponent("UI"),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

func renderMarkdown(name string) (template.HTML, error) {
	md, err := embeddedFiles.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(md, p, renderer)), nil
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleDashboard)
	a.router.Get("/recommend", a.handleRecommend)
	a.router.Get("/calculator", a.handleCalculator)
	a.router.Get("/about", a.handleAbout)
}

// ServeHTTP lets the App be mounted or tested directly
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	a.logger.Info("Starting UI server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filters, err := app.FiltersFromMap(app.ScopeDashboard, filterValues(r.URL.Query(), engagement.DashboardDimensions))
	if err != nil {
		a.renderError(w, err)
		return
	}
	view, err := a.service.Dashboard(filters)
	if err != nil {
		a.renderError(w, err)
		return
	}
	opts, err := a.service.Options()
	if err != nil {
		a.renderError(w, err)
		return
	}

	a.renderTemplate(w, http.StatusOK, "dashboard.html", map[string]interface{}{
		"Title":       "Dashboard",
		"View":        view,
		"Groups":      filterGroups(view.Filters, opts.Dashboard),
		"MaxViews":    maxViews(view.Platforms),
		"ClearFilter": view.ActiveFilters > 0,
	})
}

func (a *App) handleRecommend(w http.ResponseWriter, r *http.Request) {
	filters, err := app.FiltersFromMap(app.ScopeRecommender, filterValues(r.URL.Query(), engagement.RecommenderDimensions))
	if err != nil {
		a.renderError(w, err)
		return
	}
	view, err := a.service.Recommend(filters)
	if err != nil {
		a.renderError(w, err)
		return
	}
	opts, err := a.service.Options()
	if err != nil {
		a.renderError(w, err)
		return
	}

	a.renderTemplate(w, http.StatusOK, "recommend.html", map[string]interface{}{
		"Title":  "Platform Recommender",
		"View":   view,
		"Groups": filterGroups(view.Filters, opts.Recommender),
	})
}

func (a *App) handleCalculator(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := map[string]string{
		engagement.InputLikes:    q.Get(engagement.InputLikes),
		engagement.InputComments: q.Get(engagement.InputComments),
		engagement.InputShares:   q.Get(engagement.InputShares),
		engagement.InputViews:    q.Get(engagement.InputViews),
	}
	a.renderTemplate(w, http.StatusOK, "calculator.html", map[string]interface{}{
		"Title":  "ERR Calculator",
		"Input":  input,
		"Result": a.service.Calculate(input),
	})
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "about.html", map[string]interface{}{
		"Title":   "About",
		"Content": a.about,
	})
}

func (a *App) renderError(w http.ResponseWriter, err error) {
	switch errors.GetCode(err) {
	case errors.CodeNotReady:
		a.renderTemplate(w, http.StatusServiceUnavailable, "loading.html", map[string]interface{}{
			"Title":  "Loading",
			"Status": a.store.Status(),
		})
	case errors.CodeInvalidInput:
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		a.logger.Error("Page render failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// filterGroups builds one widget per permitted dimension from the available values
func filterGroups(f engagement.FilterSet, values map[engagement.Dimension][]string) []FilterGroup {
	groups := make([]FilterGroup, 0, len(f.Dimensions()))
	for _, d := range f.Dimensions() {
		current, _ := f.Value(d)
		group := FilterGroup{Dimension: d, Label: dimensionLabels[d]}
		for _, v := range values[d] {
			group.Options = append(group.Options, FilterOption{
				Value:  v,
				Href:   "?" + toggleQuery(f, d, v),
				Active: v == current,
			})
		}
		groups = append(groups, group)
	}
	return groups
}

func maxViews(platforms []aggregate.PlatformViews) int64 {
	var m int64
	for _, p := range platforms {
		if p.Views > m {
			m = p.Views
		}
	}
	return m
}
