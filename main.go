package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"showdown-battleinfo/config"
	"showdown-battleinfo/data"
	"showdown-battleinfo/encounter"
	"showdown-battleinfo/parser"
	"showdown-battleinfo/quickmenu"
)

// Server serves the Battle Info stream, the damage preview API and the
// overworld quick menu.
type Server struct {
	cfg        config.Config
	dex        *data.Dex
	log        *zap.Logger
	templates  *template.Template
	encounters *encounter.Store
	save       *quickmenu.SaveState
	sessions   *sessionStore
	router     *mux.Router
	now        func() time.Time
}

func NewServer(cfg config.Config, dex *data.Dex, store *encounter.Store, templates *template.Template, log *zap.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		dex:        dex,
		log:        log,
		templates:  templates,
		encounters: store,
		save:       quickmenu.NewSaveState(log),
		sessions:   newSessionStore(),
		router:     mux.NewRouter(),
		now:        time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/connect", s.handleConnect).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/preview", s.handlePreview).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/rolls", s.handleRolls).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/moves", s.handleMoves).Methods(http.MethodGet)
	api.HandleFunc("/moves/{name}", s.handleMove).Methods(http.MethodGet)
	api.HandleFunc("/encounters", s.handleMaps).Methods(http.MethodGet)
	api.HandleFunc("/encounters/{map}", s.handleEncounters).Methods(http.MethodGet)
	api.HandleFunc("/quick", s.handleQuick).Methods(http.MethodGet)
	api.HandleFunc("/quick/repel", s.handleRepel).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/quick/time", s.handleTime).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/menu/{session}/{action}", s.handleMenu).Methods(http.MethodPost, http.MethodOptions)

	s.router.Use(withCORS)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) parser() *parser.Parser {
	return parser.New(s.dex, s.cfg.HasAI)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		s.log.Error("render index", zap.Error(err))
		http.Error(w, "failed to render template", http.StatusInternalServerError)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dex := data.Default()
	if err := dex.LoadPokemonData(cfg.PokedexPath); err != nil {
		return fmt.Errorf("load pokedex: %w", err)
	}
	if err := dex.LoadMoveData(cfg.MovesPath); err != nil {
		return fmt.Errorf("load moves: %w", err)
	}

	store, err := encounter.Open(cfg.EncounterDB, log)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if cfg.EncounterSeed != "" {
		n, err := store.Import(ctx, cfg.EncounterSeed)
		if err != nil {
			return err
		}
		log.Info("encounter tables imported", zap.Int("maps", n), zap.String("seed", cfg.EncounterSeed))
	}

	templates, err := template.ParseGlob(filepath.Join(cfg.TemplatesDir, "*.html"))
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	srv := &http.Server{
		Addr:        cfg.Listen,
		Handler:     NewServer(cfg, dex, store, templates, log),
		ReadTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("server started", zap.String("addr", cfg.Listen))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
