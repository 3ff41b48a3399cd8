package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"talespin/internal/adapter/collab/offline"
	"talespin/internal/adapter/collab/openai"
	staticcontent "talespin/internal/adapter/content/static"
	"talespin/internal/adapter/flush"
	httpadapter "talespin/internal/adapter/http"
	metricsinmem "talespin/internal/adapter/metrics/inmemory"
	gormrepo "talespin/internal/adapter/repo/gorm"
	"talespin/internal/adapter/repo/memory"
	"talespin/internal/app/imagejob"
	"talespin/internal/app/play"
	"talespin/internal/app/ports"
	"talespin/internal/app/wallet"
	"talespin/internal/domain/adventure"
	"talespin/internal/domain/rng"
	"talespin/internal/domain/wildcard"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/joho/godotenv"
)

type config struct {
	Addr       string        `env:"TALESPIN_ADDR" envDefault:":8080"`
	DBDSN      string        `env:"TALESPIN_DB_DSN"`
	Seed       string        `env:"TALESPIN_SEED"`
	ContentDir string        `env:"TALESPIN_CONTENT_DIR"`
	AssetDir   string        `env:"TALESPIN_ASSET_DIR" envDefault:"./generated"`
	FlushDelay time.Duration `env:"TALESPIN_FLUSH_DELAY" envDefault:"2s"`

	OpenAIKey     string `env:"TALESPIN_OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"TALESPIN_OPENAI_BASE_URL"`
	OpenAIModel   string `env:"TALESPIN_OPENAI_MODEL"`
	ImageModel    string `env:"TALESPIN_OPENAI_IMAGE_MODEL"`
	ImageTurnGap  int    `env:"TALESPIN_IMAGE_TURN_GAP" envDefault:"3"`
}

func main() {
	_ = godotenv.Load()
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}

	random := buildRand(cfg.Seed)
	store := memory.NewStore()
	recorder := metricsinmem.NewRecorder()
	content := &staticcontent.Provider{Root: cfg.ContentDir}

	var (
		stories  ports.StoryRepository = store
		receipts ports.ReceiptRegistry = store
		flusher  ports.LedgerFlusher
		closers  []func()
	)
	if cfg.DBDSN != "" {
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := gormrepo.AutoMigrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		stories = gormrepo.NewStoryRepo(db)
		receipts = gormrepo.NewReceiptRepo(db)
		writer := gormrepo.NewLedgerWriter(db)
		store.LedgerLoader = writer.LoadLedger
		f := flush.New(writer, cfg.FlushDelay)
		flusher = f
		closers = append(closers, f.Close)
		log.Println("durable store: postgres")
	} else {
		log.Println("durable store: none (in-memory only)")
	}

	var (
		narrator    ports.Narrator = offline.Narrator{}
		scorer      ports.RiskScorer
		illustrator ports.Illustrator
	)
	if cfg.OpenAIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			ImageModel: cfg.ImageModel,
		})
		narrator = openai.NewNarrator(client)
		scorer = openai.NewRiskScorer(client)
		illustrator = openai.NewIllustrator(client, cfg.AssetDir, "/generated")
		log.Println("narrator: openai-compatible API")
	} else {
		log.Println("narrator: offline (no TALESPIN_OPENAI_API_KEY)")
	}

	var tracker *imagejob.Tracker
	if illustrator != nil {
		tracker = &imagejob.Tracker{
			Sessions:    store,
			Illustrator: illustrator,
			Threshold:   cfg.ImageTurnGap,
		}
	}

	turnSvc := adventure.TurnService{Rules: adventure.DefaultRules(), RNG: random}
	engine := wildcard.NewEngine(wildcard.DefaultConfig(), wildcard.DefaultLexicon(), nil, random)

	h := httpadapter.Handler{
		StartUC: play.StartUseCase{
			Sessions: store,
			Ledgers:  store,
			Content:  content,
			Narrator: narrator,
			Wildcard: engine,
			RNG:      random,
			Now:      time.Now,
		},
		TurnUC: play.TurnUseCase{
			Sessions: store,
			Ledgers:  store,
			Flusher:  flusher,
			Narrator: narrator,
			Scorer:   scorer,
			Images:   tracker,
			Wildcard: engine,
			Turn:     turnSvc,
			Metrics:  recorder,
			Now:      time.Now,
		},
		StoryUC: play.StoryUseCase{
			Sessions: store,
			Stories:  stories,
			Now:      time.Now,
		},
		WalletUC: wallet.UseCase{
			Ledgers:  store,
			Receipts: receipts,
			Flusher:  flusher,
			Now:      time.Now,
		},
		Images:  tracker,
		Content: content,
		KPI:     recorder,
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)
	s.Static("/generated", cfg.AssetDir)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		for _, closeFn := range closers {
			closeFn()
		}
		os.Exit(0)
	}()

	log.Printf("talespin server listening on %s (guest player: demo)", cfg.Addr)
	s.Spin()
}

func buildRand(seed string) rng.Rand {
	if seed != "" {
		return rng.NewSeeded(rng.SeedFromString(seed))
	}
	return rng.NewSeeded(time.Now().UnixNano())
}
