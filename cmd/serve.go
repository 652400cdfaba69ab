package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kovalyov-valentin/autoblog/internal/api"
	"github.com/kovalyov-valentin/autoblog/internal/blog"
	"github.com/kovalyov-valentin/autoblog/internal/bot"
	"github.com/kovalyov-valentin/autoblog/internal/bot/middleware"
	"github.com/kovalyov-valentin/autoblog/internal/botkit"
	"github.com/kovalyov-valentin/autoblog/internal/config"
	"github.com/kovalyov-valentin/autoblog/internal/fetcher"
	"github.com/kovalyov-valentin/autoblog/internal/notifier"
	"github.com/kovalyov-valentin/autoblog/internal/source"
	"github.com/kovalyov-valentin/autoblog/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API, the admin bot and the syndication worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return serve(ctx, config.Get())
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	db, err := sqlx.Connect("postgres", cfg.DatabaseDSN)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "connect to redis")
	}

	var (
		sourceStorage  = storage.NewSourcePostgresStorage(db)
		draftStorage   = storage.NewDraftPostgresStorage(db)
		commentStorage = storage.NewCommentPostgresStorage(db)
		bannerStorage  = storage.NewBannerPostgresStorage(db)
		siteStorage    = storage.NewSiteRedisStorage(rdb)
		posts          = blog.NewStore(storage.NewPostRedisStorage(rdb), blog.Options{
			Author:   cfg.DefaultAuthor,
			Location: cfg.Location(),
		})
		articles = newPipeline(cfg)
	)

	if err := posts.Load(ctx); err != nil {
		return err
	}

	// Бот необязателен: без токена работают только API и синдикация
	var botAPI *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			return errors.Wrap(err, "create bot")
		}
	}

	var announcer blog.Announcer
	postNotifier := notifier.New(nil, 0, cfg.BlogBaseURL)
	if botAPI != nil {
		postNotifier = notifier.New(botAPI, cfg.TelegramChannelID, cfg.BlogBaseURL)
		announcer = postNotifier
	}

	publisher := blog.NewPublisher(draftStorage, posts, announcer)

	syndicator := fetcher.NewFetcher(
		sourceStorage,
		source.NewRSSSource(&http.Client{Timeout: httpTimeout}),
		articles,
		draftStorage,
		fetcher.Options{
			FetchInterval:   cfg.SyndicationInterval,
			DefaultCategory: cfg.DefaultCategory,
			FilterKeywords:  cfg.FilterKeywords,
		},
	)

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.Deps{
			Posts:           posts,
			Publisher:       publisher,
			Processor:       articles,
			Drafts:          draftStorage,
			Comments:        commentStorage,
			Banners:         bannerStorage,
			Site:            siteStorage,
			AdminToken:      cfg.AdminToken,
			DefaultCategory: cfg.DefaultCategory,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	// HTTP API
	g.Go(func() error {
		zap.S().Infof("http server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// Воркер синдикации. Его падение блог не останавливает
	if cfg.SyndicationInterval > 0 {
		g.Go(func() error {
			if err := stopped("syndication worker", syndicator.Start(ctx)); err != nil {
				zap.S().Errorf("%v", err)
			}
			return nil
		})
	}

	// Бот
	if botAPI != nil {
		adminBot := botkit.New(botAPI)
		adminOnly := func(view botkit.ViewFunc) botkit.ViewFunc {
			return middleware.AdminOnly(cfg.TelegramChannelID, view)
		}

		adminBot.RegisterCmdView("start", bot.ViewCmdStart())
		adminBot.RegisterCmdView("addsource", adminOnly(bot.ViewCmdAddSource(sourceStorage)))
		adminBot.RegisterCmdView("listsources", bot.ViewCmdListSources(sourceStorage))
		adminBot.RegisterCmdView("deletesource", adminOnly(bot.ViewCmdDeleteSource(sourceStorage)))
		adminBot.RegisterCmdView("rewriteurl", adminOnly(bot.ViewCmdRewriteURL(articles, draftStorage, cfg.DefaultCategory)))
		adminBot.RegisterCmdView("rewritefeed", adminOnly(bot.ViewCmdRewriteFeed(articles, draftStorage, cfg.DefaultCategory)))
		adminBot.RegisterCmdView("batch", adminOnly(bot.ViewCmdBatch(articles, draftStorage)))
		adminBot.RegisterCmdView("drafts", adminOnly(bot.ViewCmdDrafts(draftStorage)))
		adminBot.RegisterCmdView("publish", adminOnly(bot.ViewCmdPublish(publisher, postNotifier)))

		g.Go(func() error {
			return stopped("bot", adminBot.Run(ctx))
		})
	}

	return g.Wait()
}

// Отмена контекста - штатная остановка, а не ошибка
func stopped(name string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		zap.S().Infof("%s stopped", name)
		return nil
	}
	return errors.Wrap(err, name)
}
