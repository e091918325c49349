package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goliatone/go-article-cache/articlecache"
	"github.com/goliatone/go-article-cache/articles"
	"github.com/goliatone/go-article-cache/pkg/di"
	"github.com/goliatone/go-article-cache/pkg/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults to in-memory sqlite and cache)")
	validateOnly := flag.Bool("validate", false, "Validate configuration and exit")
	flag.Parse()

	cfg := di.DefaultConfig()
	if *configPath != "" {
		loaded, err := di.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if *validateOnly {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("demo failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg di.Config, logger *zap.Logger) error {
	container, err := di.NewContainer(ctx, cfg, di.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("build container: %w", err)
	}
	defer container.Close()

	logger.Info("article cache demo starting",
		zap.String("database", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Backend),
		zap.Duration("item_ttl", container.Repository().Options().ItemTTL),
		zap.Duration("list_ttl", container.Repository().Options().ListTTL),
	)

	svc := container.Service()
	repo := container.Repository()

	fmt.Println("Step 1: seeding authors and articles")
	ada, err := repo.CreateUser(ctx, articles.User{Email: fmt.Sprintf("ada+%d@example.com", time.Now().UnixNano())})
	if err != nil {
		return err
	}
	grace, err := repo.CreateUser(ctx, articles.User{Email: fmt.Sprintf("grace+%d@example.com", time.Now().UnixNano())})
	if err != nil {
		return err
	}

	var first articles.Article
	for i, author := range []articles.User{ada, grace, ada, grace, ada} {
		published := time.Now().Add(-time.Duration(5-i) * time.Hour)
		created, err := svc.Create(ctx, articles.CreateInput{
			Title:       fmt.Sprintf("Article %d", i+1),
			Description: "Seeded by the demo",
			PublishedAt: &published,
		}, author.ID)
		if err != nil {
			return err
		}
		if i == 0 {
			first = created
		}
	}
	fmt.Printf("   seeded 5 articles for authors %d and %d\n\n", ada.ID, grace.ID)

	fmt.Println("Step 2: list reads (miss, then hit)")
	for _, label := range []string{"miss", "hit"} {
		start := time.Now()
		page, err := svc.List(ctx, 1, 10, articles.Filters{})
		if err != nil {
			return err
		}
		fmt.Printf("   %-4s total=%d items=%d took=%v\n", label, page.Total, len(page.Items), time.Since(start))
	}
	fmt.Printf("   cached under %s\n\n", articlecache.ListKey(1, 10, articles.Filters{}))

	fmt.Println("Step 3: item reads (miss, then hit)")
	for _, label := range []string{"miss", "hit"} {
		start := time.Now()
		a, err := svc.Get(ctx, first.ID)
		if err != nil {
			return err
		}
		fmt.Printf("   %-4s %q by %d took=%v\n", label, a.Title, a.AuthorID, time.Since(start))
	}
	fmt.Println()

	fmt.Println("Step 4: update by the author invalidates the item and every list")
	title := "Article 1 (revised)"
	if _, err := svc.Update(ctx, first.ID, articles.UpdateInput{Title: &title}, ada.ID); err != nil {
		return err
	}
	keys, err := container.CacheStore().Keys(ctx, articlecache.ListPattern())
	if err != nil {
		return err
	}
	fmt.Printf("   list keys left after update: %d\n", len(keys))

	a, err := svc.Get(ctx, first.ID)
	if err != nil {
		return err
	}
	fmt.Printf("   fresh read: %q\n\n", a.Title)

	fmt.Println("Step 5: update by someone else is rejected")
	if _, err := svc.Update(ctx, first.ID, articles.UpdateInput{Title: &title}, grace.ID); err != nil {
		fmt.Printf("   %v\n\n", err)
	}

	fmt.Println("Step 6: cache counters")
	families, err := container.Metrics().Registry().Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			labels := ""
			for _, l := range m.GetLabel() {
				labels += l.GetName() + "=" + l.GetValue() + " "
			}
			fmt.Printf("   %s{%s} %v\n", family.GetName(), labels, m.GetCounter().GetValue())
		}
	}

	logger.Info("article cache demo finished")
	return nil
}
