// Command comments loads the comment tree of a post through the
// interaction engine, exactly as a client view would: fetch, normalize,
// resolve like state, sort. Useful for inspecting what a viewer sees.
//
// The API token (optional) comes from COMMENT_API_TOKEN; engine defaults
// come from ENGINE_SETTLE_DELAY and ENGINE_ORDER.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/smoker-app/backend/internal/config"
	"github.com/smoker-app/backend/internal/engine"
	"github.com/smoker-app/backend/internal/engine/httpstore"
	"go.uber.org/zap"
)

func main() {
	postID := flag.String("post", "", "post id to inspect")
	apiURL := flag.String("api", "", "API base URL (defaults to APP_URL)")
	flag.Parse()

	if *postID == "" {
		log.Fatal("missing -post")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	baseURL := *apiURL
	if baseURL == "" {
		baseURL = cfg.App.URL
	}

	store := httpstore.New(baseURL, httpstore.WithTokenSource(func() string {
		return os.Getenv("COMMENT_API_TOKEN")
	}))

	e := engine.New(store, *postID, engine.Session{},
		engine.WithLogger(logger),
		engine.WithSettleDelay(cfg.Engine.SettleDelay),
		engine.WithOrder(engine.ParseOrder(cfg.Engine.Order)),
	)

	if err := e.Load(context.Background()); err != nil {
		logger.Fatal("failed to load comment tree", zap.Error(err))
	}

	comments := e.Comments()
	fmt.Printf("%d comments on post %s\n", len(comments), *postID)
	for _, c := range comments {
		printNode(&c.Node, "")
		for _, r := range c.Replies {
			printNode(&r.Node, "  ")
		}
	}
}

func printNode(n *engine.Node, indent string) {
	fmt.Printf("%s[%s] %s (%d likes): %s\n",
		indent, n.ID, n.AuthorName, n.LikeCount, n.Content)
}
