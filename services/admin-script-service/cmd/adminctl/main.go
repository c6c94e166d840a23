// Command adminctl lance les scripts d'administration sans passer par le service HTTP.
//
//	adminctl base-script -n 10 -t 3 -l 2 --config adminctl.toml
//	adminctl generate -n 5 -t 2
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/config"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/adapters/primary/rest"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/adapters/secondary/gateway"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/services"
)

var (
	app        = kingpin.New("adminctl", "Generate test data across the tweetsuite services.")
	configPath = app.Flag("config", "TOML file with gateway URLs, timeout and seed.").String()
	seed       = app.Flag("seed", "random seed (0 = random).").Uint64()
	verbose    = app.Flag("verbose", "log every failed call.").Short('v').Bool()

	baseCmd    = app.Command("base-script", "create users, follows, tweets, deletions, likes and retweets.")
	baseUsers  = baseCmd.Flag("users", "number of users to create.").Short('n').Default("10").Int()
	baseTweets = baseCmd.Flag("tweets", "tweets per user.").Short('t').Default("3").Int()
	baseDelete = baseCmd.Flag("delete", "users losing one tweet.").Short('l').Default("0").Int()

	genCmd    = app.Command("generate", "create users and their tweets only.")
	genUsers  = genCmd.Flag("users", "number of users to create.").Short('n').Default("10").Int()
	genTweets = genCmd.Flag("tweets", "tweets per user.").Short('t').Default("3").Int()
)

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	os.Exit(run(cmd))
}

func run(cmd string) int {
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	// stdout est réservé au rapport JSON
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	svc, err := newScriptService()
	if err != nil {
		slog.Error("❌ adminctl", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var report any
	switch cmd {
	case baseCmd.FullCommand():
		var r *domain.BaseScriptReport
		r, err = svc.RunBaseScript(ctx, domain.BaseScriptRequest{
			NUsers: *baseUsers, NTweetsPerUser: *baseTweets, LUsersForDeletion: *baseDelete,
		})
		if err == nil {
			report = rest.ToBaseScriptResponse(r)
		}
	case genCmd.FullCommand():
		var r *domain.GenerateReport
		r, err = svc.GenerateUsersAndTweets(ctx, domain.GenerateRequest{NUsers: *genUsers, NTweetsPerUser: *genTweets})
		if err == nil {
			report = rest.ToGenerateResponse(r)
		}
	}
	if err != nil {
		slog.Error("❌ adminctl", "command", cmd, "error", err)
		return 1
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("❌ adminctl", "error", errors.Wrap(err, "write report"))
		return 1
	}
	return 0
}

// newScriptService : variables d'environnement, puis fichier TOML, puis --seed.
func newScriptService() (*services.ScriptService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if *configPath != "" {
		fc, err := config.LoadFile(*configPath)
		if err != nil {
			return nil, errors.Wrap(err, "load config file")
		}
		fc.Apply(cfg)
	}
	if *seed != 0 {
		cfg.ScriptSeed = *seed
	}

	return services.NewScriptService(
		gateway.NewUsersGateway(cfg.UsersServiceURL, cfg.GatewayTimeout),
		gateway.NewFollowsGateway(cfg.FollowsServiceURL, cfg.GatewayTimeout),
		gateway.NewTweetsGateway(cfg.TweetsServiceURL, cfg.GatewayTimeout),
		cfg.ScriptSeed,
		clock.NewRealClock(),
	), nil
}
