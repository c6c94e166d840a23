package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/jupiterclapton/tweetsuite/pkg/clock"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/ports"
)

const (
	maxLoginLength   = 50
	maxNameLength    = 50
	maxContentLength = 280
)

var loginUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// burst décrit la part des utilisateurs éligibles qui interagit avec un tweet :
// une fraction num/den, ou un seul utilisateur.
type burst struct {
	num, den int
	single   bool
}

func (b burst) size(eligible int) int {
	if b.single {
		return 1
	}
	return max(1, eligible*b.num/b.den)
}

var bursts = []burst{{num: 1, den: 2}, {num: 1, den: 3}, {single: true}}

type ScriptService struct {
	users   ports.UsersGateway
	follows ports.FollowsGateway
	tweets  ports.TweetsGateway
	seed    uint64
	clock   clock.Clock
}

var _ ports.ScriptService = (*ScriptService)(nil)

// NewScriptService : seed à 0 pour un tirage différent à chaque exécution.
func NewScriptService(users ports.UsersGateway, follows ports.FollowsGateway, tweets ports.TweetsGateway, seed uint64, clk clock.Clock) *ScriptService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &ScriptService{users: users, follows: follows, tweets: tweets, seed: seed, clock: clk}
}

// run porte l'état d'une exécution : générateurs, identifiants créés et erreurs collectées.
type run struct {
	svc     *ScriptService
	rnd     *rand.Rand
	fake    *gofakeit.Faker
	tag     string
	started time.Time
	errors  []string
	// retweets tentés, pour alterner les commentaires
	retweetSeq int
}

// ownedTweet associe un tweet à son auteur.
type ownedTweet struct {
	id     string
	author string
}

func (s *ScriptService) newRun() *run {
	seed := s.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	started := s.clock.NowUtc()
	return &run{
		svc:     s,
		rnd:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		fake:    gofakeit.New(seed),
		tag:     strconv.FormatInt(started.UnixMilli()%(36*36*36*36*36), 36),
		started: started,
	}
}

func (s *ScriptService) RunBaseScript(ctx context.Context, req domain.BaseScriptRequest) (*domain.BaseScriptReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := s.newRun()
	slog.InfoContext(ctx, "🧪 Base script started",
		"n_users", req.NUsers, "n_tweets_per_user", req.NTweetsPerUser, "l_users_for_deletion", req.LUsersForDeletion)

	// 1. Utilisateurs
	users := r.createUsers(ctx, req.NUsers)

	// 2. Graphe de follows autour d'un utilisateur central
	follows := r.createFollowGraph(ctx, users)

	// 3. Tweets
	tweetsByUser, created := r.createTweets(ctx, users, req.NTweetsPerUser)

	// 4. Utilisateurs ayant au moins un tweet, dans l'ordre de création
	var withTweets []string
	for _, u := range users {
		if len(tweetsByUser[u]) > 0 {
			withTweets = append(withTweets, u)
		}
	}

	// 5. Suppressions
	deleted := r.deleteTweets(ctx, withTweets, tweetsByUser, req.LUsersForDeletion)

	// 6. Likes et retweets par vagues
	var pool []ownedTweet
	for _, u := range users {
		for _, id := range tweetsByUser[u] {
			pool = append(pool, ownedTweet{id: id, author: u})
		}
	}
	likes, retweets := r.engagementBursts(ctx, users, pool)

	report := &domain.BaseScriptReport{
		CreatedUserIDs:    users,
		CreatedFollowIDs:  follows,
		CreatedTweetIDs:   created,
		DeletedTweetIDs:   deleted,
		CreatedLikeIDs:    likes,
		CreatedRetweetIDs: retweets,
	}
	report.Statistics = r.statistics(domain.Statistics{
		TotalUsersCreated:    len(users),
		TotalFollowsCreated:  len(follows),
		TotalTweetsCreated:   len(created),
		TotalTweetsDeleted:   len(deleted),
		TotalLikesCreated:    len(likes),
		TotalRetweetsCreated: len(retweets),
		UsersWithTweetsCount: len(withTweets),
	})

	slog.InfoContext(ctx, "✅ Base script finished",
		"users", len(users), "tweets", len(created), "errors", report.Statistics.ErrorsCount,
		"duration_ms", report.Statistics.ExecutionTimeMs)
	return report, nil
}

func (s *ScriptService) GenerateUsersAndTweets(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := s.newRun()
	slog.InfoContext(ctx, "🧪 Generation started", "n_users", req.NUsers, "n_tweets_per_user", req.NTweetsPerUser)

	users := r.createUsers(ctx, req.NUsers)
	tweetsByUser, created := r.createTweets(ctx, users, req.NTweetsPerUser)

	withTweets := 0
	for _, u := range users {
		if len(tweetsByUser[u]) > 0 {
			withTweets++
		}
	}

	report := &domain.GenerateReport{
		CreatedUserIDs:  users,
		CreatedTweetIDs: created,
		Statistics: r.statistics(domain.Statistics{
			TotalUsersCreated:    len(users),
			TotalTweetsCreated:   len(created),
			UsersWithTweetsCount: withTweets,
		}),
	}

	slog.InfoContext(ctx, "✅ Generation finished",
		"users", len(users), "tweets", len(created), "errors", report.Statistics.ErrorsCount)
	return report, nil
}

// --- ÉTAPES ---

func (r *run) createUsers(ctx context.Context, n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if r.interrupted(ctx) {
			break
		}
		id, err := r.svc.users.CreateUser(ctx, r.fakeUser(i))
		if err != nil {
			r.failCall(ctx, fmt.Sprintf("Failed to create user %d: %v", i, err))
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// createFollowGraph : k = (n-1)/2 utilisateurs suivent le central, puis le central en suit k autres.
func (r *run) createFollowGraph(ctx context.Context, users []string) []string {
	if len(users) == 0 {
		return nil
	}
	centralIdx := r.rnd.IntN(len(users))
	central := users[centralIdx]

	others := make([]string, 0, len(users)-1)
	others = append(others, users[:centralIdx]...)
	others = append(others, users[centralIdx+1:]...)
	k := (len(users) - 1) / 2

	var ids []string
	follow := func(follower, following string) {
		if r.interrupted(ctx) {
			return
		}
		id, err := r.svc.follows.CreateFollow(ctx, follower, following)
		if err != nil {
			r.failCall(ctx, fmt.Sprintf("Failed to create follow %s -> %s: %v", follower, following, err))
			return
		}
		ids = append(ids, id)
	}

	r.shuffle(others)
	for _, u := range others[:k] {
		follow(u, central)
	}
	r.shuffle(others)
	for _, u := range others[:k] {
		follow(central, u)
	}
	return ids
}

func (r *run) createTweets(ctx context.Context, users []string, perUser int) (map[string][]string, []string) {
	byUser := make(map[string][]string, len(users))
	var all []string
	for _, u := range users {
		for range perUser {
			if r.interrupted(ctx) {
				return byUser, all
			}
			id, err := r.svc.tweets.CreateTweet(ctx, u, r.fakeContent())
			if err != nil {
				r.failCall(ctx, fmt.Sprintf("Failed to create tweet for user %s: %v", u, err))
				continue
			}
			byUser[u] = append(byUser[u], id)
			all = append(all, id)
		}
	}
	return byUser, all
}

// deleteTweets supprime un tweet au hasard pour l utilisateurs tirés parmi withTweets.
// Les tweets supprimés sont retirés de byUser.
func (r *run) deleteTweets(ctx context.Context, withTweets []string, byUser map[string][]string, l int) []string {
	if l == 0 {
		return nil
	}
	if l > len(withTweets) {
		r.fail(ctx, fmt.Sprintf("%s: lUsersForDeletion (%d) exceeds users with tweets (%d)",
			domain.ValidationErrorLabel, l, len(withTweets)))
		return nil
	}

	candidates := append([]string(nil), withTweets...)
	r.shuffle(candidates)

	var deleted []string
	for _, u := range candidates[:l] {
		if r.interrupted(ctx) {
			break
		}
		tweets := byUser[u]
		idx := r.rnd.IntN(len(tweets))
		if err := r.svc.tweets.DeleteTweet(ctx, tweets[idx], u); err != nil {
			r.failCall(ctx, fmt.Sprintf("Failed to delete tweet %s: %v", tweets[idx], err))
			continue
		}
		deleted = append(deleted, tweets[idx])
		byUser[u] = append(tweets[:idx:idx], tweets[idx+1:]...)
	}
	return deleted
}

// engagementBursts : trois vagues de likes (1/2, 1/3, un seul utilisateur) puis trois de
// retweets, chacune sur un tweet différent du pool.
func (r *run) engagementBursts(ctx context.Context, users []string, pool []ownedTweet) ([]string, []string) {
	if len(pool) < domain.MinTweetsForBursts || len(users) < domain.MinUsersForBursts {
		return nil, nil
	}
	pool = append([]ownedTweet(nil), pool...)
	take := func() ownedTweet {
		i := r.rnd.IntN(len(pool))
		t := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		return t
	}

	var likes, retweets []string
	for _, b := range bursts {
		tweet := take()
		for _, u := range r.pickEligible(users, tweet.author, b) {
			if r.interrupted(ctx) {
				return likes, retweets
			}
			id, err := r.svc.tweets.LikeTweet(ctx, tweet.id, u)
			if err != nil {
				r.failCall(ctx, fmt.Sprintf("Failed to like tweet %s by user %s: %v", tweet.id, u, err))
				continue
			}
			likes = append(likes, id)
		}
	}
	for _, b := range bursts {
		tweet := take()
		for _, u := range r.pickEligible(users, tweet.author, b) {
			if r.interrupted(ctx) {
				return likes, retweets
			}
			id, err := r.svc.tweets.RetweetTweet(ctx, tweet.id, u, r.fakeComment())
			if err != nil {
				r.failCall(ctx, fmt.Sprintf("Failed to retweet tweet %s by user %s: %v", tweet.id, u, err))
				continue
			}
			retweets = append(retweets, id)
		}
	}
	return likes, retweets
}

// pickEligible tire b.size(len(eligible)) utilisateurs autres que l'auteur.
func (r *run) pickEligible(users []string, author string, b burst) []string {
	eligible := make([]string, 0, len(users))
	for _, u := range users {
		if u != author {
			eligible = append(eligible, u)
		}
	}
	if len(eligible) == 0 {
		return nil
	}
	r.shuffle(eligible)
	return eligible[:b.size(len(eligible))]
}

// --- HELPERS ---

func (r *run) shuffle(s []string) {
	r.rnd.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

func (r *run) fail(ctx context.Context, msg string) {
	slog.WarnContext(ctx, "script step failed", "error", msg)
	r.errors = append(r.errors, msg)
}

// failCall : un appel coupé par l'annulation ne compte que comme interruption.
func (r *run) failCall(ctx context.Context, msg string) {
	if r.interrupted(ctx) {
		return
	}
	r.fail(ctx, msg)
}

// interrupted enregistre une seule erreur quand le contexte est annulé.
func (r *run) interrupted(ctx context.Context) bool {
	err := ctx.Err()
	if err == nil {
		return false
	}
	msg := fmt.Sprintf("Run interrupted: %v", err)
	if n := len(r.errors); n == 0 || r.errors[n-1] != msg {
		r.fail(ctx, msg)
	}
	return true
}

func (r *run) statistics(st domain.Statistics) domain.Statistics {
	st.Errors = r.errors
	if st.Errors == nil {
		st.Errors = []string{}
	}
	st.ErrorsCount = len(r.errors)
	st.ExecutionTimeMs = r.svc.clock.NowUtc().Sub(r.started).Milliseconds()
	return st
}

// fakeUser génère un profil valide pour users-service ; l'index et le tag rendent le login unique.
func (r *run) fakeUser(i int) ports.NewUser {
	suffix := "_" + r.tag + "_" + strconv.Itoa(i)
	base := loginUnsafe.ReplaceAllString(r.fake.Username(), "")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base)+len(suffix) > maxLoginLength {
		base = base[:maxLoginLength-len(suffix)]
	}
	login := base + suffix

	return ports.NewUser{
		Login:     login,
		Email:     strings.ToLower(login) + "@" + r.fake.DomainName(),
		FirstName: truncate(r.fake.FirstName(), maxNameLength),
		LastName:  truncate(r.fake.LastName(), maxNameLength),
		Password:  r.fake.Password(true, true, true, false, false, 12),
	}
}

func (r *run) fakeContent() string {
	return truncate(r.fake.Sentence(3+r.rnd.IntN(15)), maxContentLength)
}

// fakeComment : un retweet sur deux (le 2e, le 4e...) porte un commentaire.
func (r *run) fakeComment() *string {
	r.retweetSeq++
	if r.retweetSeq%2 == 1 {
		return nil
	}
	c := truncate(r.fake.Sentence(4), maxContentLength)
	return &c
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
