package rest

import (
	"net/http"

	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
	"github.com/jupiterclapton/tweetsuite/pkg/httpx"
	"github.com/jupiterclapton/tweetsuite/pkg/paging"
	"github.com/jupiterclapton/tweetsuite/services/tweet-service/internal/core/ports"
)

// Handler expose tweets, likes et retweets sous /api/v1/tweets.
type Handler struct {
	tweets   ports.TweetService
	likes    ports.LikeService
	retweets ports.RetweetService
}

func NewHandler(tweets ports.TweetService, likes ports.LikeService, retweets ports.RetweetService) *Handler {
	return &Handler{tweets: tweets, likes: likes, retweets: retweets}
}

func (h *Handler) RegisterTo(mux *http.ServeMux) {
	mux.Handle("POST /api/v1/tweets", httpx.Wrap(h.create))
	mux.Handle("GET /api/v1/tweets/{id}", httpx.Wrap(h.get))
	mux.Handle("GET /api/v1/tweets/user/{userId}", httpx.Wrap(h.listByUser))
	mux.Handle("PUT /api/v1/tweets/{id}", httpx.Wrap(h.update))
	mux.Handle("PATCH /api/v1/tweets/{id}/delete", httpx.Wrap(h.delete))

	mux.Handle("POST /api/v1/tweets/{id}/like", httpx.Wrap(h.like))
	mux.Handle("DELETE /api/v1/tweets/{id}/like/{userId}", httpx.Wrap(h.unlike))

	mux.Handle("POST /api/v1/tweets/{id}/retweet", httpx.Wrap(h.retweet))
	mux.Handle("DELETE /api/v1/tweets/{id}/retweet/{userId}", httpx.Wrap(h.unretweet))

	// "/{id}/likes" entrerait en conflit avec "/user/{userId}" dans le ServeMux
	mux.Handle("GET /api/v1/tweets/{id}/{collection}", httpx.Wrap(h.listEngagement))
}

// --- TWEETS ---

func (h *Handler) create(w http.ResponseWriter, r *http.Request) error {
	req, err := httpx.Decode[TweetRequest](r)
	if err != nil {
		return err
	}
	userID, err := httpx.ParseUUID("userId", req.UserID)
	if err != nil {
		return err
	}

	tweet, err := h.tweets.CreateTweet(r.Context(), userID, req.Content)
	if err != nil {
		return err
	}
	w.Header().Set("Location", "/api/v1/tweets/"+tweet.ID)
	httpx.WriteJSON(w, toTweetResponse(tweet), http.StatusCreated)
	return nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	tweet, err := h.tweets.GetTweet(r.Context(), id)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toTweetResponse(tweet), http.StatusOK)
	return nil
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) error {
	userID, err := httpx.PathUUID(r, "userId")
	if err != nil {
		return err
	}
	pr, err := httpx.PageRequest(r)
	if err != nil {
		return err
	}
	page, err := h.tweets.ListUserTweets(r.Context(), userID, pr)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, paging.Map(page, toTweetResponse), http.StatusOK)
	return nil
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := httpx.Decode[TweetRequest](r)
	if err != nil {
		return err
	}
	userID, err := httpx.ParseUUID("userId", req.UserID)
	if err != nil {
		return err
	}

	tweet, err := h.tweets.UpdateTweet(r.Context(), id, userID, req.Content)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toTweetResponse(tweet), http.StatusOK)
	return nil
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) error {
	id, userID, err := actorFromBody(r)
	if err != nil {
		return err
	}
	if err := h.tweets.DeleteTweet(r.Context(), id, userID); err != nil {
		return err
	}
	httpx.NoContent(w)
	return nil
}

// --- LIKES ---

func (h *Handler) like(w http.ResponseWriter, r *http.Request) error {
	id, userID, err := actorFromBody(r)
	if err != nil {
		return err
	}
	like, err := h.likes.LikeTweet(r.Context(), id, userID)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toLikeResponse(like), http.StatusCreated)
	return nil
}

func (h *Handler) unlike(w http.ResponseWriter, r *http.Request) error {
	id, userID, err := actorFromPath(r)
	if err != nil {
		return err
	}
	if err := h.likes.UnlikeTweet(r.Context(), id, userID); err != nil {
		return err
	}
	httpx.NoContent(w)
	return nil
}

func (h *Handler) listLikes(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	pr, err := httpx.PageRequest(r)
	if err != nil {
		return err
	}
	page, err := h.likes.ListLikes(r.Context(), id, pr)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, paging.Map(page, toLikeResponse), http.StatusOK)
	return nil
}

// --- RETWEETS ---

func (h *Handler) retweet(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	req, err := httpx.Decode[RetweetRequest](r)
	if err != nil {
		return err
	}
	userID, err := httpx.ParseUUID("userId", req.UserID)
	if err != nil {
		return err
	}

	rt, err := h.retweets.Retweet(r.Context(), id, userID, req.Comment)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, toRetweetResponse(rt), http.StatusCreated)
	return nil
}

func (h *Handler) unretweet(w http.ResponseWriter, r *http.Request) error {
	id, userID, err := actorFromPath(r)
	if err != nil {
		return err
	}
	if err := h.retweets.Unretweet(r.Context(), id, userID); err != nil {
		return err
	}
	httpx.NoContent(w)
	return nil
}

func (h *Handler) listRetweets(w http.ResponseWriter, r *http.Request) error {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		return err
	}
	pr, err := httpx.PageRequest(r)
	if err != nil {
		return err
	}
	page, err := h.retweets.ListRetweets(r.Context(), id, pr)
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, paging.Map(page, toRetweetResponse), http.StatusOK)
	return nil
}

func (h *Handler) listEngagement(w http.ResponseWriter, r *http.Request) error {
	switch r.PathValue("collection") {
	case "likes":
		return h.listLikes(w, r)
	case "retweets":
		return h.listRetweets(w, r)
	default:
		return apperr.NotFound("route", r.URL.Path)
	}
}

// --- Helpers ---

func actorFromBody(r *http.Request) (tweetID, userID string, err error) {
	if tweetID, err = httpx.PathUUID(r, "id"); err != nil {
		return "", "", err
	}
	req, err := httpx.Decode[ActorRequest](r)
	if err != nil {
		return "", "", err
	}
	userID, err = httpx.ParseUUID("userId", req.UserID)
	return tweetID, userID, err
}

func actorFromPath(r *http.Request) (tweetID, userID string, err error) {
	if tweetID, err = httpx.PathUUID(r, "id"); err != nil {
		return "", "", err
	}
	userID, err = httpx.PathUUID(r, "userId")
	return tweetID, userID, err
}
