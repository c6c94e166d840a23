package rest

import "github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"

type BaseScriptRequest struct {
	NUsers            int `json:"nUsers"`
	NTweetsPerUser    int `json:"nTweetsPerUser"`
	LUsersForDeletion int `json:"lUsersForDeletion"`
}

type GenerateRequest struct {
	NUsers         int `json:"nUsers"`
	NTweetsPerUser int `json:"nTweetsPerUser"`
}

type StatisticsResponse struct {
	TotalUsersCreated    int      `json:"totalUsersCreated"`
	TotalFollowsCreated  int      `json:"totalFollowsCreated"`
	TotalTweetsCreated   int      `json:"totalTweetsCreated"`
	TotalTweetsDeleted   int      `json:"totalTweetsDeleted"`
	TotalLikesCreated    int      `json:"totalLikesCreated"`
	TotalRetweetsCreated int      `json:"totalRetweetsCreated"`
	UsersWithTweetsCount int      `json:"usersWithTweetsCount"`
	ErrorsCount          int      `json:"errorsCount"`
	Errors               []string `json:"errors"`
	ExecutionTimeMs      int64    `json:"executionTimeMs"`
}

type BaseScriptResponse struct {
	CreatedUsers    []string           `json:"createdUsers"`
	CreatedFollows  []string           `json:"createdFollows"`
	CreatedTweets   []string           `json:"createdTweets"`
	DeletedTweets   []string           `json:"deletedTweets"`
	CreatedLikes    []string           `json:"createdLikes"`
	CreatedRetweets []string           `json:"createdRetweets"`
	Statistics      StatisticsResponse `json:"statistics"`
}

type GenerateResponse struct {
	CreatedUsers  []string           `json:"createdUsers"`
	CreatedTweets []string           `json:"createdTweets"`
	Statistics    StatisticsResponse `json:"statistics"`
}

func ToBaseScriptResponse(r *domain.BaseScriptReport) BaseScriptResponse {
	return BaseScriptResponse{
		CreatedUsers:    ids(r.CreatedUserIDs),
		CreatedFollows:  ids(r.CreatedFollowIDs),
		CreatedTweets:   ids(r.CreatedTweetIDs),
		DeletedTweets:   ids(r.DeletedTweetIDs),
		CreatedLikes:    ids(r.CreatedLikeIDs),
		CreatedRetweets: ids(r.CreatedRetweetIDs),
		Statistics:      toStatistics(r.Statistics),
	}
}

func ToGenerateResponse(r *domain.GenerateReport) GenerateResponse {
	return GenerateResponse{
		CreatedUsers:  ids(r.CreatedUserIDs),
		CreatedTweets: ids(r.CreatedTweetIDs),
		Statistics:    toStatistics(r.Statistics),
	}
}

func toStatistics(s domain.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalUsersCreated:    s.TotalUsersCreated,
		TotalFollowsCreated:  s.TotalFollowsCreated,
		TotalTweetsCreated:   s.TotalTweetsCreated,
		TotalTweetsDeleted:   s.TotalTweetsDeleted,
		TotalLikesCreated:    s.TotalLikesCreated,
		TotalRetweetsCreated: s.TotalRetweetsCreated,
		UsersWithTweetsCount: s.UsersWithTweetsCount,
		ErrorsCount:          s.ErrorsCount,
		Errors:               ids(s.Errors),
		ExecutionTimeMs:      s.ExecutionTimeMs,
	}
}

// ids garantit un tableau JSON vide plutôt que null.
func ids(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
