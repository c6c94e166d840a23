package domain

import (
	"github.com/jupiterclapton/tweetsuite/pkg/apperr"
)

// Bornes des requêtes de génération.
const (
	MaxUsers             = 1000
	MaxTweetsPerUser     = 100
	MaxUsersForDeletion  = 1000
	MinTweetsForBursts   = 6
	MinUsersForBursts    = 2
	ValidationErrorLabel = "Validation error"
)

type BaseScriptRequest struct {
	NUsers            int
	NTweetsPerUser    int
	LUsersForDeletion int
}

func (r BaseScriptRequest) Validate() error {
	var fe apperr.FormatErrors
	fe.Add(validateUsersAndTweets(r.NUsers, r.NTweetsPerUser))
	if r.LUsersForDeletion < 0 || r.LUsersForDeletion > MaxUsersForDeletion {
		fe.Add(apperr.Formatf("lUsersForDeletion", "must be between 0 and %d", MaxUsersForDeletion))
	}
	return fe.OrNil()
}

type GenerateRequest struct {
	NUsers         int
	NTweetsPerUser int
}

func (r GenerateRequest) Validate() error {
	return validateUsersAndTweets(r.NUsers, r.NTweetsPerUser)
}

func validateUsersAndTweets(nUsers, nTweets int) error {
	var fe apperr.FormatErrors
	if nUsers < 1 || nUsers > MaxUsers {
		fe.Add(apperr.Formatf("nUsers", "must be between 1 and %d", MaxUsers))
	}
	if nTweets < 1 || nTweets > MaxTweetsPerUser {
		fe.Add(apperr.Formatf("nTweetsPerUser", "must be between 1 and %d", MaxTweetsPerUser))
	}
	return fe.OrNil()
}

// Statistics résume une exécution. Errors contient un message lisible par appel échoué.
type Statistics struct {
	TotalUsersCreated    int
	TotalFollowsCreated  int
	TotalTweetsCreated   int
	TotalTweetsDeleted   int
	TotalLikesCreated    int
	TotalRetweetsCreated int
	UsersWithTweetsCount int
	ErrorsCount          int
	Errors               []string
	ExecutionTimeMs      int64
}

type BaseScriptReport struct {
	CreatedUserIDs    []string
	CreatedFollowIDs  []string
	CreatedTweetIDs   []string
	DeletedTweetIDs   []string
	CreatedLikeIDs    []string
	CreatedRetweetIDs []string
	Statistics        Statistics
}

type GenerateReport struct {
	CreatedUserIDs  []string
	CreatedTweetIDs []string
	Statistics      Statistics
}
