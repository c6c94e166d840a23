package ports

import (
	"context"

	"github.com/jupiterclapton/tweetsuite/services/admin-script-service/internal/core/domain"
)

// ScriptService orchestre la génération de données via les gateways.
// Les erreurs des gateways sont collectées dans le rapport, seule une requête invalide est retournée.
type ScriptService interface {
	RunBaseScript(ctx context.Context, req domain.BaseScriptRequest) (*domain.BaseScriptReport, error)
	GenerateUsersAndTweets(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateReport, error)
}
