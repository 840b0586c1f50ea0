package extern

import (
	"context"
	"log/slog"

	"github.com/YongHui-X/ecoplate-sub000/internal/pkg/errs"
	"github.com/YongHui-X/ecoplate-sub000/internal/usecase/shared"
)

var errUnknownAction = errs.New("unknown gamification action")

// points per action, owned by the gamification side. The order engine
// never stores these numbers.
var actionPoints = map[string]int32{
	shared.ActionSale: 50,
}

// LocalGamificationService awards a fixed number of points per action.
// Placeholder for the platform-wide points engine.
type LocalGamificationService struct{}

func NewLocalGamificationService() shared.GamificationService {
	return &LocalGamificationService{}
}

func (s *LocalGamificationService) AwardPoints(_ context.Context, userID int64, action string) (int32, error) {
	points, ok := actionPoints[action]
	if !ok {
		return 0, errs.Wrap(errUnknownAction, action)
	}
	slog.Info("points awarded", "user_id", userID, "action", action, "points", points)
	return points, nil
}
