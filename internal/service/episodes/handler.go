package episodes

import (
	"context"

	"go-micro.dev/v4/logger"
)

type SyncRequest struct {
	SeriesID int64
}

type SyncResponse struct {
	Scheduled bool
}

// Handler is the RPC surface for forcing a reconciliation pass
type Handler struct {
	Service *Service
}

func (h *Handler) Sync(ctx context.Context, request *SyncRequest, response *SyncResponse) error {
	logger.Infof("Sync: %d", request.SeriesID)
	response.Scheduled = h.Service.ScheduleSync(request.SeriesID)
	return nil
}
