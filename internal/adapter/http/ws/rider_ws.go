package wshandler

import (
	"context"
	"fmt"

	"github.com/Harish01234/vahanseva/internal/domain/models"
	wrap "github.com/Harish01234/vahanseva/pkg/logger/wrapper"
	"github.com/Harish01234/vahanseva/pkg/uuid"
	"github.com/Harish01234/vahanseva/pkg/wshub"
)

// RiderNotifier pushes assignment notices to connected riders. A rider
// without an open socket simply misses the push; the assignment itself
// is not affected.
type RiderNotifier struct {
	connections *wshub.ConnectionHub
}

func NewRiderNotifier(connections *wshub.ConnectionHub) *RiderNotifier {
	return &RiderNotifier{
		connections: connections,
	}
}

func (h *RiderNotifier) NotifyAssignment(ctx context.Context, riderID uuid.UUID, notice models.AssignmentNotice) error {
	ctx = wrap.WithAction(ctx, "ws_notify_assignment")

	conn, err := h.connections.GetConn(riderID)
	if err != nil {
		return wrap.Error(ctx, err)
	}

	if err := conn.Send(notice); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to push assignment notice to rider: %w", err))
	}

	return nil
}
