package transfers

import (
	"context"

	"github.com/dmitrijs2005/hashzone/internal/server/models"
)

// Channel names the audit stream a transfer record is appended to. The
// channel is an explicit argument everywhere so a caller can never silently
// pick the wrong stream.
type Channel string

const (
	ChannelUpload   Channel = "upload"
	ChannelDownload Channel = "download"
)

// Repository is the append-only audit log of transfer lifecycle events.
type Repository interface {
	Append(ctx context.Context, channel Channel, record *models.TransferRecord) error
}
