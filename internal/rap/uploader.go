package rap

import (
	"context"

	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// HubSetting is the per-roaming-hub FTP configuration (§6). An absent
// setting (Server == "") is not an error: the builder simply skips upload.
type HubSetting struct {
	Server    string
	Port      string // defaults to "21" when empty
	Username  string
	Password  string
	Directory string
}

// Uploader is the outbound transport boundary: push a locally-encoded RAP
// file to the roaming hub's FTP server. Implemented by internal/rapftp.
type Uploader interface {
	Upload(ctx context.Context, localPath, filename string, setting HubSetting) error
}

// DER is the outbound encoding boundary: turn a populated Return Batch into
// the bytes written to OutputDir and uploaded. Implemented by
// internal/codec.DER.
type DER interface {
	Marshal(rb *tapmodel.ReturnBatch) ([]byte, error)
}
