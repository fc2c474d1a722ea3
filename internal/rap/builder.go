package rap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Olernov/TAP3Loader/internal/obslog"
	"github.com/Olernov/TAP3Loader/internal/tapmodel"
)

// Sentinel build-fault errors (§7 class 2, §6's TL_FILEERROR/TL_DECODEERROR
// distinction). Wrapped with context via fmt.Errorf/%w so errors.Is still
// matches at the call site.
var (
	ErrDatabaseFailure = errors.New("rap: database allocation or persistence failed")
	ErrEncodeFailure   = errors.New("rap: DER encoding failed")
	ErrUploadFailure   = errors.New("rap: FTP upload failed")
)

// BuildResult is everything the caller needs after a build attempt:
// whether the record made it into the database (independent of whether the
// file was encoded or uploaded - §7 class 2), and the allocated identity.
type BuildResult struct {
	Persisted      bool
	RapFileID      int64
	RapSequenceNum string
}

// Builder orchestrates the RAP builder contract (C3, §4.3).
type Builder struct {
	Gateway  Gateway
	Uploader Uploader
	DER      DER
	Hubs     map[string]HubSetting
	Logger   obslog.Logger
	OutputDir string
}

// Build runs the six-step contract: allocate identity, populate the header
// with sender/recipient inversion, attach the caller-built Return Detail,
// persist, encode to DER, and upload. Persistence always precedes encoding
// so the on-disk and in-database identities agree even if encoding later
// fails (§5 Ordering).
func (b *Builder) Build(ctx context.Context, detail tapmodel.ReturnDetail, senderIn, recipientIn, tapAvailableTimestamp string, fileTypeIndicator *string) (BuildResult, error) {
	isTest := fileTypeIndicator != nil && *fileTypeIndicator != ""

	identity, err := b.Gateway.AllocateReturnBatch(ctx, recipientIn, isTest, tapAvailableTimestamp)
	if err != nil {
		return BuildResult{}, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}

	returnBatch := &tapmodel.ReturnBatch{
		RapBatchControlInfo: tapmodel.RapBatchControlInfo{
			// Role inversion: the input's recipient becomes the RAP's
			// sender, and vice versa (§3, §4.3 step 2, §8).
			Sender:    recipientIn,
			Recipient: senderIn,
			RapFileSequenceNumber: identity.RapSequenceNum,
			RapFileCreationTimeStamp: tapmodel.TimestampWithOffset{
				LocalTimeStamp: identity.CreationTimestamp,
				UtcTimeOffset:  identity.UtcOffset,
			},
			RapFileAvailableTimeStamp: tapmodel.TimestampWithOffset{
				LocalTimeStamp: identity.CreationTimestamp,
				UtcTimeOffset:  identity.UtcOffset,
			},
			TapDecimalPlaces:              &identity.TapDecimalPlaces,
			RapSpecificationVersionNumber: identity.RapVersion,
			RapReleaseVersionNumber:       identity.RapRelease,
			SpecificationVersionNumber:    &identity.TapVersion,
			ReleaseVersionNumber:          &identity.TapRelease,
		},
		ReturnDetails: []tapmodel.ReturnDetail{detail},
		RapAuditControlInfo: tapmodel.RapAuditControlInfo{
			TotalSevereReturnValue: 0,
			ReturnDetailsCount:     1,
		},
	}
	if fileTypeIndicator != nil && *fileTypeIndicator != "" {
		returnBatch.RapBatchControlInfo.FileTypeIndicator = fileTypeIndicator
	}

	if err := b.Gateway.LoadReturnBatch(ctx, identity.RapFileID, identity.Filename, StatusCreatedAndSent); err != nil {
		return BuildResult{}, fmt.Errorf("%w: %v", ErrDatabaseFailure, err)
	}
	result := BuildResult{Persisted: true, RapFileID: identity.RapFileID, RapSequenceNum: identity.RapSequenceNum}

	encoded, err := b.DER.Marshal(returnBatch)
	if err != nil {
		return result, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}

	fullPath := filepath.Join(b.OutputDir, identity.Filename)
	if err := os.WriteFile(fullPath, encoded, 0o644); err != nil {
		return result, fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	b.Logger.Info("RAP file successfully created", "roaming_hub", identity.RoamingHubName, "filename", identity.Filename)

	setting, ok := b.Hubs[identity.RoamingHubName]
	if !ok || setting.Server == "" {
		b.Logger.Info("FTP server not configured for roaming hub, no upload performed", "roaming_hub", identity.RoamingHubName)
		return result, nil
	}
	if setting.Port == "" {
		setting.Port = "21"
	}
	if err := b.Uploader.Upload(ctx, fullPath, identity.Filename, setting); err != nil {
		b.Logger.Error("upload to FTP server failed", "roaming_hub", identity.RoamingHubName, "error", err)
		return result, fmt.Errorf("%w: %v", ErrUploadFailure, err)
	}
	b.Logger.Info("successful upload to FTP server", "roaming_hub", identity.RoamingHubName)
	return result, nil
}
